package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_UnifiesLineBreaks(t *testing.T) {
	out := NormalizeText("line1\r\nline2\rline3")
	assert.Equal(t, "line1\nline2\nline3", out)
}

func TestNormalizeText_CollapsesWhitespace(t *testing.T) {
	out := NormalizeText("John    Doe\t\tEngineer")
	assert.Equal(t, "John Doe Engineer", out)
}

func TestNormalizeText_CollapsesBlankLines(t *testing.T) {
	// 连续空行压缩，但保留段落边界（单个空行）
	out := NormalizeText("a\n\n\n\n\nb")
	assert.Equal(t, "a\n\nb", out)
}

func TestNormalizeText_StripsControlAndNonASCII(t *testing.T) {
	out := NormalizeText("Jane\x00\x07 Doeé世")
	assert.Equal(t, "Jane Doe", out)
}

func TestNormalizeText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "", NormalizeText("   \n\t  \n  "))
}
