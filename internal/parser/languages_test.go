package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLanguages_SectionLines(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionLanguages: "English - Native\nSpanish (conversational)\nJapanese",
	}
	entries := ExtractLanguages("", sections)

	require.Len(t, entries, 3)
	assert.Equal(t, types.LanguageEntry{Language: "English", Proficiency: "Native"}, entries[0])
	assert.Equal(t, types.LanguageEntry{Language: "Spanish", Proficiency: "Intermediate"}, entries[1])
	assert.Equal(t, types.LanguageEntry{Language: "Japanese", Proficiency: ""}, entries[2])
}

func TestExtractLanguages_FullTextRequiresProficiency(t *testing.T) {
	// 全文扫描模式下只有同行出现级别词才算语言能力声明
	text := "Taught English literature courses.\nFrench: fluent speaker."
	entries := ExtractLanguages(text, nil)

	require.Len(t, entries, 1)
	assert.Equal(t, "French", entries[0].Language)
	assert.Equal(t, "Fluent", entries[0].Proficiency)
}

func TestExtractLanguages_DeduplicatesPerLanguage(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionLanguages: "German - Fluent\nGerman - Basic",
	}
	entries := ExtractLanguages("", sections)

	require.Len(t, entries, 1)
	assert.Equal(t, "Fluent", entries[0].Proficiency)
}

func TestExtractLanguages_Empty(t *testing.T) {
	entries := ExtractLanguages("", nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
