package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "王*明", MaskPII("王小明"))
	assert.Equal(t, "13*******78", MaskPII("13812345678"))

	masked := MaskPII("myemail@example.com")
	assert.True(t, strings.HasPrefix(masked, "my"))
	assert.True(t, strings.HasSuffix(masked, "om"))
	assert.NotContains(t, masked, "@example")
}

func TestSafeAttributeValueMasksSensitiveNames(t *testing.T) {
	// 属性名里包含敏感关键字时必须掩码
	assert.Equal(t, "zh************om", SafeAttributeValue("candidate.email", "zhangsan@163.com", DefaultMaxLength))
	assert.Equal(t, "13*******78", SafeAttributeValue("candidate.phone", "13812345678", DefaultMaxLength))

	// 非敏感属性只做截断
	assert.Equal(t, "resume/abc/original.pdf", SafeAttributeValue("object_key", "resume/abc/original.pdf", DefaultMaxLength))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("x", 300)
	truncated := TruncateString(long, DefaultMaxLength)
	assert.LessOrEqual(t, len([]rune(truncated)), DefaultMaxLength)
	assert.Contains(t, truncated, "...")
}

func TestSafeResumeContentTruncatesLongText(t *testing.T) {
	text := strings.Repeat("工作经历 ", 100)
	preview := SafeResumeContent(text)
	assert.LessOrEqual(t, len([]rune(preview)), MaxResumeLength)
}
