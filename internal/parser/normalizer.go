package parser

import (
	"strings"
	"unicode"
)

// NormalizeText 清洗解码后的原始文本：统一换行符、去除控制字符与
// 非 ASCII 字节、压缩连续空白。永远返回字符串（可能为空），无副作用。
func NormalizeText(raw string) string {
	if raw == "" {
		return ""
	}

	// 统一化换行符
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r > unicode.MaxASCII:
			// 有损解码常带进乱码字节，直接丢弃
		case unicode.IsControl(r):
			// 控制字符替换为空格，避免把相邻词粘连
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	text = b.String()

	// 逐行压缩行内空白
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	// 移除多余空行
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(text)
}
