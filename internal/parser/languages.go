package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// ExtractLanguages 提取语言能力序列。
// 有 languages 章节时逐行匹配；章节缺失时退化为全文扫描，
// 要求语言名与熟练度词出现在同一行才计入，避免把正文里的
// "English" 之类误认为语言能力声明。
// 每种语言只产出一条；未检出级别词时 Proficiency 为空。
func ExtractLanguages(text string, sections map[types.SectionType]string) []types.LanguageEntry {
	entries := []types.LanguageEntry{}
	seen := make(map[string]bool)

	section, hasSection := sections[types.SectionLanguages]
	var lines []string
	if hasSection {
		lines = nonEmptyLines(section)
	} else {
		lines = nonEmptyLines(text)
	}

	for _, line := range lines {
		for _, lang := range languageVocabulary {
			if seen[lang] || !containsWord(line, lang) {
				continue
			}
			prof := findProficiency(line)
			// 全文扫描模式下必须同行出现级别词才算语言能力声明
			if !hasSection && prof == "" {
				continue
			}
			seen[lang] = true
			entries = append(entries, types.LanguageEntry{
				Language:    canonicalTitle(lang),
				Proficiency: prof,
			})
		}
	}

	return entries
}

// findProficiency 在行内找熟练度词，返回规范值；未找到返回空串。
func findProficiency(line string) string {
	lower := strings.ToLower(line)
	for _, entry := range proficiencyAliases {
		if strings.Contains(lower, entry.Alias) {
			return entry.Canonical
		}
	}
	return ""
}

// canonicalTitle 首字母大写形式（词表项都是单个小写词）。
func canonicalTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
