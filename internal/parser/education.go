package parser

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/types"
)

// 从学位行中捕获 "in X"/"of X" 后的专业名。
// "Bachelor of Science in Computer Science" 这类行里 "in" 的
// 限定更准，优先于 "of"。
var (
	fieldInPattern = regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z&/\- ]{1,60})`)
	fieldOfPattern = regexp.MustCompile(`(?i)\bof\s+([A-Za-z][A-Za-z&/\- ]{1,60})`)
)

// extractFieldOfStudy 从学位串中取专业名，未命中返回空串。
func extractFieldOfStudy(degree string) string {
	if m := fieldInPattern.FindStringSubmatch(degree); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fieldOfPattern.FindStringSubmatch(degree); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractEducation 从 education 章节提取教育经历序列。
// 章节缺失时返回空切片。
//
// 段落按空行切分。段落内含学位关键词的行为学位行；
// 院校名取段落首行，首行恰为学位行时改取下一条非学位行。
// 学位行中出现 "<学位词> ... in/of <专业>" 模式时捕获 Field。
func ExtractEducation(sections map[types.SectionType]string) []types.EducationEntry {
	entries := []types.EducationEntry{}
	section, ok := sections[types.SectionEducation]
	if !ok {
		return entries
	}

	for _, paragraph := range splitParagraphs(section) {
		lines := nonEmptyLines(paragraph)
		if len(lines) == 0 {
			continue
		}

		entry := types.EducationEntry{}

		degreeIdx := -1
		for i, line := range lines {
			if looksLikeDegree(line) {
				degreeIdx = i
				break
			}
		}

		if degreeIdx >= 0 {
			entry.Degree = stripDateTokens(lines[degreeIdx])
			entry.Field = extractFieldOfStudy(entry.Degree)
		}

		// 院校名：首行；首行就是学位行时取下一条非学位行
		if degreeIdx != 0 {
			entry.Institution = stripDateTokens(lines[0])
		} else {
			for _, line := range lines[1:] {
				if looksLikeDegree(line) || isDateOnlyLine(line) {
					continue
				}
				entry.Institution = stripDateTokens(line)
				break
			}
		}

		entry.StartDate, entry.EndDate, _ = extractDateRange(paragraph)
		if entry.EndDate == "" && entry.StartDate == "" {
			// 教育经历也常只写毕业年份
			if m := singleDatePattern.FindString(paragraph); m != "" {
				entry.EndDate = strings.TrimSpace(m)
			}
		}

		if entry.Institution == "" && entry.Degree == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}

// looksLikeDegree 判断一行是否包含学位关键词。
func looksLikeDegree(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range degreeVocabulary {
		if strings.Contains(kw, ".") {
			// 带点缩写（b.s/m.a 等）直接做子串匹配
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}
