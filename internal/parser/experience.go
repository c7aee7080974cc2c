package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// ExtractWorkExperience 从 experience 章节提取工作经历序列。
// 章节缺失时返回空切片。
//
// 段落按空行切分。每个含两行以上的段落：首行若命中职位头衔词表
// 则视为职位、次行为公司；否则首行为公司、次行为职位。
// 日期区间在整段内匹配，右侧为 present/current 时置 Current 并留空
// EndDate。标题/公司行与日期行之后的内容并入 Description。
// 日期 token 原样保留，不做日历解析。
func ExtractWorkExperience(sections map[types.SectionType]string) []types.WorkEntry {
	entries := []types.WorkEntry{}
	section, ok := sections[types.SectionExperience]
	if !ok {
		return entries
	}

	for _, paragraph := range splitParagraphs(section) {
		lines := nonEmptyLines(paragraph)
		if len(lines) < 2 {
			continue
		}

		entry := types.WorkEntry{}
		if looksLikeJobTitle(lines[0]) {
			entry.Position = stripDateTokens(lines[0])
			entry.Company = stripDateTokens(lines[1])
		} else {
			entry.Company = stripDateTokens(lines[0])
			entry.Position = stripDateTokens(lines[1])
		}

		entry.StartDate, entry.EndDate, entry.Current = extractDateRange(paragraph)

		// 标题两行之后的部分作为描述，纯日期行跳过
		var desc []string
		for _, line := range lines[2:] {
			if isDateOnlyLine(line) {
				continue
			}
			desc = append(desc, line)
		}
		entry.Description = strings.Join(desc, "\n")

		if entry.Company == "" && entry.Position == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}

// looksLikeJobTitle 判断一行是否像职位头衔（命中头衔词表）。
func looksLikeJobTitle(line string) bool {
	for _, title := range jobTitleVocabulary {
		if containsWord(line, title) {
			return true
		}
	}
	return false
}

// extractDateRange 在文本中找首个日期区间。
// 返回起止 token 与在职标记；右侧为 present/current/now 时
// EndDate 为空且 current 为 true。
func extractDateRange(text string) (start, end string, current bool) {
	m := dateRangePattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	start = strings.TrimSpace(m[1])
	right := strings.TrimSpace(m[2])
	if presentPattern.MatchString(right) {
		return start, "", true
	}
	return start, right, false
}

// stripDateTokens 去掉行内嵌入的日期区间片段，留下干净的名称。
func stripDateTokens(line string) string {
	out := dateRangePattern.ReplaceAllString(line, "")
	out = strings.Trim(strings.TrimSpace(out), "-–—|,(")
	return strings.TrimSpace(out)
}

// isDateOnlyLine 判断一行是否只包含日期区间。
func isDateOnlyLine(line string) bool {
	stripped := dateRangePattern.ReplaceAllString(line, "")
	stripped = strings.Trim(stripped, " -–—|,()")
	return strings.TrimSpace(stripped) == "" && dateRangePattern.MatchString(line)
}
