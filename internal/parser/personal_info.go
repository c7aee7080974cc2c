package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// locationScanLines 位置信息只在文档前几行中寻找
const locationScanLines = 5

// ExtractPersonalInfo 从全文与章节映射中提取个人信息。
// 各启发式独立执行，互不依赖；未匹配到的字段保持空字符串，
// 缺失是正常结果而非错误。
func ExtractPersonalInfo(text string, sections map[types.SectionType]string) types.PersonalInfo {
	info := types.PersonalInfo{}

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}
	if m := findPhone(text); m != "" {
		info.Phone = m
	}
	if m := linkedinPattern.FindString(text); m != "" {
		info.LinkedinURL = canonicalLinkedin(m)
	}

	lines := nonEmptyLines(text)
	info.Name = extractName(lines)
	info.Location = extractLocation(lines)
	info.Summary = extractSummary(text, sections)

	return info
}

// findPhone 返回首个总位数不少于 7 的电话形态片段。
func findPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		// 纯年份区间（如 2018 - 2022）位数也够，按形态排除
		if digits >= 7 && !yearRangePattern.MatchString(strings.TrimSpace(candidate)) {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

// canonicalLinkedin 把匹配片段重建为规范的 linkedin.com/in/<slug> 形式。
func canonicalLinkedin(match string) string {
	idx := strings.Index(strings.ToLower(match), "linkedin.com/in/")
	if idx < 0 {
		return match
	}
	return "linkedin.com/in/" + strings.TrimRight(match[idx+len("linkedin.com/in/"):], "/.,")
}

// extractName 取首个非空行作为姓名候选。
// 候选须短于 40 字符且不含数字和符号才被接受；
// 被拒绝时原样回退为该行本身。
func extractName(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	first := strings.TrimSpace(lines[0])
	if len(first) < 40 && looksLikeName(first) {
		return first
	}
	return first
}

func looksLikeName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && r != ' ' && r != '.' && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

// extractLocation 在前几行中找 "Capitalized, Capitalized" 形式的两段式地名。
// 含 university/college 的行指向教育信息而非地点，予以排除。
func extractLocation(lines []string) string {
	limit := locationScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "university") || strings.Contains(lower, "college") {
			continue
		}
		if m := locationPattern.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// extractSummary 优先取 summary 章节的第一段；
// 章节缺失时在全文中找一段 50~500 字符、不含 @ 和四位年份的段落
// （以此排除联系方式行与带日期的条目）。
func extractSummary(text string, sections map[types.SectionType]string) string {
	if section, ok := sections[types.SectionSummary]; ok {
		paragraphs := splitParagraphs(section)
		if len(paragraphs) > 0 {
			return paragraphs[0]
		}
	}
	for _, p := range splitParagraphs(text) {
		flat := strings.Join(strings.Fields(p), " ")
		if len(flat) < 50 || len(flat) > 500 {
			continue
		}
		if strings.Contains(flat, "@") || yearPattern.MatchString(flat) {
			continue
		}
		return flat
	}
	return ""
}

// nonEmptyLines 返回去掉首尾空白后的非空行列表。
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitParagraphs 按空行切分文本为段落，段落保留内部换行。
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
