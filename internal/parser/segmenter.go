package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// maxHeaderLineLen 章节标题行的长度上限。
// 超过该长度的行即使包含关键词也视为正文，避免长句误判。
const maxHeaderLineLen = 30

// headerRegionLines 文档头部区域的行数，未找到任何章节标题时
// 供姓名/联系方式提取使用。
const headerRegionLines = 5

// SegmentSections 把规范化后的文本切分为命名章节。
// 返回章节到其正文子串的映射；未找到关键词的章节不出现在映射中，
// 各提取器必须容忍缺失。另附 HEADER 区域：首个章节标题之前的部分
// （无任何标题时取前几行）。
func SegmentSections(text string) map[types.SectionType]string {
	sections := make(map[types.SectionType]string)
	if strings.TrimSpace(text) == "" {
		return sections
	}

	lines := strings.Split(text, "\n")

	// 第一轮：按固定扫描顺序定位每个章节的标题行。
	// 同一行命中多个章节关键词时，扫描顺序靠前者获胜。
	headerLine := make(map[types.SectionType]int)
	claimed := make(map[int]bool)
	for _, sectionType := range types.SectionScanOrder {
		for i, line := range lines {
			if claimed[i] {
				continue
			}
			if isSectionHeader(line, sectionType) {
				headerLine[sectionType] = i
				claimed[i] = true
				break
			}
		}
	}

	// 第二轮：每个章节的正文从标题行之后延伸到下一个
	// 已定位章节标题（按文档顺序），或文档末尾。
	for sectionType, start := range headerLine {
		end := len(lines)
		for _, other := range headerLine {
			if other > start && other < end {
				end = other
			}
		}
		content := strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
		if content != "" {
			sections[sectionType] = content
		}
	}

	// 头部区域：首个章节标题之前的所有行；没有任何标题时取前几行
	firstHeader := len(lines)
	for _, idx := range headerLine {
		if idx < firstHeader {
			firstHeader = idx
		}
	}
	if firstHeader == len(lines) && firstHeader > headerRegionLines {
		firstHeader = headerRegionLines
	}
	header := strings.TrimSpace(strings.Join(lines[:firstHeader], "\n"))
	if header != "" {
		sections[types.SectionHeader] = header
	}

	return sections
}

// isSectionHeader 判断某行是否为指定章节的标题行：
// 行长不超过上限，且包含该章节的任一关键词（大小写不敏感）。
func isSectionHeader(line string, sectionType types.SectionType) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeaderLineLen {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, keyword := range sectionKeywords[sectionType] {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
