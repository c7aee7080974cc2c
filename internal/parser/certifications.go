package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// certSeparators 证书行中名称与颁发方之间的常见分隔符
var certSeparators = []string{" - ", " – ", " | ", " : ", ", "}

// ExtractCertifications 从 certifications 章节逐行提取证书。
// 章节缺失时返回空切片。
//
// 每个非空行是一条证书候选；行内出现常见分隔符时按
// 名称/颁发方拆分；行尾的月份年份或纯年份 token 记入 Date。
func ExtractCertifications(sections map[types.SectionType]string) []types.CertificationEntry {
	entries := []types.CertificationEntry{}
	section, ok := sections[types.SectionCertifications]
	if !ok {
		return entries
	}

	for _, line := range nonEmptyLines(section) {
		line = strings.Trim(line, "-–•· ")
		if line == "" {
			continue
		}

		entry := types.CertificationEntry{}

		// 行尾日期片段：只认最后一个匹配，且其后不能再有正文，
		// 避免把证书名里的年份（如 "AWS 2019 Exam Readiness"）误当日期
		if locs := singleDatePattern.FindAllStringIndex(line, -1); len(locs) > 0 {
			last := locs[len(locs)-1]
			if strings.Trim(line[last[1]:], "-–—|,() ") == "" {
				entry.Date = strings.TrimSpace(line[last[0]:last[1]])
				line = strings.Trim(strings.TrimSpace(line[:last[0]]), "-–—|,() ")
			}
		}

		entry.Name = line
		for _, sep := range certSeparators {
			if idx := strings.Index(line, sep); idx > 0 {
				entry.Name = strings.TrimSpace(line[:idx])
				entry.Issuer = strings.TrimSpace(line[idx+len(sep):])
				break
			}
		}

		if entry.Name == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}
