package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// maxTechListTokens 技术栈行的 token 数上限，超过则当作普通描述
const maxTechListTokens = 12

// ExtractProjects 从 projects 章节提取项目序列。章节缺失时返回空切片。
//
// 段落按空行切分：首行为项目名，行内嵌入的绝对 URL 记入 URL，
// 形如短逗号列表的行视为技术栈，其余行并入描述。
// 未找到技术栈行时用技能词表扫描描述回填。
func ExtractProjects(sections map[types.SectionType]string) []types.ProjectEntry {
	entries := []types.ProjectEntry{}
	section, ok := sections[types.SectionProjects]
	if !ok {
		return entries
	}

	for _, paragraph := range splitParagraphs(section) {
		lines := nonEmptyLines(paragraph)
		if len(lines) == 0 {
			continue
		}

		entry := types.ProjectEntry{Technologies: []string{}}

		if m := urlPattern.FindString(paragraph); m != "" {
			entry.URL = strings.TrimRight(m, ".,;")
		}
		entry.Name = strings.TrimSpace(urlPattern.ReplaceAllString(lines[0], ""))
		entry.Name = strings.Trim(entry.Name, "-–—|: ")
		if entry.Name == "" {
			entry.Name = lines[0]
		}

		var desc []string
		for _, line := range lines[1:] {
			if techs := parseTechList(line); techs != nil {
				entry.Technologies = appendUnique(entry.Technologies, techs...)
				continue
			}
			desc = append(desc, line)
		}
		entry.Description = strings.Join(desc, "\n")

		// 没有显式技术栈行时，用技能词表扫描描述回填
		if len(entry.Technologies) == 0 && entry.Description != "" {
			for _, term := range skillVocabulary {
				if containsWord(entry.Description, term) {
					entry.Technologies = appendUnique(entry.Technologies, term)
				}
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// parseTechList 把形如 "Go, Redis, Docker" 的短逗号列表解析为技术栈。
// 行内 token 过长、过多或不足两个时返回 nil。
func parseTechList(line string) []string {
	stripped := line
	for _, prefix := range []string{"technologies:", "tech stack:", "tech:", "stack:", "built with:"} {
		if strings.HasPrefix(strings.ToLower(stripped), prefix) {
			stripped = stripped[len(prefix):]
			break
		}
	}
	if !strings.Contains(stripped, ",") {
		return nil
	}
	parts := strings.Split(stripped, ",")
	if len(parts) < 2 || len(parts) > maxTechListTokens {
		return nil
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || len(p) > maxSkillTokenLen || strings.Contains(p, " and ") {
			return nil
		}
		out = append(out, p)
	}
	return out
}

// appendUnique 追加元素并按小写去重，保持发现顺序。
func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range items {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, s)
	}
	return dst
}
