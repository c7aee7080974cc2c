package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

const (
	// maxSkillTokenLen 技能 token 的长度上限，超长视为被拆碎的长句
	maxSkillTokenLen = 30
	// minSectionSkills 章节内技能少于该数量时追加全文词表扫描
	minSectionSkills = 5
)

// skillSplitter 技能章节内的分隔符集合：逗号、分号、竖线、项目符号、换行
func skillSplitter(r rune) bool {
	switch r {
	case ',', ';', '|', '•', '·', '\n':
		return true
	}
	return false
}

// ExtractSkills 提取技能序列。
// 优先拆分 skills 章节；章节缺失或拆出的技能过少时，
// 再用固定词表对全文做词边界扫描补齐。
// 输出按发现顺序排列，按小写去重。
func ExtractSkills(text string, sections map[types.SectionType]string) []string {
	skills := []string{}
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.Trim(strings.TrimSpace(s), "-–•·:")
		s = strings.TrimSpace(s)
		if s == "" || len(s) > maxSkillTokenLen {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		skills = append(skills, s)
	}

	if section, ok := sections[types.SectionSkills]; ok {
		for _, token := range strings.FieldsFunc(section, skillSplitter) {
			add(token)
		}
	}

	if len(skills) < minSectionSkills {
		for _, term := range skillVocabulary {
			if seen[term] {
				continue
			}
			if containsWord(text, term) {
				add(term)
			}
		}
	}

	return skills
}
