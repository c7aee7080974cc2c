package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills_SectionSplit(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionSkills: "Go, Python; Docker | Kubernetes\n• PostgreSQL",
	}
	skills := ExtractSkills("", sections)
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL"}, skills)
}

func TestExtractSkills_Deduplication(t *testing.T) {
	// 章节内大小写重复 + 正文再次出现，只保留一次
	sections := map[types.SectionType]string{
		types.SectionSkills: "React, react, REACT",
	}
	skills := ExtractSkills("I love React and use it daily", sections)

	count := 0
	for _, s := range skills {
		if s == "React" {
			count++
		}
		assert.NotEqual(t, "react", s)
		assert.NotEqual(t, "REACT", s)
	}
	assert.Equal(t, 1, count)
}

func TestExtractSkills_VocabularyFallback(t *testing.T) {
	// 没有 skills 章节时全文词表扫描
	text := "Built services in Go with Redis caching and Docker deployments."
	skills := ExtractSkills(text, nil)
	assert.Contains(t, skills, "go")
	assert.Contains(t, skills, "redis")
	assert.Contains(t, skills, "docker")
}

func TestExtractSkills_RejectsRunOnSentences(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionSkills: "responsible for maintaining numerous legacy services across teams",
	}
	skills := ExtractSkills("", sections)
	assert.Empty(t, skills)
}

func TestExtractSkills_EmptyInput(t *testing.T) {
	skills := ExtractSkills("", nil)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}
