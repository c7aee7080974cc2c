package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `John Smith
john.smith@example.com | +1 555 123 4567
Austin, TX

SUMMARY
Seasoned backend developer with a decade of experience building distributed systems for fintech companies.

EDUCATION
University of Texas
Bachelor of Science in Computer Science
2010 - 2014

EXPERIENCE
Acme Corp
Senior Software Engineer
Jan 2020 - Present
Built payment services in Go.

SKILLS
Go, Python, Docker, Kubernetes, PostgreSQL, Redis`

func TestSegmentSections_FindsAllSections(t *testing.T) {
	sections := SegmentSections(NormalizeText(sampleResume))

	assert.Contains(t, sections, types.SectionSummary)
	assert.Contains(t, sections, types.SectionEducation)
	assert.Contains(t, sections, types.SectionExperience)
	assert.Contains(t, sections, types.SectionSkills)
	assert.Contains(t, sections, types.SectionHeader)
}

func TestSegmentSections_SectionIsolation(t *testing.T) {
	// 教育章节不得看到 EXPERIENCE 标题之后的内容，反之亦然
	sections := SegmentSections(NormalizeText(sampleResume))

	edu := sections[types.SectionEducation]
	assert.Contains(t, edu, "University of Texas")
	assert.NotContains(t, edu, "Acme Corp")
	assert.NotContains(t, edu, "payment services")

	exp := sections[types.SectionExperience]
	assert.Contains(t, exp, "Acme Corp")
	assert.NotContains(t, exp, "University of Texas")
}

func TestSegmentSections_IgnoresKeywordInLongLine(t *testing.T) {
	// 长句中嵌入的关键词不构成章节标题
	text := "I have extensive experience working with large distributed teams across several companies\nplain line"
	sections := SegmentSections(text)
	assert.NotContains(t, sections, types.SectionExperience)
}

func TestSegmentSections_TieBreakOnSameLine(t *testing.T) {
	// 同一行同时命中 education 和 experience 关键词时，
	// 扫描顺序靠前的 education 获胜
	text := "degree experience\nsome content here"
	sections := SegmentSections(text)
	assert.Contains(t, sections, types.SectionEducation)
	assert.Equal(t, "some content here", sections[types.SectionEducation])
}

func TestSegmentSections_HeaderRegionWithoutHeadings(t *testing.T) {
	// 无任何章节标题时，前几行构成 HEADER 区域
	text := "Jane Doe\njane@example.com\nplain text body line one\nline two\nline three\nline four\nline five\nline six"
	sections := SegmentSections(text)
	header := sections[types.SectionHeader]
	assert.Contains(t, header, "Jane Doe")
	assert.NotContains(t, header, "line six")
}

func TestSegmentSections_EmptyInput(t *testing.T) {
	assert.Empty(t, SegmentSections(""))
	assert.Empty(t, SegmentSections("   \n  "))
}
