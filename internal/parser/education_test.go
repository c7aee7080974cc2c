package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eduSections(content string) map[types.SectionType]string {
	return map[types.SectionType]string{types.SectionEducation: content}
}

func TestExtractEducation_InstitutionFirst(t *testing.T) {
	section := "University of Texas\nBachelor of Science in Computer Science\n2010 - 2014"
	entries := ExtractEducation(eduSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "University of Texas", entries[0].Institution)
	assert.Equal(t, "Bachelor of Science in Computer Science", entries[0].Degree)
	assert.Equal(t, "Computer Science", entries[0].Field)
	assert.Equal(t, "2010", entries[0].StartDate)
	assert.Equal(t, "2014", entries[0].EndDate)
}

func TestExtractEducation_DegreeLineFirst(t *testing.T) {
	// 首行就是学位行时，院校名取下一条非学位行
	section := "Master of Engineering\nStanford Institute\n2016 - 2018"
	entries := ExtractEducation(eduSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "Stanford Institute", entries[0].Institution)
	assert.Equal(t, "Master of Engineering", entries[0].Degree)
}

func TestExtractEducation_FieldOnlyWithInOfPattern(t *testing.T) {
	section := "Some College\nAssociate Degree\n2008 - 2010"
	entries := ExtractEducation(eduSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Field)
}

func TestExtractEducation_GraduationYearOnly(t *testing.T) {
	// 只写毕业年份时记入 EndDate
	section := "MIT\nPhD in Physics\n2019"
	entries := ExtractEducation(eduSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].StartDate)
	assert.Equal(t, "2019", entries[0].EndDate)
	assert.Equal(t, "Physics", entries[0].Field)
}

func TestExtractEducation_MissingSection(t *testing.T) {
	entries := ExtractEducation(map[types.SectionType]string{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
