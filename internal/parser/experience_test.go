package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expSections(content string) map[types.SectionType]string {
	return map[types.SectionType]string{types.SectionExperience: content}
}

func TestExtractWorkExperience_CurrentJob(t *testing.T) {
	section := "Acme Corp\nSenior Software Engineer\nJan 2020 - Present\nBuilt payment services."
	entries := ExtractWorkExperience(expSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "Senior Software Engineer", entries[0].Position)
	assert.Equal(t, "Jan 2020", entries[0].StartDate)
	assert.Equal(t, "", entries[0].EndDate)
	assert.True(t, entries[0].Current)
	assert.Equal(t, "Built payment services.", entries[0].Description)
}

func TestExtractWorkExperience_TitleFirstParagraph(t *testing.T) {
	// 首行命中头衔词表时，首行为职位、次行为公司
	section := "Senior Software Engineer\nAcme Corp\n2015 - 2019"
	entries := ExtractWorkExperience(expSections(section))

	require.Len(t, entries, 1)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "Senior Software Engineer", entries[0].Position)
	assert.Equal(t, "2015", entries[0].StartDate)
	assert.Equal(t, "2019", entries[0].EndDate)
	assert.False(t, entries[0].Current)
}

func TestExtractWorkExperience_MultipleParagraphs(t *testing.T) {
	section := "Acme Corp\nBackend Engineer\nJan 2020 - Present\n\nGlobex Inc\nJunior Developer\nMar 2016 - Dec 2019\nShipped internal tools."
	entries := ExtractWorkExperience(expSections(section))

	require.Len(t, entries, 2)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "Globex Inc", entries[1].Company)
	assert.Equal(t, "Mar 2016", entries[1].StartDate)
	assert.Equal(t, "Dec 2019", entries[1].EndDate)
}

func TestExtractWorkExperience_SingleLineParagraphDiscarded(t *testing.T) {
	entries := ExtractWorkExperience(expSections("just one stray line"))
	assert.Empty(t, entries)
}

func TestExtractWorkExperience_MissingSection(t *testing.T) {
	entries := ExtractWorkExperience(map[types.SectionType]string{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
