package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCertifications_NameIssuerDate(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionCertifications: "AWS Solutions Architect - Amazon, Mar 2021\nCKA | CNCF",
	}
	entries := ExtractCertifications(sections)

	require.Len(t, entries, 2)
	assert.Equal(t, "AWS Solutions Architect", entries[0].Name)
	assert.Equal(t, "Amazon", entries[0].Issuer)
	assert.Equal(t, "Mar 2021", entries[0].Date)
	assert.Equal(t, "CKA", entries[1].Name)
	assert.Equal(t, "CNCF", entries[1].Issuer)
	assert.Equal(t, "", entries[1].Date)
}

func TestExtractCertifications_YearInsideName(t *testing.T) {
	// 名称里的年份不是日期，只有行尾的日期片段才记入 Date
	sections := map[types.SectionType]string{
		types.SectionCertifications: "AWS 2019 Exam Readiness - Amazon, 2021\nMicrosoft 70-480 Certification",
	}
	entries := ExtractCertifications(sections)

	require.Len(t, entries, 2)
	assert.Equal(t, "AWS 2019 Exam Readiness", entries[0].Name)
	assert.Equal(t, "Amazon", entries[0].Issuer)
	assert.Equal(t, "2021", entries[0].Date)
	assert.Equal(t, "Microsoft 70-480 Certification", entries[1].Name)
	assert.Equal(t, "", entries[1].Date)
}

func TestExtractCertifications_PlainLine(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionCertifications: "Certified Scrum Master",
	}
	entries := ExtractCertifications(sections)

	require.Len(t, entries, 1)
	assert.Equal(t, "Certified Scrum Master", entries[0].Name)
	assert.Equal(t, "", entries[0].Issuer)
}

func TestExtractCertifications_MissingSection(t *testing.T) {
	entries := ExtractCertifications(map[types.SectionType]string{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
