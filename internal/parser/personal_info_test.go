package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestExtractPersonalInfo_Email(t *testing.T) {
	text := "Contact: jane.doe@example.com for info"
	info := ExtractPersonalInfo(text, nil)
	assert.Equal(t, "jane.doe@example.com", info.Email)
}

func TestExtractPersonalInfo_Phone(t *testing.T) {
	info := ExtractPersonalInfo("Jane Doe\nPhone: +1 (555) 123-4567", nil)
	assert.Equal(t, "+1 (555) 123-4567", info.Phone)
}

func TestExtractPersonalInfo_PhoneIgnoresYearRange(t *testing.T) {
	// 纯年份区间不是电话
	info := ExtractPersonalInfo("Jane Doe\n2018 - 2022", nil)
	assert.Equal(t, "", info.Phone)
}

func TestExtractPersonalInfo_Linkedin(t *testing.T) {
	info := ExtractPersonalInfo("see https://www.linkedin.com/in/jane-doe/ for details", nil)
	assert.Equal(t, "linkedin.com/in/jane-doe", info.LinkedinURL)
}

func TestExtractPersonalInfo_Name(t *testing.T) {
	info := ExtractPersonalInfo("Jane Doe\njane@example.com", nil)
	assert.Equal(t, "Jane Doe", info.Name)
}

func TestExtractPersonalInfo_NameFallbackVerbatim(t *testing.T) {
	// 首行含数字/符号时按原样回退
	first := "Jane Doe | Backend Engineer (2024)"
	info := ExtractPersonalInfo(first+"\nmore text", nil)
	assert.Equal(t, first, info.Name)
}

func TestExtractPersonalInfo_Location(t *testing.T) {
	info := ExtractPersonalInfo("Jane Doe\nAustin, TX\njane@example.com", nil)
	assert.Equal(t, "Austin, TX", info.Location)
}

func TestExtractPersonalInfo_LocationRejectsUniversity(t *testing.T) {
	info := ExtractPersonalInfo("Jane Doe\nUniversity of Texas, Austin", nil)
	assert.Equal(t, "", info.Location)
}

func TestExtractPersonalInfo_SummaryFromSection(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionSummary: "Seasoned engineer focused on distributed systems.\n\nSecond paragraph.",
	}
	info := ExtractPersonalInfo("irrelevant", sections)
	assert.Equal(t, "Seasoned engineer focused on distributed systems.", info.Summary)
}

func TestExtractPersonalInfo_SummaryFallbackSkipsDatedParagraphs(t *testing.T) {
	text := "Jane Doe\n\nWorked at Acme Corp from 2019 until 2022 building large scale systems there.\n\nSeasoned backend developer who enjoys building reliable distributed systems in Go."
	info := ExtractPersonalInfo(text, nil)
	assert.Equal(t, "Seasoned backend developer who enjoys building reliable distributed systems in Go.", info.Summary)
}

func TestExtractPersonalInfo_EmptyInput(t *testing.T) {
	info := ExtractPersonalInfo("", nil)
	assert.Equal(t, types.PersonalInfo{}, info)
}
