package parser

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePipeline_FullSample(t *testing.T) {
	pipeline := NewProfilePipeline()
	profile, err := pipeline.Extract(context.Background(), sampleResume)
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "John Smith", profile.Personal.Name)
	assert.Equal(t, "john.smith@example.com", profile.Personal.Email)
	assert.Equal(t, "Austin, TX", profile.Personal.Location)
	assert.Contains(t, profile.Personal.Summary, "Seasoned backend developer")

	require.Len(t, profile.WorkExperience, 1)
	assert.Equal(t, "Acme Corp", profile.WorkExperience[0].Company)
	assert.True(t, profile.WorkExperience[0].Current)

	require.Len(t, profile.Education, 1)
	assert.Equal(t, "University of Texas", profile.Education[0].Institution)
	assert.Equal(t, "Computer Science", profile.Education[0].Field)

	assert.Contains(t, profile.Skills, "Go")
	assert.Contains(t, profile.Skills, "Docker")
}

func TestProfilePipeline_Determinism(t *testing.T) {
	// 同一输入两次抽取产出逐字节相同的结果
	pipeline := NewProfilePipeline()

	p1, err := pipeline.Extract(context.Background(), sampleResume)
	require.NoError(t, err)
	p2, err := pipeline.Extract(context.Background(), sampleResume)
	require.NoError(t, err)

	j1, err := json.Marshal(p1)
	require.NoError(t, err)
	j2, err := json.Marshal(p2)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
}

func TestProfilePipeline_TotalFunction(t *testing.T) {
	// 任意输入（空串、二进制垃圾、无章节文本）都返回完整 Profile
	pipeline := NewProfilePipeline()
	inputs := []string{
		"",
		"\x00\x01\x02\xff\xfe binary garbage \x7f",
		"no recognizable sections at all, just prose",
		"....\n----\n####",
	}
	for _, input := range inputs {
		profile, err := pipeline.Extract(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.NotNil(t, profile.Skills)
		assert.NotNil(t, profile.WorkExperience)
		assert.NotNil(t, profile.Education)
		assert.NotNil(t, profile.Projects)
		assert.NotNil(t, profile.Certifications)
		assert.NotNil(t, profile.Languages)
	}
}

func TestProfilePipeline_GracefulEmptiness(t *testing.T) {
	// 纯空白输入：所有序列为空、所有字符串字段为空串
	pipeline := NewProfilePipeline()
	profile, err := pipeline.Extract(context.Background(), "   \n\t  \n  ")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "", profile.Personal.Name)
	assert.Equal(t, "", profile.Personal.Email)
	assert.Equal(t, "", profile.Personal.Phone)
	assert.Equal(t, "", profile.Personal.Location)
	assert.Equal(t, "", profile.Personal.LinkedinURL)
	assert.Equal(t, "", profile.Personal.Summary)
	assert.Empty(t, profile.Skills)
	assert.Empty(t, profile.WorkExperience)
	assert.Empty(t, profile.Education)
	assert.Empty(t, profile.Projects)
	assert.Empty(t, profile.Certifications)
	assert.Empty(t, profile.Languages)
}

func TestProfilePipeline_LoosePassRecoversExperience(t *testing.T) {
	// 无章节标题的稀疏文档触发质量闸门，把全文当经历章节重扫
	text := "Acme Corp\nSenior Backend Developer\nJan 2019 - Present\nOwned the billing platform."
	pipeline := NewProfilePipeline()
	profile, err := pipeline.Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, profile.WorkExperience, 1)
	assert.Equal(t, "Acme Corp", profile.WorkExperience[0].Company)
	assert.True(t, profile.WorkExperience[0].Current)
}

func TestProfilePipeline_QualityGateDisabled(t *testing.T) {
	text := "Acme Corp\nSenior Backend Developer\nJan 2019 - Present"
	pipeline := NewProfilePipeline(WithMinPopulatedFields(0))
	profile, err := pipeline.Extract(context.Background(), text)
	require.NoError(t, err)
	assert.Empty(t, profile.WorkExperience)
}

func TestProfilePipeline_JSONShape(t *testing.T) {
	// 空 Profile 序列化后序列字段是 []，不是 null
	pipeline := NewProfilePipeline()
	profile, err := pipeline.Extract(context.Background(), "")
	require.NoError(t, err)

	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skills":[]`)
	assert.Contains(t, string(data), `"work_experience":[]`)
	assert.NotContains(t, string(data), "null")
}
