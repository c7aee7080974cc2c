package parser

import (
	"testing"

	"resume-extract-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProjects_FullEntry(t *testing.T) {
	sections := map[types.SectionType]string{
		types.SectionProjects: "Chat Server https://github.com/jane/chat\nRealtime chat backend.\nGo, Redis, WebSocket",
	}
	entries := ExtractProjects(sections)

	require.Len(t, entries, 1)
	assert.Equal(t, "Chat Server", entries[0].Name)
	assert.Equal(t, "https://github.com/jane/chat", entries[0].URL)
	assert.Equal(t, "Realtime chat backend.", entries[0].Description)
	assert.Equal(t, []string{"Go", "Redis", "WebSocket"}, entries[0].Technologies)
}

func TestExtractProjects_TechnologiesBackfilledFromVocabulary(t *testing.T) {
	// 没有显式技术栈行时，用技能词表扫描描述回填
	sections := map[types.SectionType]string{
		types.SectionProjects: "Inventory Tool\nCLI written in Python backed by PostgreSQL.",
	}
	entries := ExtractProjects(sections)

	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Technologies, "python")
	assert.Contains(t, entries[0].Technologies, "postgresql")
}

func TestExtractProjects_MissingSection(t *testing.T) {
	entries := ExtractProjects(map[types.SectionType]string{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestParseTechList(t *testing.T) {
	assert.Equal(t, []string{"Go", "Redis", "Docker"}, parseTechList("Technologies: Go, Redis, Docker"))
	assert.Nil(t, parseTechList("no comma here"))
	assert.Nil(t, parseTechList("worked on several things, and helped the team deliver a big migration across many services"))
}
