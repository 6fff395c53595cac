package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLlmModelConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llm_models.json")
	err := os.WriteFile(path, []byte(`{"prompt_models": {"summary.md": "gpt-4o-mini"}}`), 0o600)
	require.NoError(t, err)

	config, err := LoadLlmModelConfig(path, "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", config.DefaultModel)
	assert.Equal(t, "gpt-4o-mini", config.GetModelForPrompt("summary.md"))
	assert.Equal(t, "gpt-4o", config.GetModelForPrompt("sql_generation.md"))
}

func TestLoadLlmModelConfig_MissingFile(t *testing.T) {
	config, err := LoadLlmModelConfig(filepath.Join(t.TempDir(), "absent.json"), "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", config.GetModelForPrompt("anything.md"))
}

func TestLoadLlmModelConfig_InvalidJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_models.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadLlmModelConfig(path, "gpt-4o")
	assert.Error(t, err)
}
