package models

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

type LlmRequest struct {
	Model       string
	Instruction string
	Prompt      string
}

// LlmModelConfig maps prompt templates to the model that should answer them
type LlmModelConfig struct {
	// Default model to use when no specific model is configured for a prompt
	DefaultModel string `json:"default_model"`

	// Model configurations for specific prompts, keyed by prompt path relative to the prompts directory
	PromptModels map[string]string `json:"prompt_models"`
}

// LoadLlmModelConfig loads the model configuration from a JSON file.
// A missing file is not an error: every prompt then uses the default model.
func LoadLlmModelConfig(configPath string, defaultModel string) (LlmModelConfig, error) {
	config := LlmModelConfig{
		DefaultModel: defaultModel,
		PromptModels: make(map[string]string),
	}
	if configPath == "" {
		return config, nil
	}

	file, err := os.Open(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return LlmModelConfig{}, errors.Wrapf(err, "could not open LLM model config file %s", configPath)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return LlmModelConfig{}, errors.Wrapf(err, "could not decode LLM model config file %s", configPath)
	}

	if config.DefaultModel == "" {
		config.DefaultModel = defaultModel
	}
	if config.PromptModels == nil {
		config.PromptModels = make(map[string]string)
	}

	return config, nil
}

func (c LlmModelConfig) GetModelForPrompt(promptPath string) string {
	if model, exists := c.PromptModels[promptPath]; exists {
		return model
	}
	return c.DefaultModel
}
