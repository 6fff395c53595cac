package infra

import (
	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/aistudio"
	"github.com/checkmarble/llmberjack/llms/openai"
	"github.com/cockroachdb/errors"
)

const LLM_PROVIDER_NAME = "main"

func createOpenAIProvider(config LlmConfiguration) (llmberjack.Llm, error) {
	opts := []openai.Opt{}
	if config.BaseUrl != "" {
		opts = append(opts, openai.WithBaseUrl(config.BaseUrl))
	}
	if config.ApiKey != "" {
		opts = append(opts, openai.WithApiKey(config.ApiKey))
	}

	provider, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenAI provider")
	}
	return provider, nil
}

func createAIStudioProvider(config LlmConfiguration) (llmberjack.Llm, error) {
	opts := []aistudio.Opt{
		aistudio.WithBackend(config.Backend),
	}

	if config.ApiKey != "" {
		opts = append(opts, aistudio.WithApiKey(config.ApiKey))
	}
	if config.Project != "" {
		opts = append(opts, aistudio.WithProject(config.Project))
	}
	if config.Location != "" {
		opts = append(opts, aistudio.WithLocation(config.Location))
	}

	provider, err := aistudio.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AI Studio provider")
	}
	return provider, nil
}

// NewLlmClient builds the llmberjack adapter for the configured provider.
func NewLlmClient(config LlmConfiguration) (*llmberjack.Llmberjack, error) {
	var provider llmberjack.Llm
	var err error

	switch config.ProviderType {
	case LlmProviderTypeOpenAI:
		provider, err = createOpenAIProvider(config)
	case LlmProviderTypeAIStudio:
		provider, err = createAIStudioProvider(config)
	default:
		return nil, errors.Errorf("unsupported LLM provider type: %s", config.ProviderType)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM provider")
	}

	adapter, err := llmberjack.New(
		llmberjack.WithProvider(LLM_PROVIDER_NAME, provider),
		llmberjack.WithDefaultModel(config.DefaultModel),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM adapter")
	}
	return adapter, nil
}
