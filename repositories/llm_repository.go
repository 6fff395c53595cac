package repositories

import (
	"context"
	"sync"

	"github.com/checkmarble/llmberjack"
	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/pure_utils"
)

type tableSelectionOutput struct {
	Tables []string `json:"tables" jsonschema_description:"Names of the tables needed to answer the question, one or two at most"`
}

// LlmRepository talks to the configured LLM provider. The client is built on first use.
type LlmRepository struct {
	config infra.LlmConfiguration

	mu     sync.Mutex
	client *llmberjack.Llmberjack
}

func NewLlmRepository(config infra.LlmConfiguration) *LlmRepository {
	return &LlmRepository{config: config}
}

func (repo *LlmRepository) IsConfigured() bool {
	return repo.config.IsConfigured()
}

func (repo *LlmRepository) getClient() (*llmberjack.Llmberjack, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.client != nil {
		return repo.client, nil
	}
	if !repo.config.IsConfigured() {
		return nil, models.ErrLlmNotConfigured
	}

	client, err := infra.NewLlmClient(repo.config)
	if err != nil {
		return nil, err
	}
	repo.client = client
	return repo.client, nil
}

func (repo *LlmRepository) model(request models.LlmRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return repo.config.DefaultModel
}

func (repo *LlmRepository) Generate(ctx context.Context, request models.LlmRequest) (string, error) {
	client, err := repo.getClient()
	if err != nil {
		return "", err
	}

	builder := llmberjack.NewUntypedRequest().
		WithModel(repo.model(request)).
		WithThinking(false)
	if request.Instruction != "" {
		builder = builder.WithInstruction(request.Instruction)
	}

	response, err := builder.
		WithText(llmberjack.RoleUser, request.Prompt).
		Do(ctx, client)
	if err != nil {
		return "", errors.Wrap(err, "could not generate LLM completion")
	}

	text, err := response.Get(0)
	if err != nil {
		return "", errors.Wrap(err, "could not read LLM completion")
	}
	return text, nil
}

func (repo *LlmRepository) SelectTables(ctx context.Context, request models.LlmRequest) ([]string, error) {
	client, err := repo.getClient()
	if err != nil {
		return nil, err
	}

	builder := llmberjack.NewRequest[tableSelectionOutput]().
		WithModel(repo.model(request))
	if request.Instruction != "" {
		builder = builder.WithInstruction(request.Instruction)
	}

	response, err := builder.
		WithText(llmberjack.RoleUser, request.Prompt).
		Do(ctx, client)
	if err != nil {
		return nil, errors.Wrap(err, "could not select tables")
	}

	output, err := response.Get(0)
	if err != nil {
		return nil, errors.Wrap(err, "could not read table selection")
	}
	return pure_utils.Dedup(output.Tables), nil
}
