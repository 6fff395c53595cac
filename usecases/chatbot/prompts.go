package chatbot

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
)

const (
	PROMPT_TABLE_SELECTION_PATH = "table_selection.md"
	PROMPT_SQL_GENERATION_PATH  = "sql_generation.md"
	PROMPT_SUMMARY_PATH         = "summary.md"
	LLM_MODELS_CONFIG_PATH      = "llm_models.json"
)

// promptLoader renders the prompt templates of the prompts directory. Files are read on every call
// so that prompts can be edited without restarting the server.
type promptLoader struct {
	promptsDir   string
	defaultModel string
	// renders the {{ table "name" }} calls of the table prompts
	qualifiedTableName func(table string) string
}

func (p promptLoader) readPrompt(promptPath string) (string, error) {
	path := filepath.Join(p.promptsDir, promptPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not read prompt file %s", path)
	}
	return string(content), nil
}

func (p promptLoader) preparePrompt(promptPath string, data map[string]any) (string, error) {
	content, err := p.readPrompt(promptPath)
	if err != nil {
		return "", err
	}

	t, err := template.New(promptPath).
		Option("missingkey=error").
		Funcs(template.FuncMap{"table": p.qualifiedTableName}).
		Parse(content)
	if err != nil {
		return "", errors.Wrapf(err, "could not parse template %s", promptPath)
	}

	buf := bytes.Buffer{}
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "could not execute template %s", promptPath)
	}
	return buf.String(), nil
}

func (p promptLoader) preparePromptWithModel(promptPath string, data map[string]any) (model string, prompt string, err error) {
	modelConfig, err := models.LoadLlmModelConfig(filepath.Join(p.promptsDir, LLM_MODELS_CONFIG_PATH), p.defaultModel)
	if err != nil {
		return "", "", errors.Wrap(err, "could not load LLM model configuration")
	}

	prompt, err = p.preparePrompt(promptPath, data)
	if err != nil {
		return "", "", errors.Wrap(err, "could not prepare prompt")
	}

	return modelConfig.GetModelForPrompt(promptPath), prompt, nil
}
