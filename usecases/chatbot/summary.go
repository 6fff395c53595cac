package chatbot

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

type summaryHistoryItem struct {
	Question string
	Summary  string
}

// summarize asks the LLM for a markdown summary of the rows returned for the question.
func (uc *ChatbotUsecase) summarize(ctx context.Context, question, sql string, result models.QueryResult, history []models.Turn) (string, error) {
	ctx, span := utils.OpenTelemetryTracerFromContext(ctx).Start(ctx, "chatbot.summarize")
	defer span.End()

	head := result.Head(uc.config.SummaryMaxRows)
	rows := make([]string, len(head.Rows))
	for i, row := range head.Rows {
		rows[i] = head.RowSentence(row)
	}

	items := make([]summaryHistoryItem, len(history))
	for i, turn := range history {
		items[i] = summaryHistoryItem{Question: turn.Question, Summary: turn.Summary}
	}

	model, prompt, err := uc.prompts.preparePromptWithModel(PROMPT_SUMMARY_PATH, map[string]any{
		"history":   items,
		"question":  question,
		"sql":       sql,
		"rows":      rows,
		"row_count": result.RowCount(),
		"truncated": result.Truncated || result.RowCount() > len(head.Rows),
	})
	if err != nil {
		return "", err
	}

	summary, err := uc.llm.Generate(ctx, models.LlmRequest{Model: model, Prompt: prompt})
	if err != nil {
		return "", errors.Wrap(err, "summary generation failed")
	}
	return summary, nil
}
