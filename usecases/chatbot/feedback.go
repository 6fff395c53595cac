package chatbot

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

// RecordVote stores an UP or DOWN vote on an answer of the session and sends it to the vote log.
func (uc *ChatbotUsecase) RecordVote(ctx context.Context, input models.VoteInput) error {
	if !input.Value.IsValid() {
		return errors.Wrapf(models.ErrInvalidVote, "got '%s'", input.Value)
	}

	turn, err := uc.sessions.FindTurn(ctx, input.SessionId, input.QuestionId, input.UserId)
	if err != nil {
		return err
	}

	vote := models.Vote{
		QuestionId: input.QuestionId,
		Value:      input.Value,
		Reason:     strings.TrimSpace(input.Reason),
		VotedAt:    uc.now(),
	}
	if err := uc.sessions.AddVote(ctx, input.SessionId, input.UserId, vote); err != nil {
		return err
	}

	err = uc.logs.LogVote(ctx, models.VoteFeedback{
		LogContext: models.LogContext{
			QuestionId: input.QuestionId,
			UserId:     input.UserId,
			SessionId:  input.SessionId,
			AppVersion: uc.config.AppVersion,
			ExtraMetadata: map[string]any{
				"status": turn.Status,
			},
		},
		EventTimestamp: vote.VotedAt,
		Vote:           vote.Value,
		QuestionText:   turn.Question,
		SummaryMd:      turn.Summary,
		ReasonFreeText: vote.Reason,
	})
	if err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write vote log", "error", err.Error())
	}

	return nil
}
