package chatbot

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
)

// GetSession returns the session with its turns, oldest first.
func (uc *ChatbotUsecase) GetSession(ctx context.Context, sessionId, userId string) (models.Session, error) {
	return uc.sessions.GetSession(ctx, sessionId, userId)
}

// ExportTurnCsv writes the rows returned for a question as CSV, with a header line.
func (uc *ChatbotUsecase) ExportTurnCsv(ctx context.Context, sessionId, questionId, userId string, w io.Writer) error {
	turn, err := uc.sessions.FindTurn(ctx, sessionId, questionId, userId)
	if err != nil {
		return err
	}
	if len(turn.Result.Columns) == 0 {
		return errors.Wrapf(models.NotFoundError, "question %s has no result to export", questionId)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(turn.Result.ColumnNames()); err != nil {
		return errors.Wrap(err, "could not write csv header")
	}
	record := make([]string, len(turn.Result.Columns))
	for _, row := range turn.Result.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = models.FormatValue(row[i])
			}
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "could not write csv row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "could not flush csv")
}
