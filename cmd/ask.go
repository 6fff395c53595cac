package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

const askPreviewRows = 10

// RunAsk answers a single question and renders the answer in the terminal.
func RunAsk(question string) error {
	appConfig, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(appConfig.server.loggingFormat, utils.ParseLogLevel(appConfig.server.logLevel))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	repos, cleanup, err := appConfig.initRepositories(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	uc := usecases.NewUsecases(repos,
		usecases.WithApiVersion(appConfig.server.appVersion),
		usecases.WithWarehouseConfig(appConfig.warehouse),
		usecases.WithChatbotConfig(appConfig.chatbot),
	)

	chatbotUsecase := uc.NewChatbotUsecase()
	answer, err := chatbotUsecase.AskQuestion(ctx, models.QuestionInput{
		Text:      question,
		UserAgent: "cli",
	})
	if err != nil {
		return errors.Wrap(err, "could not answer the question")
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return errors.Wrap(err, "could not create the terminal renderer")
	}

	out, err := renderer.Render(answerMarkdown(answer))
	if err != nil {
		return errors.Wrap(err, "could not render the answer")
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func answerMarkdown(answer models.Answer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", answer.Question)
	fmt.Fprintf(&sb, "_status: %s, attempts: %d_\n\n", answer.Status, answer.AttemptCount)
	sb.WriteString(answer.Summary)
	sb.WriteString("\n\n")

	if answer.Sql != "" {
		fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", answer.Sql)
	}

	result := answer.Result
	if len(result.Columns) == 0 {
		return sb.String()
	}

	columns := result.ColumnNames()
	sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, row := range result.Head(askPreviewRows).Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = strings.ReplaceAll(models.FormatValue(value), "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if result.RowCount() > askPreviewRows {
		fmt.Fprintf(&sb, "\n_%d of %d rows shown_\n", askPreviewRows, result.RowCount())
	}
	return sb.String()
}
