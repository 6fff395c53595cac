package dto

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/pure_utils"
)

type FiltersDto struct {
	Store      string `json:"store"`
	Department string `json:"department"`
	Channel    string `json:"channel"`
	// dates are formatted YYYY-MM-DD
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type PostQuestionBody struct {
	Question   string     `json:"question" binding:"required"`
	SessionId  string     `json:"session_id" binding:"omitempty,uuid"`
	IsFollowUp bool       `json:"is_follow_up"`
	Filters    FiltersDto `json:"filters"`
}

func AdaptFilters(filters FiltersDto) (models.Filters, error) {
	out := models.Filters{
		Store:      strings.TrimSpace(filters.Store),
		Department: strings.TrimSpace(filters.Department),
		Channel:    models.Channel(strings.ToLower(strings.TrimSpace(filters.Channel))),
	}
	if out.Channel == "any" {
		out.Channel = models.ChannelAny
	}

	var err error
	if out.DateFrom, err = parseDate(filters.DateFrom); err != nil {
		return models.Filters{}, err
	}
	if out.DateTo, err = parseDate(filters.DateTo); err != nil {
		return models.Filters{}, err
	}
	if out.DateFrom != nil && out.DateTo != nil && out.DateTo.Before(*out.DateFrom) {
		return models.Filters{}, errors.Wrap(models.BadParameterError, "date_to is before date_from")
	}
	return out, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, errors.Wrapf(models.BadParameterError, "invalid date '%s', expected YYYY-MM-DD", value)
	}
	return &date, nil
}

func AdaptQuestionInput(body PostQuestionBody, userId, userAgent, clientIp string) (models.QuestionInput, error) {
	filters, err := AdaptFilters(body.Filters)
	if err != nil {
		return models.QuestionInput{}, err
	}
	return models.QuestionInput{
		SessionId:  body.SessionId,
		UserId:     userId,
		Text:       body.Question,
		IsFollowUp: body.IsFollowUp,
		Filters:    filters,
		UserAgent:  userAgent,
		ClientIp:   clientIp,
	}, nil
}

type QueryColumnDto struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type QueryResultDto struct {
	Columns   []QueryColumnDto `json:"columns"`
	Rows      [][]any          `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"`
}

func AdaptQueryResultDto(result models.QueryResult) QueryResultDto {
	rows := result.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return QueryResultDto{
		Columns: pure_utils.Map(result.Columns, func(c models.QueryColumn) QueryColumnDto {
			return QueryColumnDto{Name: c.Name, Type: c.Type}
		}),
		Rows:      rows,
		RowCount:  result.RowCount(),
		Truncated: result.Truncated,
	}
}

type TurnDto struct {
	QuestionId     string         `json:"question_id"`
	Question       string         `json:"question"`
	Status         string         `json:"status"`
	Summary        string         `json:"summary"`
	Sql            string         `json:"sql"`
	SelectedTables []string       `json:"selected_tables"`
	Result         QueryResultDto `json:"result"`
	IsFollowUp     bool           `json:"is_follow_up"`
	AttemptCount   int            `json:"attempt_count"`
	LatencySeconds int            `json:"latency_seconds"`
	LargeResult    bool           `json:"large_result"`
	AskedAt        time.Time      `json:"asked_at"`
}

func AdaptTurnDto(turn models.Turn) TurnDto {
	selected := turn.SelectedTables
	if selected == nil {
		selected = []string{}
	}
	return TurnDto{
		QuestionId:     turn.QuestionId,
		Question:       turn.Question,
		Status:         string(turn.Status),
		Summary:        turn.Summary,
		Sql:            turn.Sql,
		SelectedTables: selected,
		Result:         AdaptQueryResultDto(turn.Result),
		IsFollowUp:     turn.IsFollowUp,
		AttemptCount:   turn.AttemptCount,
		LatencySeconds: int(turn.Latency / time.Second),
		LargeResult:    turn.Result.RowCount() > models.LargeResultRowCount,
		AskedAt:        turn.AskedAt,
	}
}

type AnswerDto struct {
	TurnDto
	SessionId        string `json:"session_id"`
	PreviousQuestion string `json:"previous_question,omitempty"`
}

func AdaptAnswerDto(answer models.Answer) AnswerDto {
	return AnswerDto{
		TurnDto:          AdaptTurnDto(answer.Turn),
		SessionId:        answer.SessionId,
		PreviousQuestion: answer.PreviousQuestion,
	}
}

type VoteDto struct {
	QuestionId string    `json:"question_id"`
	Vote       string    `json:"vote"`
	Reason     string    `json:"reason,omitempty"`
	VotedAt    time.Time `json:"voted_at"`
}

type SessionDto struct {
	Id        string    `json:"id"`
	Turns     []TurnDto `json:"turns"`
	Votes     []VoteDto `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func AdaptSessionDto(session models.Session) SessionDto {
	return SessionDto{
		Id:    session.Id,
		Turns: pure_utils.Map(session.Turns, AdaptTurnDto),
		Votes: pure_utils.Map(session.Votes, func(v models.Vote) VoteDto {
			return VoteDto{QuestionId: v.QuestionId, Vote: string(v.Value), Reason: v.Reason, VotedAt: v.VotedAt}
		}),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

type PostVoteBody struct {
	Vote   string `json:"vote" binding:"required"`
	Reason string `json:"reason"`
}

func AdaptVoteInput(body PostVoteBody, sessionId, questionId, userId string) models.VoteInput {
	return models.VoteInput{
		SessionId:  sessionId,
		QuestionId: questionId,
		UserId:     userId,
		Value:      models.VoteValue(strings.ToUpper(strings.TrimSpace(body.Vote))),
		Reason:     body.Reason,
	}
}
