package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/dto"
	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

type SessionUriInput struct {
	SessionId string `uri:"session_id" binding:"required,uuid"`
}

type QuestionUriInput struct {
	SessionId  string `uri:"session_id" binding:"required,uuid"`
	QuestionId string `uri:"question_id" binding:"required,uuid"`
}

func handlePostQuestion(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.PostQuestionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}
		input, err := dto.AdaptQuestionInput(body, utils.UserIdFromCtx(ctx), c.Request.UserAgent(), c.ClientIP())
		if presentError(ctx, c, err) {
			return
		}

		usecase := uc.NewChatbotUsecase()
		answer, err := usecase.AskQuestion(ctx, input)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"answer": dto.AdaptAnswerDto(answer)})
	}
}

func handleGetSession(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var uri SessionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewChatbotUsecase()
		session, err := usecase.GetSession(ctx, uri.SessionId, utils.UserIdFromCtx(ctx))
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"session": dto.AdaptSessionDto(session)})
	}
}

func handlePostVote(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var uri QuestionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var body dto.PostVoteBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}

		usecase := uc.NewChatbotUsecase()
		err := usecase.RecordVote(ctx, dto.AdaptVoteInput(body, uri.SessionId, uri.QuestionId, utils.UserIdFromCtx(ctx)))
		if presentError(ctx, c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func handleExportResultCsv(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var uri QuestionUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		buf := bytes.Buffer{}
		usecase := uc.NewChatbotUsecase()
		err := usecase.ExportTurnCsv(ctx, uri.SessionId, uri.QuestionId, utils.UserIdFromCtx(ctx), &buf)
		if presentError(ctx, c, err) {
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="results-%s.csv"`, uri.QuestionId))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}
