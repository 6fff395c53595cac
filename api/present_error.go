package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/dto"
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

func errorCode(err error) dto.ErrorCode {
	switch {
	case errors.Is(err, models.ErrEmptyQuestion):
		return dto.EmptyQuestion
	case errors.Is(err, models.ErrInvalidChannel):
		return dto.InvalidFilters
	case errors.Is(err, models.ErrInvalidVote):
		return dto.InvalidVote
	case errors.Is(err, models.ErrUnknownTable):
		return dto.UnknownTable
	case errors.Is(err, models.ErrLlmNotConfigured):
		return dto.LlmNotConfigured
	}
	return ""
}

func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	logger := utils.LoggerFromContext(ctx)
	errorResponse := dto.APIErrorResponse{Message: err.Error(), ErrorCode: errorCode(err)}

	switch {
	case errors.Is(err, models.BadParameterError):
		logger.InfoContext(ctx, fmt.Sprintf("BadParameterError: %v", err))
		c.JSON(http.StatusBadRequest, errorResponse)
	case errors.Is(err, models.UnAuthorizedError):
		logger.InfoContext(ctx, fmt.Sprintf("UnAuthorizedError: %v", err))
		c.JSON(http.StatusUnauthorized, errorResponse)
	case errors.Is(err, models.ForbiddenError):
		logger.InfoContext(ctx, fmt.Sprintf("ForbiddenError: %v", err))
		c.JSON(http.StatusForbidden, errorResponse)
	case errors.Is(err, models.NotFoundError):
		logger.InfoContext(ctx, fmt.Sprintf("NotFoundError: %v", err))
		c.JSON(http.StatusNotFound, errorResponse)
	case errors.Is(err, models.ConflictError):
		logger.InfoContext(ctx, fmt.Sprintf("ConflictError: %v", err))
		c.JSON(http.StatusConflict, errorResponse)
	case errors.Is(err, models.RateLimitedError):
		logger.InfoContext(ctx, fmt.Sprintf("RateLimitedError: %v", err))
		c.JSON(http.StatusTooManyRequests, errorResponse)
	case errors.Is(err, models.UnavailableError):
		logger.WarnContext(ctx, fmt.Sprintf("UnavailableError: %v", err))
		c.JSON(http.StatusServiceUnavailable, errorResponse)
	case errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, fmt.Sprintf("Deadline exceeded: %v", err))
		c.JSON(http.StatusRequestTimeout, dto.APIErrorResponse{Message: "the request timed out"})
	case errors.Is(err, context.Canceled):
		logger.InfoContext(ctx, fmt.Sprintf("Request canceled: %v", err))
		c.Status(499)
	default:
		utils.LogAndReportSentryError(ctx, err)
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{Message: "An unexpected error occurred. Please try again later."})
	}
	return true
}
