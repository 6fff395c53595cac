package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	timeout "github.com/vearne/gin-timeout"

	"github.com/trilytx/trilytx-backend/api/middleware"
	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.Timeout(
		timeout.WithTimeout(duration),
		timeout.WithErrorHttpCode(http.StatusRequestTimeout),
		timeout.WithDefaultMsg(`{"message":"the request timed out"}`),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases, auth utils.Authentication, logger *slog.Logger) {
	r.GET("/liveness", handleLivenessProbe)
	r.GET("/health", handleHealth(uc))
	if conf.EnablePrometheus {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router := r.Group("/", auth.Middleware)
	questionLimiter := middleware.NewRateLimiter(conf.QuestionRatePerMinute, conf.QuestionRateBurst)

	router.POST("/chat/questions",
		questionLimiter.Middleware,
		timeoutMiddleware(conf.QuestionTimeout),
		handlePostQuestion(uc))
	router.GET("/chat/sessions/:session_id", timeoutMiddleware(conf.DefaultTimeout), handleGetSession(uc))
	router.POST("/chat/sessions/:session_id/questions/:question_id/votes",
		timeoutMiddleware(conf.DefaultTimeout), handlePostVote(uc))
	router.GET("/chat/sessions/:session_id/questions/:question_id/results.csv",
		timeoutMiddleware(conf.DefaultTimeout), handleExportResultCsv(uc))

	router.GET("/catalog/tables", timeoutMiddleware(conf.DefaultTimeout), handleListCatalogTables(uc))
	router.GET("/catalog/tables/:table_name/schema", timeoutMiddleware(conf.DefaultTimeout), handleGetTableSchema(uc))
	router.GET("/catalog/examples", timeoutMiddleware(conf.DefaultTimeout), handleListExamples(uc))

	logger.Debug("routes registered", "prometheus", conf.EnablePrometheus)
}
