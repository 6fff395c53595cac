package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/trilytx/trilytx-backend/api"
	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/repositories"
	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:                   utils.GetEnv("ENV", "development"),
		AppName:               APP_NAME,
		AppVersion:            utils.GetEnv("APP_VERSION", "dev"),
		Port:                  utils.GetEnv("PORT", "8080"),
		RequestLoggingLevel:   utils.GetEnv("REQUEST_LOGGING_LEVEL", "all"),
		DefaultTimeout:        time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 30)) * time.Second,
		QuestionTimeout:       time.Duration(utils.GetEnv("QUESTION_TIMEOUT_SECOND", 300)) * time.Second,
		AllowedOrigins:        splitList(utils.GetEnv("CORS_ALLOWED_ORIGINS", "")),
		IpHashSalt:            utils.GetEnv("IP_HASH_SALT", ""),
		QuestionRatePerMinute: utils.GetEnv("QUESTION_RATE_PER_MINUTE", DEFAULT_QUESTION_RATE_MIN),
		QuestionRateBurst:     utils.GetEnv("QUESTION_RATE_BURST", DEFAULT_QUESTION_BURST),
		EnablePrometheus:      utils.GetEnv("ENABLE_PROMETHEUS", false),
	}

	appConfig, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(appConfig.server.loggingFormat, utils.ParseLogLevel(appConfig.server.logLevel))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := infra.SetupSentry(appConfig.server.sentryDsn, apiConfig.Env, apiConfig.AppVersion); err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(ctx, appConfig.telemetry, apiConfig.AppVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryRessources.Shutdown(flushCtx); err != nil {
			logger.WarnContext(ctx, "could not flush traces", "error", err.Error())
		}
	}()

	repos, cleanup, err := appConfig.initRepositories(ctx)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	defer cleanup()

	uc := usecases.NewUsecases(repos,
		usecases.WithApiVersion(apiConfig.AppVersion),
		usecases.WithWarehouseConfig(appConfig.warehouse),
		usecases.WithChatbotConfig(appConfig.chatbot),
	)

	auth := utils.NewAuthentication(nil)
	if appConfig.server.jwtSigningKey != "" {
		auth = utils.NewAuthentication(repositories.NewJwtRepository(appConfig.server.jwtSigningKey))
	} else {
		logger.WarnContext(ctx, "no AUTHENTICATION_JWT_SIGNING_KEY set, every request is anonymous")
	}

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc, auth, logger)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server",
			slog.String("port", apiConfig.Port),
			slog.String("warehouse", string(appConfig.warehouse.Kind)),
			slog.Bool("llm_configured", repos.LlmRepository.IsConfigured()),
		)
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
