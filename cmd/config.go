package cmd

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/repositories"
	"github.com/trilytx/trilytx-backend/usecases/chatbot"
	"github.com/trilytx/trilytx-backend/utils"
)

const (
	APP_NAME                  = "trilytx-backend"
	DEFAULT_MAX_BYTES_BILLED  = 10 * 1024 * 1024 * 1024
	APP_ENV_LOCAL             = "local"
	DEFAULT_QUESTION_RATE_MIN = 20
	DEFAULT_QUESTION_BURST    = 5
)

type ServerConfig struct {
	appEnv        string
	appVersion    string
	jwtSigningKey string
	loggingFormat string
	logLevel      string
	sentryDsn     string
	promptsDir    string
	ipHashSalt    string
}

func (config ServerConfig) Validate() error {
	if config.promptsDir == "" {
		return errors.New("PROMPTS_DIR must not be empty")
	}
	return nil
}

// AppConfig gathers every configuration block read from the environment.
type AppConfig struct {
	server    ServerConfig
	gcp       infra.GcpConfig
	warehouse infra.WarehouseConfig
	logTables infra.LogTablesConfig
	llm       infra.LlmConfiguration
	session   repositories.SessionStoreConfig
	chatbot   chatbot.Config
	telemetry infra.TelemetryConfiguration
}

func loadAppConfig() (AppConfig, error) {
	server := ServerConfig{
		appEnv:        utils.GetEnv("APP_ENV", "prod"),
		appVersion:    utils.GetEnv("APP_VERSION", "dev"),
		jwtSigningKey: utils.GetEnv("AUTHENTICATION_JWT_SIGNING_KEY", ""),
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		logLevel:      utils.GetEnv("LOG_LEVEL", "info"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
		promptsDir:    utils.GetEnv("PROMPTS_DIR", "prompts"),
		ipHashSalt:    utils.GetEnv("IP_HASH_SALT", ""),
	}
	if err := server.Validate(); err != nil {
		return AppConfig{}, err
	}

	warehouseKind := infra.WarehouseBigQuery
	if server.appEnv == APP_ENV_LOCAL {
		warehouseKind = infra.WarehouseDuckDb
	}

	gcp := infra.GcpConfig{
		ProjectId:       utils.GetEnv("GOOGLE_CLOUD_PROJECT", ""),
		AuthMode:        utils.GetEnv("BQ_AUTH_MODE", infra.BqAuthModeAdc),
		CredentialsJson: utils.GetEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
		CredentialsPath: utils.GetEnv("GOOGLE_APPLICATION_CREDENTIALS_PATH", ""),
	}
	if warehouseKind == infra.WarehouseBigQuery {
		if err := gcp.Validate(); err != nil {
			return AppConfig{}, err
		}
	}

	samplingMap, err := infra.ParseSamplingMap(utils.GetEnv("TRACING_SAMPLING", ""))
	if err != nil {
		return AppConfig{}, err
	}

	defaultModel := utils.GetEnv("LLM_DEFAULT_MODEL", "gpt-4o")

	return AppConfig{
		server: server,
		gcp:    gcp,
		warehouse: infra.WarehouseConfig{
			Kind:           warehouseKind,
			DataProject:    utils.GetEnv("BQ_DATA_PROJECT", gcp.ProjectId),
			DataDataset:    utils.GetEnv("BQ_DATA_DATASET", "retail"),
			MaxBytesBilled: int64(utils.GetEnv("BQ_MAX_BYTES_BILLED", DEFAULT_MAX_BYTES_BILLED)),
			QueryTimeout:   time.Duration(utils.GetEnv("BQ_QUERY_TIMEOUT_SECOND", 180)) * time.Second,
			MaxRows:        utils.GetEnv("QUERY_MAX_ROWS", 10000),
			DuckDbPath:     utils.GetEnv("DUCKDB_PATH", ""),
		},
		logTables: infra.LogTablesConfig{
			Enabled:          warehouseKind == infra.WarehouseBigQuery,
			Dataset:          utils.GetEnv("BQ_LOG_DATASET", "app_logs"),
			ErrorTable:       utils.GetEnv("BQ_LOG_TABLE_ERROR", "chatbot_error_log"),
			ZeroResultTable:  utils.GetEnv("BQ_LOG_TABLE_ZERO", "chatbot_zero_result_log"),
			QuestionTable:    utils.GetEnv("BQ_LOG_TABLE_QUESTION", "chatbot_question_log"),
			VoteTable:        utils.GetEnv("BQ_LOG_TABLE_VOTE", "chatbot_vote_feedback"),
			DatasetLocation:  utils.GetEnv("BQ_LOG_DATASET_LOCATION", "US"),
			PartitionExpires: time.Duration(utils.GetEnv("BQ_LOG_RETENTION_DAYS", 0)) * 24 * time.Hour,
		},
		llm: infra.LlmConfiguration{
			ProviderType: infra.LlmProviderType(utils.GetEnv("LLM_PROVIDER", string(infra.LlmProviderTypeOpenAI))),
			ApiKey:       utils.GetEnv("OPENAI_API_KEY", ""),
			BaseUrl:      utils.GetEnv("LLM_BASE_URL", ""),
			Backend:      infra.ParseLlmBackend(utils.GetEnv("LLM_BACKEND", "")),
			Project:      utils.GetEnv("LLM_PROJECT", ""),
			Location:     utils.GetEnv("LLM_LOCATION", ""),
			DefaultModel: defaultModel,
		},
		session: repositories.SessionStoreConfig{
			MaxSessions: utils.GetEnv("SESSION_MAX_COUNT", repositories.DEFAULT_SESSION_MAX_COUNT),
			Ttl:         time.Duration(utils.GetEnv("SESSION_TTL_MINUTE", 120)) * time.Minute,
			MaxTurns:    utils.GetEnv("SESSION_HISTORY_MAX", repositories.DEFAULT_SESSION_HISTORY_MAX),
		},
		chatbot: chatbot.Config{
			PromptsDir:     server.promptsDir,
			DefaultModel:   defaultModel,
			MaxAttempts:    utils.GetEnv("CHATBOT_MAX_ATTEMPTS", chatbot.DEFAULT_MAX_ATTEMPTS),
			HistoryTurns:   utils.GetEnv("CHATBOT_HISTORY_TURNS", chatbot.DEFAULT_HISTORY_TURNS),
			SummaryMaxRows: utils.GetEnv("SUMMARY_MAX_ROWS", chatbot.DEFAULT_SUMMARY_MAX_ROWS),
			IpHashSalt:     server.ipHashSalt,
			QueryOptions: models.QueryOptions{
				ToSnakeCase: utils.GetEnv("QUERY_SNAKE_CASE_COLUMNS", true),
			},
		},
		telemetry: infra.TelemetryConfiguration{
			Enabled:         utils.GetEnv("ENABLE_TRACING", false),
			ApplicationName: APP_NAME,
			ProjectID:       gcp.ProjectId,
			Exporter:        utils.GetEnv("TRACING_EXPORTER", "otlp"),
			SamplingMap:     samplingMap,
		},
	}, nil
}

// initRepositories opens the BigQuery client when the warehouse or the log tables need it.
// The returned cleanup closes every opened client.
func (config AppConfig) initRepositories(ctx context.Context) (repositories.Repositories, func(), error) {
	var bqInfra *infra.BigQueryInfra
	if config.warehouse.Kind == infra.WarehouseBigQuery || config.logTables.Enabled {
		var err error
		bqInfra, err = infra.InitializeBigQueryInfra(ctx, config.gcp, config.logTables)
		if err != nil {
			return repositories.Repositories{}, func() {}, err
		}
	}

	repos := repositories.NewRepositories(
		repositories.WithBigQueryInfra(bqInfra),
		repositories.WithWarehouseConfig(config.warehouse),
		repositories.WithLogTablesConfig(config.logTables),
		repositories.WithLlmConfig(config.llm),
		repositories.WithSessionStoreConfig(config.session),
		repositories.WithPromptsDir(config.server.promptsDir),
	)

	cleanup := func() {
		logger := utils.LoggerFromContext(ctx)
		if closer, ok := repos.WarehouseRepository.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger.WarnContext(ctx, "could not close the warehouse", "error", err)
			}
		}
		if err := bqInfra.Close(); err != nil {
			logger.WarnContext(ctx, "could not close the bigquery client", "error", err)
		}
	}
	return repos, cleanup, nil
}
