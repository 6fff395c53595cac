package cmd

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/repositories"
	"github.com/trilytx/trilytx-backend/utils"
)

// RunMigrations creates the BigQuery dataset and tables receiving the chatbot logs.
func RunMigrations() error {
	appConfig, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(appConfig.server.loggingFormat, utils.ParseLogLevel(appConfig.server.logLevel))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if !appConfig.logTables.Enabled {
		logger.InfoContext(ctx, "log tables are disabled for this environment, nothing to migrate")
		return nil
	}

	bqInfra, err := infra.InitializeBigQueryInfra(ctx, appConfig.gcp, appConfig.logTables)
	if err != nil {
		return errors.Wrap(err, "could not initialize bigquery")
	}
	defer bqInfra.Close()

	logRepository := repositories.NewBigQueryChatbotLogRepository(bqInfra, appConfig.logTables)
	if err := logRepository.CreateLogTables(ctx); err != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("error running migrations: %v", err))
		return err
	}

	logger.InfoContext(ctx, "log tables are ready", "dataset", appConfig.logTables.Dataset)
	return nil
}
