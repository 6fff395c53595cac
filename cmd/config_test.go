package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/repositories"
	"github.com/trilytx/trilytx-backend/usecases/chatbot"
)

func TestLoadAppConfig_localDefaults(t *testing.T) {
	t.Setenv("APP_ENV", APP_ENV_LOCAL)

	config, err := loadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, infra.WarehouseDuckDb, config.warehouse.Kind)
	assert.False(t, config.logTables.Enabled)
	assert.True(t, config.chatbot.QueryOptions.ToSnakeCase)
	assert.Equal(t, chatbot.DEFAULT_SUMMARY_MAX_ROWS, config.chatbot.SummaryMaxRows)
	assert.Equal(t, repositories.DEFAULT_SESSION_HISTORY_MAX, config.session.MaxTurns)
}

func TestLoadAppConfig_overrides(t *testing.T) {
	t.Setenv("APP_ENV", APP_ENV_LOCAL)
	t.Setenv("QUERY_SNAKE_CASE_COLUMNS", "false")
	t.Setenv("SUMMARY_MAX_ROWS", "25")
	t.Setenv("SESSION_HISTORY_MAX", "8")

	config, err := loadAppConfig()
	require.NoError(t, err)

	assert.False(t, config.chatbot.QueryOptions.ToSnakeCase)
	assert.Equal(t, 25, config.chatbot.SummaryMaxRows)
	assert.Equal(t, 8, config.session.MaxTurns)
}
