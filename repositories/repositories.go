package repositories

import (
	"github.com/trilytx/trilytx-backend/infra"
)

type Repositories struct {
	WarehouseRepository  WarehouseRepository
	ChatbotLogRepository ChatbotLogRepository
	SessionRepository    *InMemorySessionRepository
	CatalogRepository    CatalogRepository
	LlmRepository        *LlmRepository
}

type options struct {
	bigQueryInfra   *infra.BigQueryInfra
	warehouseConfig infra.WarehouseConfig
	logTablesConfig infra.LogTablesConfig
	llmConfig       infra.LlmConfiguration
	sessionConfig   SessionStoreConfig
	promptsDir      string
}

type Option func(*options)

func WithBigQueryInfra(bqInfra *infra.BigQueryInfra) Option {
	return func(o *options) {
		o.bigQueryInfra = bqInfra
	}
}

func WithWarehouseConfig(config infra.WarehouseConfig) Option {
	return func(o *options) {
		o.warehouseConfig = config
	}
}

func WithLogTablesConfig(config infra.LogTablesConfig) Option {
	return func(o *options) {
		o.logTablesConfig = config
	}
}

func WithLlmConfig(config infra.LlmConfiguration) Option {
	return func(o *options) {
		o.llmConfig = config
	}
}

func WithSessionStoreConfig(config SessionStoreConfig) Option {
	return func(o *options) {
		o.sessionConfig = config
	}
}

func WithPromptsDir(dir string) Option {
	return func(o *options) {
		o.promptsDir = dir
	}
}

func NewRepositories(opts ...Option) Repositories {
	options := &options{promptsDir: "prompts"}
	for _, o := range opts {
		o(options)
	}

	var warehouse WarehouseRepository
	switch options.warehouseConfig.Kind {
	case infra.WarehouseDuckDb:
		warehouse = NewDuckDbWarehouseRepository(options.warehouseConfig)
	default:
		warehouse = NewBigQueryWarehouseRepository(options.bigQueryInfra, options.warehouseConfig)
	}

	var chatbotLogs ChatbotLogRepository = SlogChatbotLogRepository{}
	if options.logTablesConfig.Enabled && options.bigQueryInfra != nil {
		chatbotLogs = NewBigQueryChatbotLogRepository(options.bigQueryInfra, options.logTablesConfig)
	}

	return Repositories{
		WarehouseRepository:  warehouse,
		ChatbotLogRepository: chatbotLogs,
		SessionRepository:    NewInMemorySessionRepository(options.sessionConfig),
		CatalogRepository:    NewCatalogRepository(options.promptsDir),
		LlmRepository:        NewLlmRepository(options.llmConfig),
	}
}
