package usecases

import (
	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/repositories"
	"github.com/trilytx/trilytx-backend/usecases/chatbot"
)

type Usecases struct {
	Repositories    repositories.Repositories
	apiVersion      string
	warehouseConfig infra.WarehouseConfig
	chatbotConfig   chatbot.Config
}

type Option func(*options)

func WithApiVersion(apiVersion string) Option {
	return func(o *options) {
		o.apiVersion = apiVersion
	}
}

func WithWarehouseConfig(config infra.WarehouseConfig) Option {
	return func(o *options) {
		o.warehouseConfig = config
	}
}

func WithChatbotConfig(config chatbot.Config) Option {
	return func(o *options) {
		o.chatbotConfig = config
	}
}

type options struct {
	apiVersion      string
	warehouseConfig infra.WarehouseConfig
	chatbotConfig   chatbot.Config
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) Usecases {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	chatbotConfig := o.chatbotConfig
	chatbotConfig.AppVersion = o.apiVersion
	if chatbotConfig.Dialect == "" {
		chatbotConfig.Dialect = o.warehouseConfig.Kind.Dialect()
	}

	return Usecases{
		Repositories:    repositories,
		apiVersion:      o.apiVersion,
		warehouseConfig: o.warehouseConfig,
		chatbotConfig:   chatbotConfig,
	}
}

func (usecases *Usecases) NewChatbotUsecase() *chatbot.ChatbotUsecase {
	return chatbot.NewChatbotUsecase(
		usecases.chatbotConfig,
		usecases.Repositories.WarehouseRepository,
		usecases.Repositories.LlmRepository,
		usecases.Repositories.CatalogRepository,
		usecases.Repositories.SessionRepository,
		usecases.Repositories.ChatbotLogRepository,
	)
}

func (usecases *Usecases) NewCatalogUsecase() CatalogUsecase {
	project := usecases.warehouseConfig.DataProject
	if usecases.warehouseConfig.Kind == infra.WarehouseDuckDb {
		project = ""
	}
	return CatalogUsecase{
		catalogRepository:   usecases.Repositories.CatalogRepository,
		warehouseRepository: usecases.Repositories.WarehouseRepository,
		dataProject:         project,
		dataset:             usecases.warehouseConfig.DataDataset,
	}
}

func (usecases *Usecases) NewHealthUsecase() HealthUsecase {
	return HealthUsecase{
		warehouseRepository: usecases.Repositories.WarehouseRepository,
		llmRepository:       usecases.Repositories.LlmRepository,
	}
}
