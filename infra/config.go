package infra

import (
	"time"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"
)

type GcpConfig struct {
	ProjectId string
	// AuthMode is one of "adc", "env_json" or "env_path"
	AuthMode        string
	CredentialsJson string
	CredentialsPath string
}

const (
	BqAuthModeAdc     = "adc"
	BqAuthModeEnvJson = "env_json"
	BqAuthModeEnvPath = "env_path"
)

func (config GcpConfig) Validate() error {
	switch config.AuthMode {
	case "", BqAuthModeAdc:
		return nil
	case BqAuthModeEnvJson:
		if config.CredentialsJson == "" {
			return errors.New("GOOGLE_APPLICATION_CREDENTIALS_JSON is required when BQ_AUTH_MODE=env_json")
		}
	case BqAuthModeEnvPath:
		if config.CredentialsPath == "" {
			return errors.New("GOOGLE_APPLICATION_CREDENTIALS_PATH is required when BQ_AUTH_MODE=env_path")
		}
	default:
		return errors.Newf("unknown BQ_AUTH_MODE '%s', expected adc, env_json or env_path", config.AuthMode)
	}
	return nil
}

type WarehouseKind string

const (
	WarehouseBigQuery WarehouseKind = "bigquery"
	WarehouseDuckDb   WarehouseKind = "duckdb"
)

// Dialect is the SQL dialect named in the prompts.
func (k WarehouseKind) Dialect() string {
	if k == WarehouseDuckDb {
		return "DuckDB"
	}
	return "BigQuery"
}

type WarehouseConfig struct {
	Kind WarehouseKind
	// Project and dataset holding the fact tables
	DataProject    string
	DataDataset    string
	MaxBytesBilled int64
	QueryTimeout   time.Duration
	MaxRows        int
	DuckDbPath     string
}

type LogTablesConfig struct {
	Enabled          bool
	Dataset          string
	ErrorTable       string
	ZeroResultTable  string
	QuestionTable    string
	VoteTable        string
	DatasetLocation  string
	PartitionExpires time.Duration
}

type LlmProviderType string

const (
	LlmProviderTypeOpenAI   LlmProviderType = "openai"
	LlmProviderTypeAIStudio LlmProviderType = "aistudio"
)

type LlmConfiguration struct {
	ProviderType LlmProviderType
	ApiKey       string
	BaseUrl      string
	Backend      genai.Backend
	Project      string
	Location     string
	DefaultModel string
}

// IsConfigured reports whether enough settings are present to build a provider.
func (config LlmConfiguration) IsConfigured() bool {
	switch config.ProviderType {
	case LlmProviderTypeOpenAI:
		return config.ApiKey != "" || config.BaseUrl != ""
	case LlmProviderTypeAIStudio:
		return config.ApiKey != "" || config.Project != ""
	default:
		return false
	}
}

// ParseLlmBackend maps the LLM_BACKEND variable to a genai backend.
func ParseLlmBackend(value string) genai.Backend {
	switch value {
	case "vertex", "vertexai":
		return genai.BackendVertexAI
	case "gemini", "":
		return genai.BackendGeminiAPI
	default:
		return genai.BackendUnspecified
	}
}

type TelemetrySamplingMap struct {
	HttpRoutes map[string]float64
	SpanNames  map[string]float64
}

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	ProjectID       string
	// Exporter is "otlp" (default) or "gcp"
	Exporter    string
	SamplingMap TelemetrySamplingMap
}
