package infra

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/option"
)

// BigQueryInfra holds the client used both to query the retail warehouse and to stream chatbot
// log rows. Log tables are nil when logging to BigQuery is disabled.
type BigQueryInfra struct {
	Client     *bigquery.Client
	ProjectId  string
	LogDataset *bigquery.Dataset

	ErrorTable      *bigquery.Table
	ZeroResultTable *bigquery.Table
	QuestionTable   *bigquery.Table
	VoteTable       *bigquery.Table
}

func ClientOptions(config GcpConfig) ([]option.ClientOption, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithTelemetryDisabled()}
	switch config.AuthMode {
	case BqAuthModeEnvJson:
		opts = append(opts, option.WithCredentialsJSON([]byte(config.CredentialsJson)))
	case BqAuthModeEnvPath:
		opts = append(opts, option.WithCredentialsFile(config.CredentialsPath))
	}
	return opts, nil
}

func InitializeBigQueryInfra(ctx context.Context, gcpConfig GcpConfig, logConfig LogTablesConfig) (*BigQueryInfra, error) {
	projectId := gcpConfig.ProjectId
	if projectId == "" {
		var err error
		projectId, err = GetProjectId(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "could not determine the GCP project id")
		}
	}
	if projectId == "" {
		projectId = bigquery.DetectProjectID
	}

	opts, err := ClientOptions(gcpConfig)
	if err != nil {
		return nil, err
	}

	client, err := bigquery.NewClient(ctx, projectId, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create the bigquery client")
	}

	bqInfra := &BigQueryInfra{
		Client:    client,
		ProjectId: client.Project(),
	}

	if logConfig.Enabled {
		bqInfra.LogDataset = client.Dataset(logConfig.Dataset)
		bqInfra.ErrorTable = bqInfra.LogDataset.Table(logConfig.ErrorTable)
		bqInfra.ZeroResultTable = bqInfra.LogDataset.Table(logConfig.ZeroResultTable)
		bqInfra.QuestionTable = bqInfra.LogDataset.Table(logConfig.QuestionTable)
		bqInfra.VoteTable = bqInfra.LogDataset.Table(logConfig.VoteTable)
	}

	return bqInfra, nil
}

func (bq *BigQueryInfra) Close() error {
	if bq == nil || bq.Client == nil {
		return nil
	}
	return bq.Client.Close()
}
