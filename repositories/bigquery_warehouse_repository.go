package repositories

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/models"
)

type BigQueryWarehouseRepository struct {
	bqInfra *infra.BigQueryInfra
	config  infra.WarehouseConfig
}

func NewBigQueryWarehouseRepository(bqInfra *infra.BigQueryInfra, config infra.WarehouseConfig) *BigQueryWarehouseRepository {
	return &BigQueryWarehouseRepository{
		bqInfra: bqInfra,
		config:  config,
	}
}

func (repo *BigQueryWarehouseRepository) client() (*bigquery.Client, error) {
	if repo.bqInfra == nil || repo.bqInfra.Client == nil {
		return nil, models.ErrWarehouseNotReady
	}
	return repo.bqInfra.Client, nil
}

func (repo *BigQueryWarehouseRepository) dataProject() string {
	if repo.config.DataProject != "" {
		return repo.config.DataProject
	}
	if repo.bqInfra != nil {
		return repo.bqInfra.ProjectId
	}
	return ""
}

func (repo *BigQueryWarehouseRepository) QualifiedTableName(table string) string {
	return fmt.Sprintf("`%s.%s.%s`", repo.dataProject(), repo.config.DataDataset, table)
}

func (repo *BigQueryWarehouseRepository) RunQuery(ctx context.Context, sql string, opts models.QueryOptions) (models.QueryResult, error) {
	client, err := repo.client()
	if err != nil {
		return models.QueryResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout(opts, repo.config.QueryTimeout))
	defer cancel()

	query := client.Query(sql)
	query.Labels = opts.Labels
	query.DryRun = opts.DryRun
	query.DisableQueryCache = false
	query.MaxBytesBilled = repo.config.MaxBytesBilled
	if opts.MaxBytesBilled > 0 {
		query.MaxBytesBilled = opts.MaxBytesBilled
	}
	query.Parameters = adaptQueryParameters(opts.Params)

	job, err := query.Run(ctx)
	if err != nil {
		return models.QueryResult{}, errors.Wrap(err, "could not start bigquery job")
	}

	if opts.DryRun {
		status := job.LastStatus()
		result := models.QueryResult{DryRun: true}
		if status != nil && status.Statistics != nil {
			result.TotalBytesProcessed = status.Statistics.TotalBytesProcessed
		}
		return result, nil
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return models.QueryResult{}, errors.Wrap(err, "error while waiting for bigquery job")
	}
	if err := status.Err(); err != nil {
		return models.QueryResult{}, errors.Wrap(err, "bigquery job failed")
	}

	it, err := job.Read(ctx)
	if err != nil {
		return models.QueryResult{}, errors.Wrap(err, "could not read bigquery job results")
	}

	result := models.QueryResult{Rows: make([][]any, 0)}
	if status.Statistics != nil {
		result.TotalBytesProcessed = status.Statistics.TotalBytesProcessed
	}

	limit := maxRows(opts, repo.config.MaxRows)
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return models.QueryResult{}, errors.Wrap(err, "could not read bigquery row")
		}
		if len(result.Rows) >= limit {
			result.Truncated = true
			break
		}
		result.Rows = append(result.Rows, adaptBigQueryRow(row))
	}

	result.Columns = make([]models.QueryColumn, len(it.Schema))
	for i, field := range it.Schema {
		result.Columns[i] = models.QueryColumn{
			Name: columnName(field.Name, opts),
			Type: string(field.Type),
		}
	}

	return result, nil
}

func (repo *BigQueryWarehouseRepository) GetTableSchema(ctx context.Context, tableRef string) (models.TableSchema, error) {
	client, err := repo.client()
	if err != nil {
		return models.TableSchema{}, err
	}

	ref, err := models.ParseTableRef(tableRef)
	if err != nil {
		return models.TableSchema{}, err
	}
	if ref.Project == "" {
		ref.Project = repo.dataProject()
	}

	metadata, err := client.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table).Metadata(ctx)
	if isGoogleApiStatus(err, http.StatusNotFound) {
		return models.TableSchema{}, errors.Wrapf(models.NotFoundError, "table %s does not exist", ref.String())
	}
	if err != nil {
		return models.TableSchema{}, errors.Wrapf(err, "could not read metadata of table %s", ref.String())
	}

	return models.TableSchema{
		TableId:     ref.String(),
		Description: metadata.Description,
		Fields:      adaptFieldSchemas("", metadata.Schema),
	}, nil
}

func (repo *BigQueryWarehouseRepository) ListTables(ctx context.Context, dataset string) ([]string, error) {
	client, err := repo.client()
	if err != nil {
		return nil, err
	}
	if dataset == "" {
		dataset = repo.config.DataDataset
	}

	tables := make([]string, 0)
	it := client.DatasetInProject(repo.dataProject(), dataset).Tables(ctx)
	for {
		table, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if isGoogleApiStatus(err, http.StatusNotFound) {
			return nil, errors.Wrapf(models.NotFoundError, "dataset %s does not exist", dataset)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not list tables of dataset %s", dataset)
		}
		tables = append(tables, table.DatasetID+"."+table.TableID)
	}
	slices.Sort(tables)

	return tables, nil
}

func (repo *BigQueryWarehouseRepository) Ping(ctx context.Context) error {
	_, err := repo.RunQuery(ctx, "SELECT 1", models.QueryOptions{
		DryRun:  true,
		Timeout: 10 * time.Second,
	})
	return err
}

func adaptQueryParameters(params map[string]any) []bigquery.QueryParameter {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	parameters := make([]bigquery.QueryParameter, len(names))
	for i, name := range names {
		parameters[i] = bigquery.QueryParameter{Name: name, Value: params[name]}
	}
	return parameters
}

func adaptBigQueryRow(row []bigquery.Value) []any {
	values := make([]any, len(row))
	for i, value := range row {
		values[i] = adaptBigQueryValue(value)
	}
	return values
}

// repeated and record values are both read as []bigquery.Value
func adaptBigQueryValue(value bigquery.Value) any {
	if nested, ok := value.([]bigquery.Value); ok {
		return adaptBigQueryRow(nested)
	}
	return normalizeValue(value)
}

func adaptFieldSchemas(prefix string, schema bigquery.Schema) []models.FieldSchema {
	fields := make([]models.FieldSchema, 0, len(schema))
	for _, field := range schema {
		mode := "NULLABLE"
		switch {
		case field.Repeated:
			mode = "REPEATED"
		case field.Required:
			mode = "REQUIRED"
		}

		name := field.Name
		if prefix != "" {
			name = prefix + "." + field.Name
		}
		fields = append(fields, models.FieldSchema{
			Name:        name,
			Type:        string(field.Type),
			Mode:        mode,
			Description: strings.TrimSpace(field.Description),
		})
		if len(field.Schema) > 0 {
			fields = append(fields, adaptFieldSchemas(name, field.Schema)...)
		}
	}
	return fields
}

func isGoogleApiStatus(err error, code int) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
