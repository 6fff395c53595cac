package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/duckdb/duckdb-go/v2"

	"github.com/trilytx/trilytx-backend/infra"
	"github.com/trilytx/trilytx-backend/models"
)

// DuckDbWarehouseRepository serves the same tables from a local DuckDB file, for local development.
// Datasets map to DuckDB schemas.
type DuckDbWarehouseRepository struct {
	config infra.WarehouseConfig

	once sync.Once
	db   *sql.DB
	err  error
}

func NewDuckDbWarehouseRepository(config infra.WarehouseConfig) *DuckDbWarehouseRepository {
	return &DuckDbWarehouseRepository{config: config}
}

func (repo *DuckDbWarehouseRepository) executor() (*sql.DB, error) {
	repo.once.Do(func() {
		var connector *duckdb.Connector
		connector, repo.err = duckdb.NewConnector(repo.config.DuckDbPath, nil)
		if repo.err != nil {
			repo.err = errors.Wrapf(repo.err, "could not open duckdb database '%s'", repo.config.DuckDbPath)
			return
		}
		repo.db = sql.OpenDB(connector)
	})
	return repo.db, repo.err
}

func (repo *DuckDbWarehouseRepository) Close() error {
	if repo.db == nil {
		return nil
	}
	return repo.db.Close()
}

func (repo *DuckDbWarehouseRepository) QualifiedTableName(table string) string {
	return fmt.Sprintf("%s.%s", repo.config.DataDataset, table)
}

func (repo *DuckDbWarehouseRepository) RunQuery(ctx context.Context, query string, opts models.QueryOptions) (models.QueryResult, error) {
	db, err := repo.executor()
	if err != nil {
		return models.QueryResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout(opts, repo.config.QueryTimeout))
	defer cancel()

	args := make([]any, 0, len(opts.Params))
	for name, value := range opts.Params {
		args = append(args, sql.Named(name, value))
	}

	if opts.DryRun {
		rows, err := db.QueryContext(ctx, "EXPLAIN "+strings.TrimSuffix(strings.TrimSpace(query), ";"), args...)
		if err != nil {
			return models.QueryResult{}, errors.Wrap(err, "duckdb could not plan the query")
		}
		rows.Close()
		return models.QueryResult{DryRun: true}, nil
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.QueryResult{}, errors.Wrap(err, "duckdb query failed")
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return models.QueryResult{}, errors.Wrap(err, "could not read duckdb column types")
	}

	result := models.QueryResult{
		Columns: make([]models.QueryColumn, len(columnTypes)),
		Rows:    make([][]any, 0),
	}
	for i, column := range columnTypes {
		result.Columns[i] = models.QueryColumn{
			Name: columnName(column.Name(), opts),
			Type: column.DatabaseTypeName(),
		}
	}

	limit := maxRows(opts, repo.config.MaxRows)
	for rows.Next() {
		if len(result.Rows) >= limit {
			result.Truncated = true
			break
		}

		values := make([]any, len(columnTypes))
		pointers := make([]any, len(columnTypes))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return models.QueryResult{}, errors.Wrap(err, "could not scan duckdb row")
		}

		for i, value := range values {
			values[i] = adaptDuckDbValue(value, result.Columns[i].Type)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return models.QueryResult{}, errors.Wrap(err, "error while reading duckdb rows")
	}

	return result, nil
}

func (repo *DuckDbWarehouseRepository) GetTableSchema(ctx context.Context, tableRef string) (models.TableSchema, error) {
	db, err := repo.executor()
	if err != nil {
		return models.TableSchema{}, err
	}

	ref, err := models.ParseTableRef(tableRef)
	if err != nil {
		return models.TableSchema{}, err
	}

	query, args, err := squirrel.
		Select("column_name", "data_type", "is_nullable", "coalesce(column_comment, '')").
		From("information_schema.columns").
		Where(squirrel.Eq{"table_schema": ref.Dataset, "table_name": ref.Table}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return models.TableSchema{}, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.TableSchema{}, errors.Wrapf(err, "could not read schema of table %s", ref.String())
	}
	defer rows.Close()

	schema := models.TableSchema{TableId: ref.String(), Fields: make([]models.FieldSchema, 0)}
	for rows.Next() {
		var field models.FieldSchema
		var nullable string
		if err := rows.Scan(&field.Name, &field.Type, &nullable, &field.Description); err != nil {
			return models.TableSchema{}, errors.Wrap(err, "could not scan column")
		}
		field.Mode = "NULLABLE"
		if nullable == "NO" {
			field.Mode = "REQUIRED"
		}
		schema.Fields = append(schema.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return models.TableSchema{}, err
	}
	if len(schema.Fields) == 0 {
		return models.TableSchema{}, errors.Wrapf(models.NotFoundError, "table %s does not exist", ref.String())
	}

	commentQuery, args, err := squirrel.
		Select("coalesce(comment, '')").
		From("duckdb_tables()").
		Where(squirrel.Eq{"schema_name": ref.Dataset, "table_name": ref.Table}).
		ToSql()
	if err != nil {
		return models.TableSchema{}, err
	}
	if err := db.QueryRowContext(ctx, commentQuery, args...).Scan(&schema.Description); err != nil &&
		!errors.Is(err, sql.ErrNoRows) {
		return models.TableSchema{}, errors.Wrapf(err, "could not read comment of table %s", ref.String())
	}

	return schema, nil
}

func (repo *DuckDbWarehouseRepository) ListTables(ctx context.Context, dataset string) ([]string, error) {
	db, err := repo.executor()
	if err != nil {
		return nil, err
	}
	if dataset == "" {
		dataset = repo.config.DataDataset
	}

	query, args, err := squirrel.
		Select("table_schema", "table_name").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": dataset}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list tables of dataset %s", dataset)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, err
		}
		tables = append(tables, schema+"."+table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Sort(tables)

	return tables, nil
}

func (repo *DuckDbWarehouseRepository) Ping(ctx context.Context) error {
	db, err := repo.executor()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func adaptDuckDbValue(value any, databaseType string) any {
	if t, ok := value.(time.Time); ok {
		switch databaseType {
		case "DATE":
			return t.Format(time.DateOnly)
		case "TIME":
			return t.Format(time.TimeOnly)
		}
		return t
	}
	return normalizeValue(value)
}
