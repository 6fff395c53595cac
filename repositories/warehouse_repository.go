package repositories

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/pure_utils"
)

const (
	DEFAULT_QUERY_TIMEOUT = 180 * time.Second
	DEFAULT_MAX_ROWS      = 10000
)

// WarehouseRepository runs read-only analytical queries against the retail warehouse.
type WarehouseRepository interface {
	RunQuery(ctx context.Context, sql string, opts models.QueryOptions) (models.QueryResult, error)
	QualifiedTableName(table string) string
	GetTableSchema(ctx context.Context, tableRef string) (models.TableSchema, error)
	ListTables(ctx context.Context, dataset string) ([]string, error)
	Ping(ctx context.Context) error
}

func queryTimeout(opts models.QueryOptions, fallback time.Duration) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	if fallback > 0 {
		return fallback
	}
	return DEFAULT_QUERY_TIMEOUT
}

func maxRows(opts models.QueryOptions, fallback int) int {
	if opts.MaxRows > 0 {
		return opts.MaxRows
	}
	if fallback > 0 {
		return fallback
	}
	return DEFAULT_MAX_ROWS
}

func columnName(name string, opts models.QueryOptions) string {
	if opts.ToSnakeCase {
		return pure_utils.ToSnakeCase(name)
	}
	return name
}

type floatValuer interface {
	Float64() float64
}

// normalizeValue converts driver specific values into JSON and CSV friendly values:
// civil dates and times become ISO strings, numerics become float64, bytes become strings.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool, int64, int32, int, float64, time.Time:
		return v
	case float32:
		return float64(v)
	case []byte:
		return string(v)
	case *big.Rat:
		if v == nil {
			return nil
		}
		f, _ := v.Float64()
		return f
	case *big.Int:
		if v == nil {
			return nil
		}
		if v.IsInt64() {
			return v.Int64()
		}
		return v.String()
	case []any:
		values := make([]any, len(v))
		for i, item := range v {
			values[i] = normalizeValue(item)
		}
		return values
	case map[string]any:
		values := make(map[string]any, len(v))
		for key, item := range v {
			values[key] = normalizeValue(item)
		}
		return values
	case floatValuer:
		return v.Float64()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}
