package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type WarehouseRepository struct {
	mock.Mock
}

func (m *WarehouseRepository) RunQuery(ctx context.Context, sql string, opts models.QueryOptions) (models.QueryResult, error) {
	args := m.Called(ctx, sql, opts)
	return args.Get(0).(models.QueryResult), args.Error(1)
}

// QualifiedTableName is not recorded, it renders "retail.<table>".
func (m *WarehouseRepository) QualifiedTableName(table string) string {
	return "retail." + table
}

func (m *WarehouseRepository) GetTableSchema(ctx context.Context, tableRef string) (models.TableSchema, error) {
	args := m.Called(ctx, tableRef)
	return args.Get(0).(models.TableSchema), args.Error(1)
}

func (m *WarehouseRepository) ListTables(ctx context.Context, dataset string) ([]string, error) {
	args := m.Called(ctx, dataset)
	return args.Get(0).([]string), args.Error(1)
}

func (m *WarehouseRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
