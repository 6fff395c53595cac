package usecases

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trilytx/trilytx-backend/models"
)

const schemaFetchConcurrency = 4

type catalogRepository interface {
	GetCatalog(ctx context.Context) (models.Catalog, error)
}

type catalogWarehouseRepository interface {
	GetTableSchema(ctx context.Context, tableRef string) (models.TableSchema, error)
}

// CatalogUsecase exposes the tables the chatbot may query. Only catalog tables are visible.
type CatalogUsecase struct {
	catalogRepository   catalogRepository
	warehouseRepository catalogWarehouseRepository
	dataProject         string
	dataset             string
}

func (u CatalogUsecase) ListTables(ctx context.Context) ([]models.CatalogTable, error) {
	catalog, err := u.catalogRepository.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Tables, nil
}

func (u CatalogUsecase) ListExamples(ctx context.Context) ([]models.ExampleQuestion, error) {
	catalog, err := u.catalogRepository.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Examples, nil
}

func (u CatalogUsecase) GetTableSchema(ctx context.Context, tableName string) (models.TableSchema, error) {
	catalog, err := u.catalogRepository.GetCatalog(ctx)
	if err != nil {
		return models.TableSchema{}, err
	}
	if _, ok := catalog.FindTable(tableName); !ok {
		return models.TableSchema{}, errors.Wrapf(models.ErrUnknownTable, "table '%s'", tableName)
	}
	return u.getTableSchema(ctx, tableName)
}

// ListTableSchemas fetches the schema of every catalog table, in catalog order.
func (u CatalogUsecase) ListTableSchemas(ctx context.Context) ([]models.TableSchema, error) {
	catalog, err := u.catalogRepository.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	schemas := make([]models.TableSchema, len(catalog.Tables))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(schemaFetchConcurrency)
	for i, table := range catalog.Tables {
		group.Go(func() error {
			schema, err := u.getTableSchema(groupCtx, table.Name)
			if err != nil {
				return err
			}
			schemas[i] = schema
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}

func (u CatalogUsecase) getTableSchema(ctx context.Context, tableName string) (models.TableSchema, error) {
	ref := models.TableRef{Project: u.dataProject, Dataset: u.dataset, Table: tableName}
	schema, err := u.warehouseRepository.GetTableSchema(ctx, ref.String())
	if err != nil {
		return models.TableSchema{}, errors.Wrapf(err, "could not fetch schema of %s", ref)
	}
	return schema, nil
}
