package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) GetCatalog(ctx context.Context) (models.Catalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Catalog), args.Error(1)
}
