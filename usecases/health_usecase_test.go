package usecases

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/mocks"
	"github.com/trilytx/trilytx-backend/models"
)

func TestGetHealthStatus(t *testing.T) {
	tests := []struct {
		name          string
		pingErr       error
		llmConfigured bool
		healthy       bool
	}{
		{"all good", nil, true, true},
		{"warehouse down", errors.New("connection refused"), true, false},
		{"llm not configured", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warehouse := new(mocks.WarehouseRepository)
			llm := new(mocks.LlmRepository)
			warehouse.On("Ping", mock.Anything).Return(tt.pingErr)
			llm.On("IsConfigured").Return(tt.llmConfigured)

			uc := HealthUsecase{warehouseRepository: warehouse, llmRepository: llm}
			status := uc.GetHealthStatus(context.Background())

			assert.Equal(t, tt.healthy, status.IsHealthy())
			assert.Equal(t, []models.HealthItemStatus{
				{Name: models.WarehouseHealthItemName, Status: tt.pingErr == nil},
				{Name: models.LlmHealthItemName, Status: tt.llmConfigured},
			}, status.Statuses)
			warehouse.AssertExpectations(t)
			llm.AssertExpectations(t)
		})
	}
}
