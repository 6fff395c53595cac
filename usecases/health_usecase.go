package usecases

import (
	"context"
	"time"

	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/utils"
)

const HEALTH_CHECK_TIMEOUT = 5 * time.Second

type healthWarehouseRepository interface {
	Ping(ctx context.Context) error
}

type healthLlmRepository interface {
	IsConfigured() bool
}

type HealthUsecase struct {
	warehouseRepository healthWarehouseRepository
	llmRepository       healthLlmRepository
}

func (u *HealthUsecase) GetHealthStatus(ctx context.Context) models.HealthStatus {
	statuses := []models.HealthItemStatus{}

	// Check warehouse health
	pingCtx, cancel := context.WithTimeout(ctx, HEALTH_CHECK_TIMEOUT)
	defer cancel()
	err := u.warehouseRepository.Ping(pingCtx)
	if err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "warehouse health check failed", "error", err.Error())
	}
	statuses = append(statuses, models.HealthItemStatus{
		Name:   models.WarehouseHealthItemName,
		Status: err == nil,
	})

	// Check LLM configuration
	statuses = append(statuses, models.HealthItemStatus{
		Name:   models.LlmHealthItemName,
		Status: u.llmRepository.IsConfigured(),
	})

	return models.HealthStatus{
		Statuses: statuses,
	}
}
