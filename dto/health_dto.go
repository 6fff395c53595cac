package dto

import (
	"github.com/trilytx/trilytx-backend/models"
	"github.com/trilytx/trilytx-backend/pure_utils"
)

type HealthStatusResponse struct {
	Status []HealthItemStatusResponse `json:"status"`
}

type HealthItemStatusResponse struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
}

func AdaptHealthItemStatus(status models.HealthItemStatus) HealthItemStatusResponse {
	return HealthItemStatusResponse{
		Name:    string(status.Name),
		Healthy: status.Status,
	}
}

func AdaptHealthStatus(status models.HealthStatus) HealthStatusResponse {
	return HealthStatusResponse{
		Status: pure_utils.Map(status.Statuses, AdaptHealthItemStatus),
	}
}
