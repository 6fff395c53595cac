package models

// HealthComponent names a dependency reported by the health endpoint.
type HealthComponent string

const (
	WarehouseHealthItemName HealthComponent = "warehouse"
	LlmHealthItemName       HealthComponent = "llm"
)

type HealthItemStatus struct {
	Name   HealthComponent
	Status bool
}

type HealthStatus struct {
	Statuses []HealthItemStatus
}

// Unhealthy lists the failing components, in check order.
func (h HealthStatus) Unhealthy() []HealthComponent {
	failing := make([]HealthComponent, 0)
	for _, item := range h.Statuses {
		if !item.Status {
			failing = append(failing, item.Name)
		}
	}
	return failing
}

func (h HealthStatus) IsHealthy() bool {
	return len(h.Unhealthy()) == 0
}
