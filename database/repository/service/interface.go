package serviceRepo

import (
	"context"

	"appointo/models"
)

// ServiceRepository exposes a tenant's service catalogue.
type ServiceRepository interface {
	GetByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Service, error)
}
