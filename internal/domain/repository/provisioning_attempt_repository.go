package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
)

// ProvisioningAttemptRepository records pipeline progress. It never stores card data.
type ProvisioningAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.ProvisioningAttempt) error
	Update(ctx context.Context, attempt *entity.ProvisioningAttempt) error
	GetByID(ctx context.Context, id string) (*entity.ProvisioningAttempt, error)
	ListOrphanedCustomers(ctx context.Context, limit int) ([]*entity.ProvisioningAttempt, error)
}
