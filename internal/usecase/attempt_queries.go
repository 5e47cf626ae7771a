package usecase

import (
	"context"
	"errors"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
)

var (
	ErrLedgerDisabled  = errors.New("provisioning ledger is disabled")
	ErrAttemptNotFound = errors.New("provisioning attempt not found")
)

const maxOrphanListLimit = 200

// GetAttempt returns the ledger entry of one provisioning run.
func (u *ProvisioningUsecase) GetAttempt(ctx context.Context, id string) (*entity.ProvisioningAttempt, error) {
	if u.attempts == nil {
		return nil, ErrLedgerDisabled
	}

	attempt, err := u.attempts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// ListOrphanedCustomers returns failed runs that left a customer at the
// processor, newest first, for manual cleanup.
func (u *ProvisioningUsecase) ListOrphanedCustomers(ctx context.Context, limit int) ([]*entity.ProvisioningAttempt, error) {
	if u.attempts == nil {
		return nil, ErrLedgerDisabled
	}
	if limit <= 0 || limit > maxOrphanListLimit {
		limit = maxOrphanListLimit
	}
	return u.attempts.ListOrphanedCustomers(ctx, limit)
}
