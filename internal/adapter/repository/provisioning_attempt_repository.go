package repository

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/model"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/repository"
)

const maxFailureMessageLength = 500

// truncateMessage cuts s to at most limit bytes without splitting a rune.
func truncateMessage(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type provisioningAttemptRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProvisioningAttemptRepository creates a gorm-backed attempt ledger
func NewProvisioningAttemptRepository(db *gorm.DB, logger *zap.Logger) repository.ProvisioningAttemptRepository {
	return &provisioningAttemptRepository{
		db:     db,
		logger: logger,
	}
}

// modelToEntity converts a model.ProvisioningAttempt to entity.ProvisioningAttempt
func modelToEntity(m *model.ProvisioningAttempt) *entity.ProvisioningAttempt {
	if m == nil {
		return nil
	}
	return &entity.ProvisioningAttempt{
		ID:                m.ID.String(),
		State:             entity.ProvisioningState(m.State),
		FailedStage:       m.FailedStage,
		FailureKind:       m.FailureKind,
		FailureMessage:    m.FailureMessage,
		CustomerID:        m.CustomerID,
		PaymentSourceID:   m.PaymentSourceID,
		SetupIntentID:     m.SetupIntentID,
		SetupIntentStatus: m.SetupIntentStatus,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// entityToModel converts an entity.ProvisioningAttempt to model.ProvisioningAttempt
func entityToModel(e *entity.ProvisioningAttempt) (*model.ProvisioningAttempt, error) {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid attempt id %q: %w", e.ID, err)
	}

	return &model.ProvisioningAttempt{
		ID:                id,
		State:             string(e.State),
		FailedStage:       e.FailedStage,
		FailureKind:       e.FailureKind,
		FailureMessage:    truncateMessage(e.FailureMessage, maxFailureMessageLength),
		CustomerID:        e.CustomerID,
		PaymentSourceID:   e.PaymentSourceID,
		SetupIntentID:     e.SetupIntentID,
		SetupIntentStatus: e.SetupIntentStatus,
		OrphanedCustomer:  e.OrphanedCustomer(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}, nil
}

func (r *provisioningAttemptRepository) Create(ctx context.Context, attempt *entity.ProvisioningAttempt) error {
	m, err := entityToModel(attempt)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create provisioning attempt: %w", err)
	}
	return nil
}

func (r *provisioningAttemptRepository) Update(ctx context.Context, attempt *entity.ProvisioningAttempt) error {
	m, err := entityToModel(attempt)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&model.ProvisioningAttempt{}).
		Where("id = ?", m.ID).
		Select("state", "failed_stage", "failure_kind", "failure_message", "customer_id",
			"payment_source_id", "setup_intent_id", "setup_intent_status", "orphaned_customer", "updated_at").
		Updates(m)
	if result.Error != nil {
		return fmt.Errorf("failed to update provisioning attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Debug("Provisioning attempt not found for update, creating it",
			zap.String("attempt_id", attempt.ID))
		return r.Create(ctx, attempt)
	}
	return nil
}

func (r *provisioningAttemptRepository) GetByID(ctx context.Context, id string) (*entity.ProvisioningAttempt, error) {
	attemptID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var m model.ProvisioningAttempt
	err = r.db.WithContext(ctx).Where("id = ?", attemptID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return modelToEntity(&m), nil
}

func (r *provisioningAttemptRepository) ListOrphanedCustomers(ctx context.Context, limit int) ([]*entity.ProvisioningAttempt, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []model.ProvisioningAttempt
	err := r.db.WithContext(ctx).
		Where("orphaned_customer = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*entity.ProvisioningAttempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, modelToEntity(&rows[i]))
	}
	return attempts, nil
}
