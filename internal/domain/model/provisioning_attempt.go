package model

import (
	"time"

	"github.com/google/uuid"
)

// ProvisioningAttempt is the ledger row of one provisioning run. It holds
// processor identifiers only, never card data.
type ProvisioningAttempt struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	State             string    `gorm:"size:32;not null;index" json:"state"`
	FailedStage       string    `gorm:"size:32" json:"failed_stage,omitempty"`
	FailureKind       string    `gorm:"size:32" json:"failure_kind,omitempty"`
	FailureMessage    string    `gorm:"size:500" json:"failure_message,omitempty"`
	CustomerID        string    `gorm:"column:customer_id;size:100;index" json:"customer_id,omitempty"`
	PaymentSourceID   string    `gorm:"column:payment_source_id;size:100" json:"payment_source_id,omitempty"`
	SetupIntentID     string    `gorm:"column:setup_intent_id;size:100" json:"setup_intent_id,omitempty"`
	SetupIntentStatus string    `gorm:"size:32" json:"setup_intent_status,omitempty"`
	OrphanedCustomer  bool      `gorm:"column:orphaned_customer;not null;default:false;index" json:"orphaned_customer"`
	CreatedAt         time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ProvisioningAttempt) TableName() string {
	return "provisioning_attempts"
}
