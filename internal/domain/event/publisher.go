package event

import (
	"context"
	"time"
)

const (
	TypePaymentMethodProvisioned = "payment_method.provisioned"
	TypeProvisioningFailed       = "payment_method.provisioning_failed"
)

// ProvisioningEvent is published after every pipeline run.
type ProvisioningEvent struct {
	Type            string    `json:"type"`
	AttemptID       string    `json:"attempt_id"`
	CustomerID      string    `json:"customer_id,omitempty"`
	PaymentSourceID string    `json:"payment_source_id,omitempty"`
	SetupIntentID   string    `json:"setup_intent_id,omitempty"`
	FailedStage     string    `json:"failed_stage,omitempty"`
	FailureKind     string    `json:"failure_kind,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher delivers provisioning events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt ProvisioningEvent) error
}
