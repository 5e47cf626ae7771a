package entity

import "time"

// ProvisioningAttempt is the ledger entry of one pipeline run.
type ProvisioningAttempt struct {
	ID                string
	State             ProvisioningState
	FailedStage       string
	FailureKind       string
	FailureMessage    string
	CustomerID        string
	PaymentSourceID   string
	SetupIntentID     string
	SetupIntentStatus string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrphanedCustomer reports a failed run that left a processor customer behind.
func (a *ProvisioningAttempt) OrphanedCustomer() bool {
	return a.State == StateFailed && a.CustomerID != ""
}
