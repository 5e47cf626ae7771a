package provider

import (
	"context"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
)

// PaymentProcessor is the external payment API used by the provisioning pipeline.
// Implementations must be safe for concurrent use and must return
// *errors.ProvisioningError values attributed to the failing stage.
type PaymentProcessor interface {
	// CreateCustomer creates a customer from profile fields and returns its id.
	CreateCustomer(ctx context.Context, profile map[string]interface{}) (*entity.CustomerRecord, error)

	// AttachCard attaches card fields as a payment source of customerID.
	AttachCard(ctx context.Context, customerID string, card map[string]interface{}) (*entity.PaymentSourceRecord, error)

	// ConfirmSetupIntent creates and confirms a setup intent for off-session use.
	ConfirmSetupIntent(ctx context.Context, customerID, paymentMethodID string) (*entity.SetupConfirmation, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)

// AcceptedPaymentMethodTypes is sent with every setup intent confirmation.
var AcceptedPaymentMethodTypes = []string{"card"}

// CardSourceObject is the discriminator injected into every attached card payload.
const CardSourceObject = "card"
