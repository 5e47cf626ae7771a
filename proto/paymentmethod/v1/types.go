// Package paymentmethodv1 defines the PaymentMethodService RPC contract.
// Messages travel as JSON (content-subtype "json").
package paymentmethodv1

// ProvisionPaymentMethodRequest carries the caller name and the raw processor
// profile fields for the customer and the card.
type ProvisionPaymentMethodRequest struct {
	Name     string                 `json:"name" yaml:"name"`
	Customer map[string]interface{} `json:"customer" yaml:"customer"`
	Card     map[string]interface{} `json:"card" yaml:"card"`
}

// ProvisionPaymentMethodReply reports the provisioned payment method.
type ProvisionPaymentMethodReply struct {
	Message           string `json:"message"`
	CustomerID        string `json:"customer_id,omitempty"`
	PaymentMethodID   string `json:"payment_method_id,omitempty"`
	SetupIntentID     string `json:"setup_intent_id,omitempty"`
	SetupIntentStatus string `json:"setup_intent_status,omitempty"`
}
