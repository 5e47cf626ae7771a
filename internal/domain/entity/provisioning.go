package entity

import "time"

// ProvisioningRequest is the caller input for one provisioning run.
// Customer and Card hold processor profile fields as decoded from the wire.
// An empty name or an empty customer profile is allowed.
type ProvisioningRequest struct {
	Name     string                 `json:"name" validate:"max=200"`
	Customer map[string]interface{} `json:"customer" validate:"required"`
	Card     map[string]interface{} `json:"card" validate:"required,min=1,card_number"`
}

// Clone returns a deep copy so later stages cannot observe caller mutations.
func (r *ProvisioningRequest) Clone() *ProvisioningRequest {
	return &ProvisioningRequest{
		Name:     r.Name,
		Customer: cloneMap(r.Customer),
		Card:     cloneMap(r.Card),
	}
}

// FieldNames returns the keys of m, for logging without values.
func FieldNames(m map[string]interface{}) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return names
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// CustomerRecord is the processor customer created by stage 1.
type CustomerRecord struct {
	ID string
}

// PaymentSourceRecord is the tokenized card attached by stage 2.
type PaymentSourceRecord struct {
	ID    string
	Brand string
	Last4 string
}

// SetupConfirmation is the confirmed setup intent returned by stage 3.
type SetupConfirmation struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Usage           string `json:"usage,omitempty"`
	CustomerID      string `json:"customer_id,omitempty"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

// ProvisioningState is a node of the pipeline state machine.
type ProvisioningState string

const (
	StateStart           ProvisioningState = "start"
	StateCustomerCreated ProvisioningState = "customer_created"
	StateSourceAttached  ProvisioningState = "source_attached"
	StateSetupConfirmed  ProvisioningState = "setup_confirmed"
	StateFailed          ProvisioningState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s ProvisioningState) Terminal() bool {
	return s == StateSetupConfirmed || s == StateFailed
}

// ProvisioningResult is the successful outcome of a pipeline run.
type ProvisioningResult struct {
	AttemptID       string
	CustomerID      string
	PaymentSourceID string
	Confirmation    SetupConfirmation
	State           ProvisioningState
	CompletedAt     time.Time
}
