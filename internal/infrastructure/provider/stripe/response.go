package stripe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/stripe/stripe-go/v79"
)

// Typed response schemas. Each decoder insists on a JSON object and checks the
// identifier it needs, so a bad body fails at the decoding boundary.

type customerCreated struct {
	stripe.APIResource
	ID string
}

func (r *customerCreated) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	r.ID, err = requiredString(fields, "id")
	return err
}

type sourceCreated struct {
	stripe.APIResource
	ID    string
	Brand string
	Last4 string
}

func (r *sourceCreated) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	if r.ID, err = requiredString(fields, "id"); err != nil {
		return err
	}
	r.Brand = optionalString(fields, "brand")
	r.Last4 = optionalString(fields, "last4")
	return nil
}

// setupIntentConfirmed only requires an object; its fields are informational.
type setupIntentConfirmed struct {
	stripe.APIResource
	ID            string
	Status        string
	Usage         string
	Customer      string
	PaymentMethod string
}

func (r *setupIntentConfirmed) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	r.ID = optionalString(fields, "id")
	r.Status = optionalString(fields, "status")
	r.Usage = optionalString(fields, "usage")
	r.Customer = optionalString(fields, "customer")
	r.PaymentMethod = optionalString(fields, "payment_method")
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("response body is not a JSON object")
	}
	return fields, nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("response field %q is missing", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("response field %q is not a string", key)
	}
	if s == "" {
		return "", fmt.Errorf("response field %q is empty", key)
	}
	return s, nil
}

func optionalString(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// flattenFields emits Stripe form keys for nested values: a[b], a[0], ...
func flattenFields(prefix string, value interface{}, emit func(key, value string)) {
	switch v := value.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			flattenFields(prefix+"["+k+"]", v[k], emit)
		}
	case []interface{}:
		for i, e := range v {
			flattenFields(prefix+"["+strconv.Itoa(i)+"]", e, emit)
		}
	default:
		emit(prefix, scalarString(v))
	}
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
