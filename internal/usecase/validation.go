package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
)

// newRequestValidator builds a validator that reports json field names and
// knows the card_number rule used by ProvisioningRequest.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// card_number requires a non-empty "number" entry in a card field map.
	_ = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		card, ok := fl.Field().Interface().(map[string]interface{})
		if !ok {
			return false
		}
		switch number := card["number"].(type) {
		case string:
			return strings.TrimSpace(number) != ""
		case json.Number:
			return number.String() != ""
		default:
			return false
		}
	})

	return v
}

// toValidationError converts validator output into the domain error.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domainErrors.ValidationError{Field: "request", Message: err.Error()}
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = "must not be empty"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "card_number":
		msg = "must contain a card number"
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &domainErrors.ValidationError{Field: fe.Field(), Message: msg}
}
