package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler"
	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/semo-payment-method/pkg/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
		expectedHTTP int
		expectedGRPC codes.Code
		message      string
	}{
		{
			name:         "validation",
			err:          &domainErrors.ValidationError{Field: "card", Message: "must contain a card number"},
			expectedCode: pkgErrors.ErrInvalidArgument,
			expectedHTTP: http.StatusBadRequest,
			expectedGRPC: codes.InvalidArgument,
			message:      "invalid request: card: must contain a card number",
		},
		{
			name:         "unreachable processor",
			err:          domainErrors.NewTransportError(domainErrors.StageCreateCustomer, errors.New("connection refused")),
			expectedCode: pkgErrors.ErrUnavailable,
			expectedHTTP: http.StatusServiceUnavailable,
			expectedGRPC: codes.Unavailable,
			message:      "stage 1 (create_customer) failed: TRANSPORT_ERROR: payment processor is unreachable",
		},
		{
			name:         "stage deadline",
			err:          domainErrors.NewTransportError(domainErrors.StageConfirmSetupIntent, context.DeadlineExceeded),
			expectedCode: pkgErrors.ErrTimeout,
			expectedHTTP: http.StatusGatewayTimeout,
			expectedGRPC: codes.DeadlineExceeded,
			message:      "stage 3 (confirm_setup_intent) failed: TRANSPORT_ERROR: payment processor is unreachable",
		},
		{
			name:         "caller canceled",
			err:          domainErrors.NewTransportError(domainErrors.StageAttachSource, context.Canceled),
			expectedCode: pkgErrors.ErrCanceled,
			expectedHTTP: pkgErrors.StatusClientClosedRequest,
			expectedGRPC: codes.Canceled,
			message:      "stage 2 (attach_source) failed: TRANSPORT_ERROR: payment processor is unreachable",
		},
		{
			name:         "declined card",
			err:          domainErrors.NewProcessorError(domainErrors.StageAttachSource, 402, "card_declined", "Your card was declined.", nil),
			expectedCode: pkgErrors.ErrProviderRejected,
			expectedHTTP: http.StatusUnprocessableEntity,
			expectedGRPC: codes.FailedPrecondition,
			message:      "stage 2 (attach_source) failed: PROCESSOR_ERROR: Your card was declined. (card_declined)",
		},
		{
			name:         "missing id",
			err:          domainErrors.NewMalformedResponseError(domainErrors.StageCreateCustomer, `response has no "id"`, nil),
			expectedCode: pkgErrors.ErrBadGateway,
			expectedHTTP: http.StatusBadGateway,
			expectedGRPC: codes.Internal,
			message:      `stage 1 (create_customer) failed: MALFORMED_RESPONSE: response has no "id"`,
		},
		{
			name:         "configuration",
			err:          domainErrors.NewConfigurationError("stripe.secret_key", "processor secret key is not configured", nil),
			expectedCode: pkgErrors.ErrMisconfigured,
			expectedHTTP: http.StatusInternalServerError,
			expectedGRPC: codes.FailedPrecondition,
			message:      "service is misconfigured",
		},
		{
			name:         "attempt not found",
			err:          usecase.ErrAttemptNotFound,
			expectedCode: pkgErrors.ErrNotFound,
			expectedHTTP: http.StatusNotFound,
			expectedGRPC: codes.NotFound,
			message:      "provisioning attempt not found",
		},
		{
			name:         "ledger disabled",
			err:          fmt.Errorf("list: %w", usecase.ErrLedgerDisabled),
			expectedCode: pkgErrors.ErrNotImplemented,
			expectedHTTP: http.StatusNotImplemented,
			expectedGRPC: codes.Unimplemented,
			message:      "list: provisioning ledger is disabled",
		},
		{
			name:         "unknown",
			err:          errors.New("boom"),
			expectedCode: pkgErrors.ErrInternal,
			expectedHTTP: http.StatusInternalServerError,
			expectedGRPC: codes.Internal,
			message:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := handler.ToAppError(tt.err)

			require.NotNil(t, appErr)
			assert.Equal(t, tt.expectedCode, appErr.Code())
			assert.Equal(t, tt.message, appErr.Message())
			assert.ErrorIs(t, appErr, tt.err)

			httpErr := pkgErrors.ToHTTPError(appErr)
			assert.Equal(t, tt.expectedHTTP, httpErr.Code)

			st, ok := status.FromError(pkgErrors.ToGRPCError(appErr))
			require.True(t, ok)
			assert.Equal(t, tt.expectedGRPC, st.Code())
		})
	}
}

func TestToAppError_HidesCause(t *testing.T) {
	err := domainErrors.NewTransportError(domainErrors.StageCreateCustomer,
		errors.New(`Post "https://api.stripe.com/v1/customers": dial tcp: lookup failed`))

	appErr := handler.ToAppError(err)

	assert.NotContains(t, appErr.Message(), "api.stripe.com")
	assert.Contains(t, appErr.Error(), "api.stripe.com")
}

func TestToAppError_Nil(t *testing.T) {
	assert.Nil(t, handler.ToAppError(nil))
}

func TestToAppError_KeepsAppError(t *testing.T) {
	original := pkgErrors.NewAppError(pkgErrors.ErrConflict, "already exists", nil)

	assert.Same(t, original, handler.ToAppError(original))
}
