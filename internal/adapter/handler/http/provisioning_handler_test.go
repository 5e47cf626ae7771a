package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpHandler "github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/repository"
	httpServer "github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-payment-method/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
)

const jwtSecret = "gateway-secret"

// stubProcessor returns fixed results for each stage.
type stubProcessor struct {
	attachErr error
	card      map[string]interface{}
}

func (p *stubProcessor) CreateCustomer(ctx context.Context, profile map[string]interface{}) (*entity.CustomerRecord, error) {
	return &entity.CustomerRecord{ID: "cus_1"}, nil
}

func (p *stubProcessor) AttachCard(ctx context.Context, customerID string, card map[string]interface{}) (*entity.PaymentSourceRecord, error) {
	p.card = card
	if p.attachErr != nil {
		return nil, p.attachErr
	}
	return &entity.PaymentSourceRecord{ID: "src_1"}, nil
}

func (p *stubProcessor) ConfirmSetupIntent(ctx context.Context, customerID, paymentMethodID string) (*entity.SetupConfirmation, error) {
	return &entity.SetupConfirmation{ID: "seti_1", Status: "succeeded"}, nil
}

func (p *stubProcessor) GetProviderName() string { return "stub" }

// memoryLedger is an in-memory attempt ledger.
type memoryLedger struct {
	attempts map[string]entity.ProvisioningAttempt
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{attempts: map[string]entity.ProvisioningAttempt{}}
}

func (l *memoryLedger) Create(ctx context.Context, a *entity.ProvisioningAttempt) error {
	l.attempts[a.ID] = *a
	return nil
}

func (l *memoryLedger) Update(ctx context.Context, a *entity.ProvisioningAttempt) error {
	return l.Create(ctx, a)
}

func (l *memoryLedger) GetByID(ctx context.Context, id string) (*entity.ProvisioningAttempt, error) {
	a, ok := l.attempts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (l *memoryLedger) ListOrphanedCustomers(ctx context.Context, limit int) ([]*entity.ProvisioningAttempt, error) {
	var out []*entity.ProvisioningAttempt
	for _, a := range l.attempts {
		if a.OrphanedCustomer() {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func newGateway(processor *stubProcessor, ledger repository.ProvisioningAttemptRepository) *echo.Echo {
	logger := zap.NewNop()
	uc := usecase.NewProvisioningUsecase(processor, ledger, nil, 5*time.Second, logger)
	h := httpHandler.NewProvisioningHandler(uc, logger)

	srv := httpServer.NewServer(httpServer.WithLogger(logger))
	srv.RegisterRoutes(func(e *echo.Echo) {
		v1 := e.Group("/api/v1", auth.JWTMiddleware(auth.JWTConfig{Secret: jwtSecret, Logger: logger}))
		h.RegisterRoutes(v1)
	})
	return srv.GetEcho()
}

func bearer() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, _ := token.SignedString([]byte(jwtSecret))
	return "Bearer " + s
}

func doRequest(e *echo.Echo, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorized {
		req.Header.Set("Authorization", bearer())
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const adaBody = `{"name":"Ada","customer":{"email":"ada@example.com"},"card":{"number":"4242424242424242","exp_month":12,"exp_year":2030}}`

func TestProvisioningHandler_Provision(t *testing.T) {
	tests := []struct {
		name           string
		processor      *stubProcessor
		body           string
		authorized     bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "successful provisioning",
			processor:      &stubProcessor{},
			body:           adaBody,
			authorized:     true,
			expectedStatus: http.StatusCreated,
			expectedBody:   `"customer_id":"cus_1"`,
		},
		{
			name:           "missing token",
			processor:      &stubProcessor{},
			body:           adaBody,
			authorized:     false,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "MISSING_AUTH_HEADER",
		},
		{
			name:           "malformed body",
			processor:      &stubProcessor{},
			body:           `{"name":`,
			authorized:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "card without number",
			processor:      &stubProcessor{},
			body:           `{"name":"Ada","customer":{"email":"ada@example.com"},"card":{"exp_month":12}}`,
			authorized:     true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "card",
		},
		{
			name: "declined card",
			processor: &stubProcessor{
				attachErr: domainErrors.NewProcessorError(domainErrors.StageAttachSource, 402, "card_declined", "Your card was declined.", nil),
			},
			body:           adaBody,
			authorized:     true,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "stage 2 (attach_source) failed",
		},
		{
			name: "processor unreachable",
			processor: &stubProcessor{
				attachErr: domainErrors.NewTransportError(domainErrors.StageAttachSource, context.DeadlineExceeded),
			},
			body:           adaBody,
			authorized:     true,
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   "TRANSPORT_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newGateway(tt.processor, nil)

			rec := doRequest(e, http.MethodPost, "/api/v1/payment-methods", tt.body, tt.authorized)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestProvisioningHandler_NumericCardNumber(t *testing.T) {
	processor := &stubProcessor{}
	e := newGateway(processor, nil)

	rec := doRequest(e, http.MethodPost, "/api/v1/payment-methods",
		`{"name":"","customer":{},"card":{"number":6011000990139424123,"exp_month":12}}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, json.Number("6011000990139424123"), processor.card["number"])
	assert.Equal(t, json.Number("12"), processor.card["exp_month"])
}

func TestProvisioningHandler_Attempts(t *testing.T) {
	ledger := newMemoryLedger()
	e := newGateway(&stubProcessor{
		attachErr: domainErrors.NewProcessorError(domainErrors.StageAttachSource, 402, "card_declined", "", nil),
	}, ledger)

	rec := doRequest(e, http.MethodPost, "/api/v1/payment-methods", adaBody, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, ledger.attempts, 1)

	var attemptID string
	for id := range ledger.attempts {
		attemptID = id
	}

	t.Run("get attempt", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/provisioning-attempts/"+attemptID, "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "failed", body["state"])
		assert.Equal(t, "attach_source", body["failed_stage"])
		assert.Equal(t, true, body["orphaned_customer"])
	})

	t.Run("unknown attempt", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/provisioning-attempts/nope", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list orphaned customers", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/provisioning-attempts/orphaned?limit=10", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
		assert.Contains(t, rec.Body.String(), `"customer_id":"cus_1"`)
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/provisioning-attempts/orphaned?limit=x", "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProvisioningHandler_LedgerDisabled(t *testing.T) {
	e := newGateway(&stubProcessor{}, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/provisioning-attempts/orphaned", "", true)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestServer_Health(t *testing.T) {
	e := newGateway(&stubProcessor{}, nil)

	rec := doRequest(e, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
