package stripe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/form"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/provider"
)

const defaultCallTimeout = 10 * time.Second

// Config configures the Stripe provider
type Config struct {
	SecretKey   string
	APIURL      string // empty means the public Stripe API
	CallTimeout time.Duration
	TLSCAFile   string

	// HTTPClient overrides the TLS client built from TLSCAFile.
	HTTPClient *http.Client
}

// StripeProvider implements provider.PaymentProcessor on the Stripe REST API.
// One instance is shared by all in-flight requests.
type StripeProvider struct {
	backend     stripe.Backend
	secretKey   string
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewStripeProvider creates a new Stripe provider. Network retries are
// disabled: a failed call fails its pipeline stage.
func NewStripeProvider(cfg Config, logger *zap.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, domainErrors.NewConfigurationError("stripe.secret_key", "processor secret key is not configured", nil)
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = newHTTPClient(cfg.TLSCAFile, cfg.CallTimeout)
		if err != nil {
			return nil, err
		}
	}
	p := &StripeProvider{
		secretKey:   cfg.SecretKey,
		callTimeout: cfg.CallTimeout,
		logger:      logger,
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        withExchangeRecorder(httpClient),
		LeveledLogger:     newLeveledLogger(logger, p.scrub),
		MaxNetworkRetries: stripe.Int64(0),
		EnableTelemetry:   stripe.Bool(false),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}
	p.backend = stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	return p, nil
}

// newHTTPClient builds the outbound client: TLS 1.2+, optional private CA bundle.
func newHTTPClient(caFile string, timeout time.Duration) (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, domainErrors.NewConfigurationError("stripe.tls_ca_file", "CA bundle is not readable", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, domainErrors.NewConfigurationError("stripe.tls_ca_file", "CA bundle contains no certificates", nil)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	transport.MaxIdleConnsPerHost = 32

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// CreateCustomer creates a Stripe customer.
// POST /v1/customers
func (s *StripeProvider) CreateCustomer(ctx context.Context, profile map[string]interface{}) (*entity.CustomerRecord, error) {
	params := customerParams(profile)

	var resp customerCreated
	err := s.call(ctx, domainErrors.StageCreateCustomer, &params.Params, func() error {
		return s.backend.Call(http.MethodPost, "/v1/customers", s.secretKey, params, &resp)
	})
	if err != nil {
		return nil, err
	}

	return &entity.CustomerRecord{ID: resp.ID}, nil
}

// AttachCard creates a card source on the customer. The card fields are sent
// under the "source" envelope with source[object]=card.
// POST /v1/customers/{customer}/sources
func (s *StripeProvider) AttachCard(ctx context.Context, customerID string, card map[string]interface{}) (*entity.PaymentSourceRecord, error) {
	body := cardSourceForm(card)
	params := &stripe.Params{}
	path := stripe.FormatURLPath("/v1/customers/%s/sources", customerID)

	var resp sourceCreated
	err := s.call(ctx, domainErrors.StageAttachSource, params, func() error {
		return s.backend.CallRaw(http.MethodPost, path, s.secretKey, body, params, &resp)
	})
	if err != nil {
		return nil, err
	}

	return &entity.PaymentSourceRecord{ID: resp.ID, Brand: resp.Brand, Last4: resp.Last4}, nil
}

// ConfirmSetupIntent creates a setup intent with confirm=true for card payments.
// POST /v1/setup_intents
func (s *StripeProvider) ConfirmSetupIntent(ctx context.Context, customerID, paymentMethodID string) (*entity.SetupConfirmation, error) {
	params := &stripe.SetupIntentParams{
		Confirm:            stripe.Bool(true),
		Customer:           stripe.String(customerID),
		PaymentMethod:      stripe.String(paymentMethodID),
		PaymentMethodTypes: stripe.StringSlice(provider.AcceptedPaymentMethodTypes),
	}

	var resp setupIntentConfirmed
	err := s.call(ctx, domainErrors.StageConfirmSetupIntent, &params.Params, func() error {
		return s.backend.Call(http.MethodPost, "/v1/setup_intents", s.secretKey, params, &resp)
	})
	if err != nil {
		return nil, err
	}

	confirmation := &entity.SetupConfirmation{
		ID:              resp.ID,
		Status:          resp.Status,
		Usage:           resp.Usage,
		CustomerID:      resp.Customer,
		PaymentMethodID: resp.PaymentMethod,
	}
	if confirmation.CustomerID == "" {
		confirmation.CustomerID = customerID
	}
	if confirmation.PaymentMethodID == "" {
		confirmation.PaymentMethodID = paymentMethodID
	}
	return confirmation, nil
}

// call runs one processor request under the per-call timeout and turns any
// failure into a ProvisioningError for stage.
func (s *StripeProvider) call(ctx context.Context, stage domainErrors.Stage, params *stripe.Params, do func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	ex := &exchange{}
	params.Context = withExchange(ctx, ex)

	err := do()
	if err == nil {
		return nil
	}
	return s.classify(ctx, stage, ex, err)
}

func (s *StripeProvider) classify(ctx context.Context, stage domainErrors.Stage, ex *exchange, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domainErrors.NewTransportError(stage, ctxErr)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		status := stripeErr.HTTPStatusCode
		if status == 0 {
			status, _ = ex.result()
		}
		code := string(stripeErr.Code)
		if code == "" {
			code = string(stripeErr.Type)
		}
		msg := stripeErr.Msg
		if msg == "" {
			msg = fmt.Sprintf("payment processor answered with status %d", status)
		}
		return domainErrors.NewProcessorError(stage, status, code, s.scrub(msg), nil)
	}

	status, responded := ex.result()
	switch {
	case !responded:
		return domainErrors.NewTransportError(stage, s.scrubError(err))
	case status < 200 || status > 299:
		return domainErrors.NewProcessorError(stage, status, "",
			fmt.Sprintf("payment processor answered with status %d", status), s.scrubError(err))
	default:
		return domainErrors.NewMalformedResponseError(stage, "response is not a usable JSON object", s.scrubError(err))
	}
}

// scrub removes the secret key from text that may reach logs or callers.
func (s *StripeProvider) scrub(msg string) string {
	return strings.ReplaceAll(msg, s.secretKey, "[REDACTED]")
}

func (s *StripeProvider) scrubError(err error) error {
	return &scrubbedError{msg: s.scrub(err.Error()), err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

// customerParams maps profile fields onto CustomerParams; unknown fields are
// forwarded as form-encoded extras.
func customerParams(profile map[string]interface{}) *stripe.CustomerParams {
	params := &stripe.CustomerParams{}

	for _, key := range sortedKeys(profile) {
		value := profile[key]
		switch key {
		case "email":
			params.Email = stripe.String(scalarString(value))
		case "name":
			params.Name = stripe.String(scalarString(value))
		case "phone":
			params.Phone = stripe.String(scalarString(value))
		case "description":
			params.Description = stripe.String(scalarString(value))
		case "metadata":
			if md, ok := value.(map[string]interface{}); ok {
				for _, mk := range sortedKeys(md) {
					params.AddMetadata(mk, scalarString(md[mk]))
				}
				continue
			}
			fallthrough
		default:
			flattenFields(key, value, params.AddExtra)
		}
	}

	return params
}

// cardSourceForm encodes card fields under source[...] and always sets
// source[object]=card, ignoring any caller supplied "object".
func cardSourceForm(card map[string]interface{}) *form.Values {
	body := &form.Values{}
	body.Add("source[object]", provider.CardSourceObject)

	for _, key := range sortedKeys(card) {
		if key == "object" {
			continue
		}
		flattenFields("source["+key+"]", card[key], body.Add)
	}
	return body
}
