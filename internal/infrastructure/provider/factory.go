package provider

import (
	"fmt"

	"github.com/wekeepgrowing/semo-payment-method/internal/config"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/provider"
	stripeProvider "github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/provider/stripe"
	"go.uber.org/zap"
)

// Factory creates payment processors based on the provider type
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetProcessor returns a payment processor based on the provider type
func (f *Factory) GetProcessor(providerType provider.ProviderType) (provider.PaymentProcessor, error) {
	switch providerType {
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetProcessorFromString returns a payment processor from a string type
func (f *Factory) GetProcessorFromString(providerStr string) (provider.PaymentProcessor, error) {
	// Default to Stripe if not specified
	if providerStr == "" {
		providerStr = string(provider.ProviderTypeStripe)
	}

	return f.GetProcessor(provider.ProviderType(providerStr))
}

// createStripeProvider creates a new Stripe provider instance
func (f *Factory) createStripeProvider() (provider.PaymentProcessor, error) {
	p, err := stripeProvider.NewStripeProvider(stripeProvider.Config{
		SecretKey:   f.config.Stripe.SecretKey.Reveal(),
		APIURL:      f.config.Stripe.APIURL,
		CallTimeout: f.config.Stripe.CallTimeout,
		TLSCAFile:   f.config.Stripe.TLSCAFile,
	}, f.logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
