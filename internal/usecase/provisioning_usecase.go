package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/event"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/provider"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/repository"
)

// ledgerTimeout bounds bookkeeping writes that outlive a cancelled request.
const ledgerTimeout = 5 * time.Second

// ProvisioningUsecase turns a (customer, card) request into a confirmed,
// reusable payment method: create customer, attach card, confirm setup intent.
type ProvisioningUsecase struct {
	processor provider.PaymentProcessor
	attempts  repository.ProvisioningAttemptRepository
	publisher event.Publisher
	validate  *validator.Validate
	deadline  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewProvisioningUsecase creates the pipeline. attempts and publisher are optional.
func NewProvisioningUsecase(
	processor provider.PaymentProcessor,
	attempts repository.ProvisioningAttemptRepository,
	publisher event.Publisher,
	deadline time.Duration,
	logger *zap.Logger,
) *ProvisioningUsecase {
	return &ProvisioningUsecase{
		processor: processor,
		attempts:  attempts,
		publisher: publisher,
		validate:  newRequestValidator(),
		deadline:  deadline,
		logger:    logger,
		now:       time.Now,
	}
}

// Provision runs the three stages in order. Stage N+1 only runs after stage N
// returned a non-empty identifier. Failures are returned as
// *errors.ProvisioningError naming the failing stage; invalid input is
// rejected with *errors.ValidationError before the processor is contacted.
func (u *ProvisioningUsecase) Provision(ctx context.Context, req *entity.ProvisioningRequest) (*entity.ProvisioningResult, error) {
	if req == nil {
		return nil, &domainErrors.ValidationError{Field: "request", Message: "is required"}
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	req = req.Clone()

	if u.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.deadline)
		defer cancel()
	}

	attempt := &entity.ProvisioningAttempt{
		ID:        uuid.NewString(),
		State:     entity.StateStart,
		CreatedAt: u.now(),
	}
	log := u.logger.With(zap.String("attempt_id", attempt.ID))
	log.Info("Provisioning payment method",
		zap.String("name", req.Name),
		zap.Strings("customer_fields", entity.FieldNames(req.Customer)),
		zap.Strings("card_fields", entity.FieldNames(req.Card)),
		zap.String("provider", u.processor.GetProviderName()),
	)
	u.recordStart(ctx, log, attempt)

	// Stage 1
	customer, err := u.processor.CreateCustomer(ctx, req.Customer)
	if err == nil && (customer == nil || customer.ID == "") {
		err = domainErrors.NewMalformedResponseError(domainErrors.StageCreateCustomer, `response has no "id"`, nil)
	}
	if err != nil {
		return nil, u.fail(ctx, log, attempt, domainErrors.StageCreateCustomer, err)
	}
	attempt.CustomerID = customer.ID
	u.advance(ctx, log, attempt, entity.StateCustomerCreated)
	log.Info("Customer created", zap.String("customer_id", customer.ID))

	// Stage 2
	source, err := u.processor.AttachCard(ctx, customer.ID, req.Card)
	if err == nil && (source == nil || source.ID == "") {
		err = domainErrors.NewMalformedResponseError(domainErrors.StageAttachSource, `response has no "id"`, nil)
	}
	if err != nil {
		return nil, u.fail(ctx, log, attempt, domainErrors.StageAttachSource, err)
	}
	attempt.PaymentSourceID = source.ID
	u.advance(ctx, log, attempt, entity.StateSourceAttached)
	log.Info("Payment source attached",
		zap.String("customer_id", customer.ID),
		zap.String("payment_source_id", source.ID),
		zap.String("card_brand", source.Brand),
	)

	// Stage 3
	confirmation, err := u.processor.ConfirmSetupIntent(ctx, customer.ID, source.ID)
	if err == nil && confirmation == nil {
		err = domainErrors.NewMalformedResponseError(domainErrors.StageConfirmSetupIntent, "empty response", nil)
	}
	if err != nil {
		return nil, u.fail(ctx, log, attempt, domainErrors.StageConfirmSetupIntent, err)
	}
	attempt.SetupIntentID = confirmation.ID
	attempt.SetupIntentStatus = confirmation.Status
	u.advance(ctx, log, attempt, entity.StateSetupConfirmed)
	log.Info("Setup intent confirmed",
		zap.String("setup_intent_id", confirmation.ID),
		zap.String("setup_intent_status", confirmation.Status),
	)

	result := &entity.ProvisioningResult{
		AttemptID:       attempt.ID,
		CustomerID:      customer.ID,
		PaymentSourceID: source.ID,
		Confirmation:    *confirmation,
		State:           entity.StateSetupConfirmed,
		CompletedAt:     u.now(),
	}

	u.publish(ctx, log, event.ProvisioningEvent{
		Type:            event.TypePaymentMethodProvisioned,
		AttemptID:       attempt.ID,
		CustomerID:      customer.ID,
		PaymentSourceID: source.ID,
		SetupIntentID:   confirmation.ID,
		OccurredAt:      result.CompletedAt,
	})

	return result, nil
}

// fail moves the attempt to Failed(stage, kind) and returns the typed error.
func (u *ProvisioningUsecase) fail(ctx context.Context, log *zap.Logger, attempt *entity.ProvisioningAttempt, stage domainErrors.Stage, err error) error {
	pe := classify(stage, err)

	attempt.FailedStage = pe.Stage.String()
	attempt.FailureKind = string(pe.Kind)
	attempt.FailureMessage = pe.Message
	u.advance(ctx, log, attempt, entity.StateFailed)

	fields := []zap.Field{
		zap.String("stage", pe.Stage.String()),
		zap.String("kind", string(pe.Kind)),
		zap.Error(pe),
	}
	if pe.HTTPStatus != 0 {
		fields = append(fields, zap.Int("processor_status", pe.HTTPStatus))
	}
	log.Error("Provisioning failed", fields...)

	// No compensation is attempted; the customer stays at the processor.
	if attempt.OrphanedCustomer() {
		log.Warn("Provisioning left an orphaned customer at the processor",
			zap.String("customer_id", attempt.CustomerID),
			zap.String("payment_source_id", attempt.PaymentSourceID),
		)
	}

	u.publish(ctx, log, event.ProvisioningEvent{
		Type:        event.TypeProvisioningFailed,
		AttemptID:   attempt.ID,
		CustomerID:  attempt.CustomerID,
		FailedStage: pe.Stage.String(),
		FailureKind: string(pe.Kind),
		OccurredAt:  u.now(),
	})

	return pe
}

// classify attributes err to stage, treating unknown errors as transport failures.
func classify(stage domainErrors.Stage, err error) *domainErrors.ProvisioningError {
	if pe, ok := domainErrors.AsProvisioningError(err); ok {
		if pe.Stage != stage {
			return pe.AtStage(stage)
		}
		return pe
	}
	var cfgErr *domainErrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &domainErrors.ProvisioningError{
			Stage:   stage,
			Kind:    domainErrors.KindConfiguration,
			Message: "payment processor client is misconfigured",
			Cause:   err,
		}
	}
	return domainErrors.NewTransportError(stage, err)
}

func (u *ProvisioningUsecase) recordStart(ctx context.Context, log *zap.Logger, attempt *entity.ProvisioningAttempt) {
	if u.attempts == nil {
		return
	}
	ctx, cancel := ledgerContext(ctx)
	defer cancel()
	if err := u.attempts.Create(ctx, attempt); err != nil {
		log.Warn("Failed to record provisioning attempt", zap.Error(err))
	}
}

func (u *ProvisioningUsecase) advance(ctx context.Context, log *zap.Logger, attempt *entity.ProvisioningAttempt, state entity.ProvisioningState) {
	attempt.State = state
	attempt.UpdatedAt = u.now()
	if u.attempts == nil {
		return
	}
	ctx, cancel := ledgerContext(ctx)
	defer cancel()
	if err := u.attempts.Update(ctx, attempt); err != nil {
		log.Warn("Failed to update provisioning attempt",
			zap.String("state", string(state)),
			zap.Error(err))
	}
}

func (u *ProvisioningUsecase) publish(ctx context.Context, log *zap.Logger, evt event.ProvisioningEvent) {
	if u.publisher == nil {
		return
	}
	ctx, cancel := ledgerContext(ctx)
	defer cancel()
	if err := u.publisher.Publish(ctx, evt); err != nil {
		log.Warn("Failed to publish provisioning event",
			zap.String("event_type", evt.Type),
			zap.Error(err))
	}
}

// ledgerContext detaches bookkeeping from caller cancellation.
func ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
}
