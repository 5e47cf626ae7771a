// Package handler holds what the gRPC and HTTP handlers share.
package handler

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/semo-payment-method/pkg/errors"
)

// ToAppError maps a provisioning outcome onto the shared error code table.
// The public message names the failing stage and never includes the cause.
func ToAppError(err error) *pkgErrors.AppError {
	if err == nil {
		return nil
	}

	var appErr *pkgErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verr *domainErrors.ValidationError
	if errors.As(err, &verr) {
		return pkgErrors.NewAppError(pkgErrors.ErrInvalidArgument, verr.Error(), err)
	}

	if pe, ok := domainErrors.AsProvisioningError(err); ok {
		return pkgErrors.NewAppError(provisioningCode(pe), StageMessage(pe), err)
	}

	var cfgErr *domainErrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		return pkgErrors.NewAppError(pkgErrors.ErrMisconfigured, "service is misconfigured", err)
	}

	switch {
	case errors.Is(err, usecase.ErrAttemptNotFound):
		return pkgErrors.NewAppError(pkgErrors.ErrNotFound, err.Error(), err)
	case errors.Is(err, usecase.ErrLedgerDisabled):
		return pkgErrors.NewAppError(pkgErrors.ErrNotImplemented, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return pkgErrors.NewAppError(pkgErrors.ErrTimeout, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return pkgErrors.NewAppError(pkgErrors.ErrCanceled, "request canceled", err)
	}
	return pkgErrors.NewAppError(pkgErrors.ErrInternal, "internal error", err)
}

func provisioningCode(pe *domainErrors.ProvisioningError) string {
	switch pe.Kind {
	case domainErrors.KindTransport:
		switch {
		case errors.Is(pe, context.DeadlineExceeded):
			return pkgErrors.ErrTimeout
		case errors.Is(pe, context.Canceled):
			return pkgErrors.ErrCanceled
		}
		return pkgErrors.ErrUnavailable
	case domainErrors.KindProcessor:
		return pkgErrors.ErrProviderRejected
	case domainErrors.KindMalformed:
		return pkgErrors.ErrBadGateway
	case domainErrors.KindConfiguration:
		return pkgErrors.ErrMisconfigured
	default:
		return pkgErrors.ErrInternal
	}
}

// StageMessage renders a provisioning failure for callers, e.g.
// "stage 2 (attach_source) failed: PROCESSOR_ERROR: Your card was declined. (card_declined)".
func StageMessage(pe *domainErrors.ProvisioningError) string {
	msg := fmt.Sprintf("stage %d (%s) failed: %s: %s", int(pe.Stage), pe.Stage, pe.Kind, pe.Message)
	if pe.ProcessorCode != "" {
		msg += fmt.Sprintf(" (%s)", pe.ProcessorCode)
	}
	return msg
}
