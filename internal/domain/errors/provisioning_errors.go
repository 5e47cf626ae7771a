package errors

import (
	"errors"
	"fmt"
)

// Kind classifies why a provisioning stage failed
type Kind string

const (
	KindTransport     Kind = "TRANSPORT_ERROR"
	KindProcessor     Kind = "PROCESSOR_ERROR"
	KindMalformed     Kind = "MALFORMED_RESPONSE"
	KindConfiguration Kind = "CONFIGURATION_ERROR"
)

// Stage identifies a step of the provisioning pipeline
type Stage int

const (
	StageNone Stage = iota
	StageCreateCustomer
	StageAttachSource
	StageConfirmSetupIntent
)

func (s Stage) String() string {
	switch s {
	case StageCreateCustomer:
		return "create_customer"
	case StageAttachSource:
		return "attach_source"
	case StageConfirmSetupIntent:
		return "confirm_setup_intent"
	default:
		return "none"
	}
}

// ProvisioningError is the terminal Failed(stage, reason) state of a pipeline run.
type ProvisioningError struct {
	Stage   Stage
	Kind    Kind
	Message string

	// Set for KindProcessor when the processor answered with a status code.
	HTTPStatus int
	// Processor-side error code (e.g. card_declined), if any.
	ProcessorCode string

	Cause error
}

func (e *ProvisioningError) Error() string {
	msg := fmt.Sprintf("stage %d (%s) failed: %s: %s", int(e.Stage), e.Stage, e.Kind, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProvisioningError) Unwrap() error {
	return e.Cause
}

// AtStage returns a copy of e attributed to stage.
func (e *ProvisioningError) AtStage(stage Stage) *ProvisioningError {
	c := *e
	c.Stage = stage
	return &c
}

// NewTransportError reports that the processor could not be reached.
func NewTransportError(stage Stage, cause error) *ProvisioningError {
	return &ProvisioningError{
		Stage:   stage,
		Kind:    KindTransport,
		Message: "payment processor is unreachable",
		Cause:   cause,
	}
}

// NewProcessorError reports a non-success answer from the processor.
func NewProcessorError(stage Stage, httpStatus int, code, message string, cause error) *ProvisioningError {
	if message == "" {
		message = "payment processor rejected the request"
	}
	return &ProvisioningError{
		Stage:         stage,
		Kind:          KindProcessor,
		Message:       message,
		HTTPStatus:    httpStatus,
		ProcessorCode: code,
		Cause:         cause,
	}
}

// NewMalformedResponseError reports a success status with an unusable body.
func NewMalformedResponseError(stage Stage, message string, cause error) *ProvisioningError {
	return &ProvisioningError{
		Stage:   stage,
		Kind:    KindMalformed,
		Message: message,
		Cause:   cause,
	}
}

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Key     string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: invalid configuration %q: %s - %v", KindConfiguration, e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: invalid configuration %q: %s", KindConfiguration, e.Key, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(key, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: message, Cause: cause}
}

// ValidationError is returned before any processor call when the request is incomplete.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// AsProvisioningError unwraps err into a *ProvisioningError.
func AsProvisioningError(err error) (*ProvisioningError, bool) {
	var pe *ProvisioningError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
