package errors

// 공통 에러 코드 정의
const (
	// 일반적인 에러 코드
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// 외부 결제 프로세서 연동 에러 코드
	ErrCanceled         = "CANCELED"
	ErrUnavailable      = "UNAVAILABLE"
	ErrProviderRejected = "PROVIDER_REJECTED"
	ErrBadGateway       = "BAD_GATEWAY"
	ErrMisconfigured    = "MISCONFIGURED"
)
