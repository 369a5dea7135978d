package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by the escrow engine wraps exactly one of these.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidPayment  = errors.New("invalid payment")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPaused          = errors.New("marketplace is paused")
	ErrTransferFailure = errors.New("transfer failure")
)

// Specific conditions, each classified under one kind
var (
	ErrGigNotFound   = fmt.Errorf("%w: gig not found", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("%w: order not found", ErrNotFound)

	ErrNotProvider = fmt.Errorf("%w: only the provider can call this function", ErrUnauthorized)
	ErrNotClient   = fmt.Errorf("%w: only the order client can call this function", ErrUnauthorized)
	ErrNotOwner    = fmt.Errorf("%w: only the platform owner can call this function", ErrUnauthorized)
	ErrEscrowParty = fmt.Errorf("%w: the escrow account cannot take part in orders", ErrUnauthorized)

	ErrGigInactive       = fmt.Errorf("%w: gig is not active", ErrInvalidState)
	ErrAlreadyPaid       = fmt.Errorf("%w: order already paid", ErrInvalidState)
	ErrNotPaid           = fmt.Errorf("%w: order is not paid yet", ErrInvalidState)
	ErrNotCompleted      = fmt.Errorf("%w: order is not completed", ErrInvalidState)
	ErrAlreadyCompleted  = fmt.Errorf("%w: order already completed", ErrInvalidState)
	ErrAlreadyApproved   = fmt.Errorf("%w: payment already approved", ErrInvalidState)
	ErrNotApproved       = fmt.Errorf("%w: payment not approved for claim", ErrInvalidState)
	ErrAlreadyReleased   = fmt.Errorf("%w: payment already released", ErrInvalidState)
	ErrAlreadyPaused     = fmt.Errorf("%w: marketplace already paused", ErrInvalidState)
	ErrNotPaused         = fmt.Errorf("%w: marketplace is not paused", ErrInvalidState)
	ErrDepositCredited   = fmt.Errorf("%w: deposit already credited", ErrInvalidState)
	ErrNothingToWithdraw = fmt.Errorf("%w: no funds to withdraw", ErrInvalidState)

	ErrAmountMismatch    = fmt.Errorf("%w: supplied funds do not match order amount", ErrInvalidPayment)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidPayment)

	ErrAccountFrozen = fmt.Errorf("%w: recipient account cannot accept funds", ErrTransferFailure)
)

// Error codes exposed to API callers
const (
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidState    = "INVALID_STATE"
	CodeInvalidPayment  = "INVALID_PAYMENT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodePaused          = "PAUSED"
	CodeTransferFailure = "TRANSFER_FAILURE"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInternal        = "INTERNAL_ERROR"
)

var kinds = []struct {
	err    error
	code   string
	status int
}{
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrUnauthorized, CodeUnauthorized, http.StatusForbidden},
	{ErrInvalidState, CodeInvalidState, http.StatusConflict},
	{ErrInvalidPayment, CodeInvalidPayment, http.StatusUnprocessableEntity},
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest},
	{ErrPaused, CodePaused, http.StatusServiceUnavailable},
	{ErrTransferFailure, CodeTransferFailure, http.StatusFailedDependency},
}

// Kind returns the error kind code of err, or CodeInternal when err is not a domain error.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return CodeInternal
}

// InvalidInput wraps a validation message as an ErrInvalidInput.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FromError converts any error into an AppError, classifying domain errors by kind.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return NewAppError(k.status, k.code, err.Error(), err)
		}
	}
	return InternalError(err)
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthenticated(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthenticated, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}
