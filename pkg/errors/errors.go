package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain identifies this service in gRPC ErrorInfo details
const ErrorDomain = "orders.go-orders"

// Error codes
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeInternal               = "INTERNAL_ERROR"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeAlreadyPaid            = "ALREADY_PAID"
	CodePaymentNotCompleted    = "PAYMENT_NOT_COMPLETED"
	CodeRefundExceedsTotal     = "REFUND_EXCEEDS_TOTAL"
	CodePaymentFailed          = "PAYMENT_FAILED"
	CodePaymentInProgress      = "PAYMENT_IN_PROGRESS"
)

// AppError represents an application error
type AppError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON response structure for errors
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// ErrorBody contains error details
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ToJSON converts an error to the standard JSON response
func ToJSON(err error, traceID string) (int, []byte) {
	appErr := As(err)
	if appErr == nil || appErr.Code == CodeInternal {
		appErr = &AppError{
			Code:    CodeInternal,
			Message: "An internal error occurred",
		}
	}

	response := ErrorResponse{
		Error: ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		TraceID: traceID,
	}

	data, _ := json.Marshal(response)
	return HTTPStatus(appErr), data
}

// HTTPStatus returns the HTTP status code for an error
func HTTPStatus(err error) int {
	appErr := As(err)
	if appErr == nil {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInsufficientStock, CodeInvalidStateTransition,
		CodeAlreadyPaid, CodePaymentNotCompleted, CodePaymentInProgress:
		return http.StatusConflict
	case CodeRefundExceedsTotal:
		return http.StatusUnprocessableEntity
	case CodePaymentFailed:
		return http.StatusPaymentRequired
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var grpcCodes = map[string]codes.Code{
	CodeValidation:             codes.InvalidArgument,
	CodeNotFound:               codes.NotFound,
	CodeConflict:               codes.Aborted,
	CodeUnauthorized:           codes.Unauthenticated,
	CodeForbidden:              codes.PermissionDenied,
	CodeInsufficientStock:      codes.ResourceExhausted,
	CodeInvalidStateTransition: codes.FailedPrecondition,
	CodeAlreadyPaid:            codes.AlreadyExists,
	CodePaymentNotCompleted:    codes.FailedPrecondition,
	CodeRefundExceedsTotal:     codes.OutOfRange,
	CodePaymentFailed:          codes.FailedPrecondition,
	CodePaymentInProgress:      codes.Aborted,
}

// GRPCStatus converts an error to a gRPC status. The AppError code travels as
// the Reason of an ErrorInfo detail so that clients can recover it exactly.
func GRPCStatus(err error) error {
	if _, ok := status.FromError(err); ok && As(err) == nil {
		return err
	}

	appErr := As(err)
	if appErr == nil || appErr.Code == CodeInternal {
		return status.Error(codes.Internal, "internal error")
	}

	code, ok := grpcCodes[appErr.Code]
	if !ok {
		code = codes.Internal
	}

	st := status.New(code, appErr.Message)
	info := &errdetails.ErrorInfo{
		Reason:   appErr.Code,
		Domain:   ErrorDomain,
		Metadata: stringMetadata(appErr.Details),
	}
	if withDetails, detailErr := st.WithDetails(info); detailErr == nil {
		st = withDetails
	}
	return st.Err()
}

// FromGRPCStatus converts a gRPC status to an AppError
func FromGRPCStatus(err error) *AppError {
	st, ok := status.FromError(err)
	if !ok {
		return NewInternal("unknown error", err)
	}

	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			appErr := &AppError{
				Code:    info.GetReason(),
				Message: st.Message(),
				Err:     err,
			}
			if len(info.GetMetadata()) > 0 {
				appErr.Details = info.GetMetadata()
			}
			return appErr
		}
	}

	var code string
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeValidation
	case codes.NotFound:
		code = CodeNotFound
	case codes.AlreadyExists, codes.Aborted:
		code = CodeConflict
	case codes.Unauthenticated:
		code = CodeUnauthorized
	case codes.PermissionDenied:
		code = CodeForbidden
	case codes.ResourceExhausted:
		code = CodeInsufficientStock
	case codes.FailedPrecondition:
		code = CodeInvalidStateTransition
	default:
		code = CodeInternal
	}

	return &AppError{
		Code:    code,
		Message: st.Message(),
		Err:     err,
	}
}

func stringMetadata(details interface{}) map[string]string {
	switch d := details.(type) {
	case map[string]string:
		return d
	case map[string]interface{}:
		out := make(map[string]string, len(d))
		for k, v := range d {
			out[k] = fmt.Sprint(v)
		}
		return out
	default:
		return nil
	}
}

// Constructor functions

// NewValidation creates a validation error
func NewValidation(message string, details interface{}) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// NewNotFound creates a not found error
func NewNotFound(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id '%v' not found", resource, id),
		Details: map[string]interface{}{"resource": resource, "id": id},
	}
}

// NewConflict creates a conflict error
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInternal creates an internal error
func NewInternal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewUnauthorized creates an unauthorized error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbidden creates a forbidden error
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewInsufficientStock reports that a product cannot cover the requested quantity
func NewInsufficientStock(productID string, requested, available int) *AppError {
	return &AppError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d", productID, requested, available),
		Details: map[string]interface{}{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewInvalidStateTransition reports an illegal order status change
func NewInvalidStateTransition(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidStateTransition,
		Message: fmt.Sprintf("cannot transition order from '%s' to '%s'", from, to),
		Details: map[string]interface{}{"from": from, "to": to},
	}
}

// New creates an error with an arbitrary code
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// As returns the AppError in the chain of err, or nil
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is checks if an error matches a specific code
func Is(err error, code string) bool {
	if appErr := As(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	if appErr := As(err); appErr != nil {
		return &AppError{
			Code:    appErr.Code,
			Message: message + ": " + appErr.Message,
			Details: appErr.Details,
			Err:     err,
		}
	}
	return NewInternal(message, err)
}
