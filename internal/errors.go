package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInventory  ErrorCode = "INVALID_INVENTORY"
	ErrCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeInvalidChoice     ErrorCode = "INVALID_CHOICE"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPercentage ErrorCode = "INVALID_PERCENTAGE"
	ErrCodeOutsideWorkHours  ErrorCode = "OUTSIDE_WORKING_HOURS"
	ErrCodeQuotaExceeded     ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeNoActiveTariff    ErrorCode = "NO_ACTIVE_TARIFF"

	ErrCodeProductNotFound  ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeLendingNotFound  ErrorCode = "LENDING_NOT_FOUND"
	ErrCodeSaleNotFound     ErrorCode = "SALE_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeTariffNotFound   ErrorCode = "TARIFF_NOT_FOUND"
	ErrCodeCartNotFound     ErrorCode = "CART_NOT_FOUND"

	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeRoleNotAllowed   ErrorCode = "ROLE_NOT_ALLOWED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeLendingReturned ErrorCode = "LENDING_ALREADY_RETURNED"
	ErrCodeDuplicateName   ErrorCode = "DUPLICATE_NAME"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewQuotaExceededError builds a validation-typed error: tariff quota breaches
// surface as 400s with their own code, not as a separate HTTP class.
func NewQuotaExceededError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeQuotaExceeded,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

var (
	ErrProductNotFound  = NewNotFoundError("product not found", ErrCodeProductNotFound)
	ErrLendingNotFound  = NewNotFoundError("lending not found", ErrCodeLendingNotFound)
	ErrSaleNotFound     = NewNotFoundError("sale not found", ErrCodeSaleNotFound)
	ErrUserNotFound     = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrCategoryNotFound = NewNotFoundError("category not found", ErrCodeCategoryNotFound)
	ErrTariffNotFound   = NewNotFoundError("tariff not found", ErrCodeTariffNotFound)
	ErrCartNotFound     = NewNotFoundError("cart not found", ErrCodeCartNotFound)

	ErrPermissionDenied = NewForbiddenError("you do not have permission for this resource", ErrCodePermissionDenied)

	ErrProductNotAvailable = NewValidationError("product is not available for lending", ErrCodeInvalidStatus)
	ErrProductNotRentable  = NewValidationError("product is not offered for rent", ErrCodeInvalidChoice)
	ErrProductNotSellable  = NewValidationError("product is not offered for sale", ErrCodeInvalidChoice)
	ErrInsufficientStock   = NewValidationError("requested amount exceeds available stock", ErrCodeInsufficientStock)
	ErrLendingReturned     = NewValidationError("lending is already returned", ErrCodeLendingReturned)
	ErrOutsideWorkingHours = NewValidationError("operation is outside the configured working hours", ErrCodeOutsideWorkHours)
	ErrNoActiveTariff      = NewQuotaExceededError("no active tariff covers the current date")

	ErrInvalidCredentials = NewUnauthorizedError("invalid username or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
