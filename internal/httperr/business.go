package httperr

import (
	"errors"
	"net/http"
)

type BusinessError struct {
	Code          string
	Message       string
	ValidStatuses []string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

// ErrInvalidStatus carries the accepted values so clients can correct the request.
func ErrInvalidStatus(valid []string) error {
	return BusinessError{
		Code:          CodeInvalidStatus,
		Message:       "Invalid status value.",
		ValidStatuses: valid,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	CodeServiceNotFound   = "SERVICE_NOT_FOUND"
	CodeStaffNotFound     = "STAFF_NOT_FOUND"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeMissingJobID      = "MISSING_JOB_ID"
	CodeMissingStatus     = "MISSING_STATUS"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvoiceExists     = "INVOICE_EXISTS"
	CodeInvalidMediaType  = "INVALID_MEDIA_TYPE"
	CodeInvalidTrigger    = "INVALID_TRIGGER"
	CodeInvalidChannel    = "INVALID_CHANNEL"
	CodeUnknownTask       = "UNKNOWN_TASK"
	CodePaymentsDisabled  = "PAYMENTS_DISABLED"
	CodeStorageDisabled   = "STORAGE_DISABLED"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeAccountDisabled   = "ACCOUNT_DISABLED"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeDuplicateEntry    = "DUPLICATE_ENTRY"
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeMissingField      = "MISSING_REQUIRED_FIELD"
	CodeSchema            = "SCHEMA_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

var defaultMessages = map[string]string{
	CodeValidation:        "Invalid request.",
	CodeNotFound:          "Resource not found.",
	CodeCustomerNotFound:  "Customer not found.",
	CodeServiceNotFound:   "Service not found or inactive.",
	CodeStaffNotFound:     "Staff member not found or inactive.",
	CodeJobNotFound:       "Job not found.",
	CodeMissingJobID:      "job_id is required.",
	CodeMissingStatus:     "status is required.",
	CodeInvalidStatus:     "Invalid status value.",
	CodeInvalidTransition: "Status transition not allowed.",
	CodeInvoiceExists:     "An invoice already exists for this job.",
	CodeInvalidMediaType:  "media_type must be Before, After or Progress.",
	CodeInvalidTrigger:    "Unknown trigger event.",
	CodeInvalidChannel:    "Unknown channel.",
	CodeUnknownTask:       "Unknown scheduler task.",
	CodePaymentsDisabled:  "Online payments are not configured.",
	CodeStorageDisabled:   "Media storage is not configured.",
	CodeForbidden:         "You do not have access to this resource.",
	CodeUnauthorized:      "Authentication required.",
	CodeAccountDisabled:   "Account is suspended or terminated.",
	CodeInvalidCreds:      "Invalid email or password.",
	CodeDuplicateEntry:    "A record with the same unique value already exists.",
	CodeInvalidReference:  "Referenced record does not exist.",
	CodeMissingField:      "A required field is missing.",
	CodeSchema:            "Database schema mismatch.",
	CodeInternal:          "Internal server error.",
}

// StatusFor maps a business code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeNotFound, CodeUnknownTask:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized, CodeAccountDisabled, CodeInvalidCreds:
		return http.StatusUnauthorized
	case CodePaymentsDisabled, CodeStorageDisabled:
		return http.StatusServiceUnavailable
	case CodeSchema, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func MessageFor(code string) string {
	if m, ok := defaultMessages[code]; ok {
		return m
	}
	return code
}
