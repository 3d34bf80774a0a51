package errors

import (
	"fmt"
	"net/http"
	"time"
)

// Error code constants. Errors carry code + message; handlers return them
// verbatim as {code, message} JSON and never leak internals.

// Identity and profile error codes.
const (
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeEmailExists     = "EMAIL_ALREADY_REGISTERED"
)

// Farm and location error codes.
const (
	CodeFarmNotFound      = "FARM_NOT_FOUND"
	CodeLocationNotFound  = "LOCATION_NOT_FOUND"
	CodeDuplicateLocation = "DUPLICATE_LOCATION"
	CodeDuplicateSurveyNo = "DUPLICATE_SURVEY_NUMBER"
	CodeBrokenLocation    = "LOCATION_CHAIN_INVALID"
)

// Application document error codes.
const (
	CodeApplicationNotFound = "APPLICATION_NOT_FOUND"
	CodeSubmissionCooldown  = "SUBMISSION_COOLDOWN"
	CodeDuplicateNumber     = "DUPLICATE_DOCUMENT_NUMBER"
)

// Form-12 and payment error codes.
const (
	CodeForm12NotFound     = "FORM12_NOT_FOUND"
	CodeForm12NoneApproved = "FORM12_NONE_APPROVED"
	CodePaymentNotFound    = "PAYMENT_NOT_FOUND"
)

// Auth error codes.
const (
	CodeAuthFailed   = "AUTH_FAILED"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeForbidden    = "FORBIDDEN"
)

// Validation error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingField     = "MISSING_REQUIRED_FIELD"
)

// Generic error codes.
const (
	CodeInternal = "INTERNAL_ERROR"
)

// ErrSubmissionCooldown creates the rate-limit error for an active
// resubmission cooldown, stating the remaining wait in the message.
func ErrSubmissionCooldown(docType string, remaining time.Duration) *AppError {
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	return &AppError{
		Code: CodeSubmissionCooldown,
		Message: fmt.Sprintf(
			"a %s application was submitted recently; please wait %dd %dh before resubmitting",
			docType, days, hours,
		),
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrMissingFields creates a validation error listing the absent fields.
func ErrMissingFields(fields ...string) *AppError {
	fieldErrs := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		fieldErrs = append(fieldErrs, FieldError{Field: f, Code: CodeMissingField})
	}
	return BadRequest(CodeValidationFailed, "required fields are missing").
		WithFieldErrors(fieldErrs)
}
