package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes used across the authorization and lifecycle subsystem.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeExpiredCredential = "EXPIRED_CREDENTIAL"
	CodeAccountNotActive  = "ACCOUNT_NOT_ACTIVE"

	CodeInsufficientPrivilege     = "INSUFFICIENT_PRIVILEGE"
	CodeSelfDeactivationForbidden = "SELF_DEACTIVATION_FORBIDDEN"

	CodeSubjectNotFound = "SUBJECT_NOT_FOUND"
	CodeTargetNotFound  = "TARGET_NOT_FOUND"

	CodeInvalidName   = "INVALID_NAME"
	CodeInvalidEmail  = "INVALID_EMAIL"
	CodeInvalidLevel  = "INVALID_LEVEL"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeWeakPassword  = "WEAK_PASSWORD"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeExpiredToken  = "EXPIRED_TOKEN"

	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeEmailDeliveryFailed = "EMAIL_DELIVERY_FAILED"

	CodeInternalError = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidation(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest)
}

func NewUnauthorized(code, message string) error {
	return NewDomainError(code, message, http.StatusUnauthorized)
}

func NewForbidden(code, message string) error {
	return NewDomainError(code, message, http.StatusForbidden)
}

func NewNotFound(code, message string) error {
	return NewDomainError(code, message, http.StatusNotFound)
}

func NewConflict(code, message string) error {
	return NewDomainError(code, message, http.StatusConflict)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeTargetNotFound, "record not found", http.StatusNotFound)
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf extracts the domain error code, or CodeInternalError for plain errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}
