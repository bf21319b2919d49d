// Package common defines the sentinel errors shared by the repository,
// service and transport layers, together with their stable kinds and HTTP
// status codes. Callers match them with errors.Is.
package common

import (
	"errors"
	"net/http"
)

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("a category with this name already exists")
	ErrDuplicateEmail   = errors.New("a manager with this email already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by pieces of art")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// Stable error kinds reported to API clients.
const (
	KindNotFound         = "NotFound"
	KindDuplicateName    = "DuplicateName"
	KindDuplicateEmail   = "DuplicateEmail"
	KindCategoryNotFound = "CategoryNotFound"
	KindCategoryInUse    = "CategoryInUse"
	KindValidation       = "ValidationError"
	KindUnauthenticated  = "Unauthenticated"
	KindUnauthorized     = "Unauthorized"
	KindInternal         = "InternalError"
)

// Kind returns the stable kind for err. Unknown errors are KindInternal.
func Kind(err error) string {
	switch {
	// CategoryNotFound must be checked before the generic NotFound.
	case errors.Is(err, ErrCategoryNotFound):
		return KindCategoryNotFound
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateName):
		return KindDuplicateName
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, ErrCategoryInUse):
		return KindCategoryInUse
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindNotFound, KindCategoryNotFound:
		return http.StatusNotFound
	case KindDuplicateName, KindDuplicateEmail:
		return http.StatusBadRequest
	case KindCategoryInUse:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated, KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
