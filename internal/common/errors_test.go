package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{"not found", ErrNotFound, KindNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get category: %w", ErrNotFound), KindNotFound, http.StatusNotFound},
		{"duplicate name", ErrDuplicateName, KindDuplicateName, http.StatusBadRequest},
		{"duplicate email", ErrDuplicateEmail, KindDuplicateEmail, http.StatusBadRequest},
		{"category not found", fmt.Errorf("create piece: %w", ErrCategoryNotFound), KindCategoryNotFound, http.StatusNotFound},
		{"category in use", ErrCategoryInUse, KindCategoryInUse, http.StatusConflict},
		{"validation", fmt.Errorf("%w: name is required", ErrValidation), KindValidation, http.StatusUnprocessableEntity},
		{"unauthenticated", ErrUnauthenticated, KindUnauthenticated, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, KindUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, KindUnauthorized, http.StatusUnauthorized},
		{"bad credentials", ErrInvalidCredentials, KindUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("connection reset"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, Kind(tt.err))
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
		})
	}
}
