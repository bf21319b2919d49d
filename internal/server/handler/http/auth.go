// Package http exposes the museum catalog over HTTP.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/server/respond"
	"go.uber.org/zap"
)

// Authenticator checks manager credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.Manager, error)
}

// TokenIssuer signs access tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// AuthHandler exchanges manager credentials for a bearer token.
type AuthHandler struct {
	Credentials Authenticator
	Tokens      TokenIssuer
	Log         *zap.Logger
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login expects a urlencoded or multipart form with username (the manager's
// email) and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respond.Error(w, h.Log, fmt.Errorf("%w: username and password are required", common.ErrValidation))
		return
	}

	manager, err := h.Credentials.Authenticate(r.Context(), username, password)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	token, err := h.Tokens.Issue(manager.Email)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
