// Package respond writes JSON payloads and error bodies for HTTP handlers.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/museum/internal/common"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to its status and kind. Internal errors are logged and their
// detail is hidden from the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := common.HTTPStatus(err)
	body := ErrorBody{Kind: common.Kind(err), Detail: err.Error()}

	switch status {
	case http.StatusInternalServerError:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		body.Detail = "internal server error"
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	JSON(w, status, body)
}
