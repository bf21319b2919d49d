package http

import (
	"net/http"

	"github.com/atinyakov/museum/internal/server/respond"
)

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
