package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/platform/httpx"
)

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HTTPHandler serves /healthz and /readyz.
type HTTPHandler struct {
	checker ReadinessChecker
	log     *zap.Logger
}

// NewHTTPHandler returns the HTTP health endpoints. checker may be nil.
func NewHTTPHandler(checker ReadinessChecker, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{checker: checker, log: log}
}

// Live always answers 200 while the process is up.
func (h *HTTPHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Ready answers 200 when dependencies are reachable and 503 otherwise.
func (h *HTTPHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		if err := h.checker.Ready(r.Context()); err != nil {
			h.log.Warn("health: not ready", zap.Error(err))
			httpx.WriteJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
