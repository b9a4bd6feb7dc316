// Package handler serves the delivery availability check.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/delivery/engine"
	"github.com/karan399/milkman/internal/platform/httpx"
	"github.com/karan399/milkman/internal/telemetry"
)

// Handler serves POST /delivery/check.
type Handler struct {
	evaluator engine.Evaluator
	emitter   telemetry.EventEmitter
	log       *zap.Logger
}

// NewHandler returns a delivery handler. emitter and log may be nil.
func NewHandler(evaluator engine.Evaluator, emitter telemetry.EventEmitter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{evaluator: evaluator, emitter: emitter, log: log}
}

// Check reports whether the pincode in the body is served. Policy failures answer "not available".
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req api.DeliveryCheckRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Valid 6-digit pincode is required")
		return
	}
	available, err := h.evaluator.Available(r.Context(), req.Pincode)
	if err != nil {
		h.log.Error("delivery: policy evaluation failed", zap.String("pincode", req.Pincode), zap.Error(err))
		available = false
	}
	if h.emitter != nil {
		avail := "false"
		if available {
			avail = "true"
		}
		telemetry.EmitAsync(h.emitter, h.log, telemetry.NewEvent(telemetry.EventDeliveryCheck, "", map[string]string{"pincode": req.Pincode, "available": avail}))
	}
	httpx.WriteJSON(w, http.StatusOK, api.DeliveryCheckResponse{Pincode: req.Pincode, Available: available})
}
