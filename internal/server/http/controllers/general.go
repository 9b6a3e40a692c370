package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
)

// GeneralController handles general HTTP endpoints like health and the
// one-time initialization surface.
type GeneralController struct {
	rt  *runtime.Runtime
	eng *engine.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, eng *engine.Service) *GeneralController {
	return &GeneralController{rt: rt, eng: eng}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health checks (/v1/healthz)
// - One-time initialization (/v1/init)
// - Engine configuration (/v1/config)
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/init", c.handleInit)
	mux.HandleFunc("/v1/config", c.handleConfig)
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleInit performs the one-time engine initialization.
//
// Expects a JSON body with "token" and "admin" fields. Returns 201 Created
// on success and 409 Conflict when the engine is already initialized.
func (c *GeneralController) handleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req initReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.eng.Init(r.Context(), req.Token, req.Admin); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// handleConfig returns the immutable engine configuration.
func (c *GeneralController) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := c.eng.Config(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, cfg)
}
