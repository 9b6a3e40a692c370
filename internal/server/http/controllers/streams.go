package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
)

// StreamsController handles all payment stream HTTP endpoints.
//
// It provides a RESTful interface to the engine's stream lifecycle:
// creation, withdrawal, pause/resume, cancellation, and state queries.
// Every mutating endpoint reads the acting address from the
// X-Vestflow-Caller header and forwards it to the engine, which enforces
// authorization.
type StreamsController struct {
	rt  *runtime.Runtime
	eng *engine.Service
}

// NewStreamsController creates a new streams controller.
func NewStreamsController(rt *runtime.Runtime, eng *engine.Service) *StreamsController {
	return &StreamsController{rt: rt, eng: eng}
}

// RegisterRoutes registers all stream-related routes with the given mux.
func (c *StreamsController) RegisterRoutes(mux *http.ServeMux) {
	// Stream management
	mux.HandleFunc("/v1/streams", c.handleListStreams)
	mux.HandleFunc("/v1/streams/create", c.handleCreate)
	mux.HandleFunc("/v1/streams/state", c.handleState)

	// Lifecycle
	mux.HandleFunc("/v1/streams/withdraw", c.handleWithdraw)
	mux.HandleFunc("/v1/streams/pause", c.handlePause)
	mux.HandleFunc("/v1/streams/resume", c.handleResume)
	mux.HandleFunc("/v1/streams/cancel", c.handleCancel)
}

// handleListStreams lists streams, optionally filtered by a CEL
// expression in the "filter" query parameter, e.g.
// status == "active" && deposit >= 1000.
func (c *StreamsController) handleListStreams(w http.ResponseWriter, r *http.Request) {
	list, err := c.eng.ListStreams(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"streams": list})
}

// handleCreate opens a new payment stream and escrows the deposit.
func (c *StreamsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req engine.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id, err := c.eng.CreateStream(r.Context(), callerFrom(r), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createStreamResp{ID: id})
}

// handleState returns a stream snapshot with the vested and withdrawable
// amounts computed at the current ledger time.
func (c *StreamsController) handleState(w http.ResponseWriter, r *http.Request) {
	id, ok := parseStreamID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or missing id parameter")
		return
	}
	st, err := c.eng.StreamState(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, st)
}

// handleWithdraw settles all currently withdrawable funds to the recipient.
func (c *StreamsController) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeOp(w, r)
	if !ok {
		return
	}
	amount, err := c.eng.Withdraw(r.Context(), callerFrom(r), req.ID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, withdrawResp{ID: req.ID, Amount: amount})
}

// handlePause freezes vesting on an active stream.
func (c *StreamsController) handlePause(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeOp(w, r)
	if !ok {
		return
	}
	if err := c.eng.Pause(r.Context(), callerFrom(r), req.ID); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResume reactivates a paused stream.
func (c *StreamsController) handleResume(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeOp(w, r)
	if !ok {
		return
	}
	if err := c.eng.Resume(r.Context(), callerFrom(r), req.ID); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCancel terminates a stream and settles both legs immediately.
func (c *StreamsController) handleCancel(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeOp(w, r)
	if !ok {
		return
	}
	res, err := c.eng.Cancel(r.Context(), callerFrom(r), req.ID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, res)
}

func (c *StreamsController) decodeOp(w http.ResponseWriter, r *http.Request) (streamOpReq, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return streamOpReq{}, false
	}
	var req streamOpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return streamOpReq{}, false
	}
	return req, true
}
