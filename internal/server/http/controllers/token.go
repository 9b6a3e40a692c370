package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
)

// TokenController exposes the reference token bank: admin-only minting
// and balance queries.
type TokenController struct {
	rt  *runtime.Runtime
	eng *engine.Service
}

// NewTokenController creates a new token controller.
func NewTokenController(rt *runtime.Runtime, eng *engine.Service) *TokenController {
	return &TokenController{rt: rt, eng: eng}
}

// RegisterRoutes registers token routes with the given mux.
func (c *TokenController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/token/mint", c.handleMint)
	mux.HandleFunc("/v1/token/balance", c.handleBalance)
}

// handleMint credits an account. Only the configured admin may call it.
func (c *TokenController) handleMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req mintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.eng.Mint(r.Context(), callerFrom(r), req.To, req.Amount); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBalance returns the balance of the account named in the
// "account" query parameter.
func (c *TokenController) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(w, http.StatusBadRequest, "Account parameter is required")
		return
	}
	balance, err := c.eng.Balance(r.Context(), account)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, balanceResp{Account: account, Balance: balance})
}
