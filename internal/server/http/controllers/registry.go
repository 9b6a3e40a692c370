package controllers

import (
	"net/http"

	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes.
type ControllerRegistry struct {
	general *GeneralController
	streams *StreamsController
	token   *TokenController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, eng *engine.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt, eng),
		streams: NewStreamsController(rt, eng),
		token:   NewTokenController(rt, eng),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This sets up the full VestFlow HTTP surface: general endpoints
// (health, init, config), the stream lifecycle, and the token bank.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.streams.RegisterRoutes(mux)
	r.token.RegisterRoutes(mux)
}
