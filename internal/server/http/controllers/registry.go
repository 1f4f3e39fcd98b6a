package controllers

import (
	"net/http"

	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	sessionsvc "github.com/David2024patton/discord-attendance-bot/internal/services/sessions"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general  *GeneralController
	sessions *SessionsController
}

// NewControllerRegistry initializes all controllers with the provided
// runtime and service.
func NewControllerRegistry(rt *runtime.Runtime, svc *sessionsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt, svc),
		sessions: NewSessionsController(rt, svc),
	}
}

// RegisterAllRoutes registers every controller's routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.sessions.RegisterRoutes(mux)
}
