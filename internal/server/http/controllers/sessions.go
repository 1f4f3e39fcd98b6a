package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	sessionsvc "github.com/David2024patton/discord-attendance-bot/internal/services/sessions"
	"github.com/David2024patton/discord-attendance-bot/internal/signup"
)

// SessionsController handles session lifecycle, roster actions, stats, and
// the event feed.
type SessionsController struct {
	rt  *runtime.Runtime
	svc *sessionsvc.Service
}

// NewSessionsController creates a new sessions controller.
func NewSessionsController(rt *runtime.Runtime, svc *sessionsvc.Service) *SessionsController {
	return &SessionsController{rt: rt, svc: svc}
}

// RegisterRoutes registers session routes with the given mux.
func (c *SessionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sessions/create", c.handleCreate)
	mux.HandleFunc("/v1/sessions/close", c.handleClose)
	mux.HandleFunc("/v1/sessions", c.handleList)
	mux.HandleFunc("/v1/sessions/roster", c.handleRoster)
	mux.HandleFunc("/v1/sessions/archived", c.handleArchived)

	mux.HandleFunc("/v1/actions/join", c.action(signup.ActionJoin))
	mux.HandleFunc("/v1/actions/leave-attending", c.action(signup.ActionLeaveAttending))
	mux.HandleFunc("/v1/actions/leave-standby", c.action(signup.ActionLeaveStandby))
	mux.HandleFunc("/v1/actions/decline", c.action(signup.ActionDecline))
	mux.HandleFunc("/v1/actions/relieve", c.action(signup.ActionRelieve))
	mux.HandleFunc("/v1/actions/checkin", c.action(signup.ActionCheckIn))

	mux.HandleFunc("/v1/stats", c.handleStats)
	mux.HandleFunc("/v1/events", c.handleEvents)
	mux.HandleFunc("/v1/events/subscribe", c.handleSubscribe)
}

func (c *SessionsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req sessionCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ros, err := c.svc.CreateSession(r.Context(), signup.CreateOptions{
		SessionID:    req.SessionID,
		Name:         req.Name,
		Type:         req.Type,
		ScheduledAt:  req.ScheduledAt,
		MaxAttending: req.MaxAttending,
		MaxStandby:   req.MaxStandby,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(ros)
}

func (c *SessionsController) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req sessionCloseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ros, err := c.svc.CloseSession(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, ros)
}

func (c *SessionsController) handleList(w http.ResponseWriter, r *http.Request) {
	live, err := c.svc.ListSessions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"sessions": live})
}

func (c *SessionsController) handleRoster(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	ros, err := c.svc.GetRoster(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, ros)
}

func (c *SessionsController) handleArchived(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 100
	}
	closed, err := c.svc.ListArchived(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"sessions": closed})
}

// action returns a handler applying one fixed action kind.
func (c *SessionsController) action(kind signup.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req actionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := c.svc.Apply(r.Context(), req.SessionID, signup.Action{Kind: kind, User: req.User, Target: req.Target})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := map[string]any{"roster": res.Roster}
		if res.Promotion != nil {
			out["promotion"] = map[string]string{"session": res.Promotion.SessionID, "user": res.Promotion.User}
		}
		writeJSON(w, out)
	}
}

func (c *SessionsController) handleStats(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "missing user")
		return
	}
	st, err := c.svc.Stats(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, st)
}

// handleEvents returns a page of feed events after the given cursor.
func (c *SessionsController) handleEvents(w http.ResponseWriter, r *http.Request) {
	after := parseSeq(r.URL.Query().Get("after"))
	limit := parseLimit(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 100
	}
	events, err := c.svc.ReadEvents(r.Context(), after, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"events": events, "lastSeq": c.svc.LastSeq()})
}

// handleSubscribe streams feed events as SSE until the client disconnects.
func (c *SessionsController) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	after := parseSeq(r.URL.Query().Get("after"))
	filter := r.URL.Query().Get("filter")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	err := c.svc.Subscribe(r.Context(), after, filter, sseSink{w: w, r: r})
	if err != nil && !errors.Is(err, context.Canceled) {
		// Filter compile errors surface before the first event is written.
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
