package controllers

// Common request types for HTTP controllers

// sessionCreateReq creates a new session. Zero capacities fall back
// to the configured roster defaults.
type sessionCreateReq struct {
	SessionID    string `json:"sessionId"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ScheduledAt  int64  `json:"scheduledAt"`
	MaxAttending int    `json:"maxAttending"`
	MaxStandby   int    `json:"maxStandby"`
}

// sessionCloseReq closes a live session.
type sessionCloseReq struct {
	SessionID string `json:"sessionId"`
}

// actionReq carries one roster action. Target names the standby user
// receiving the slot for relieve.
type actionReq struct {
	SessionID string `json:"sessionId"`
	User      string `json:"user"`
	Target    string `json:"target,omitempty"`
}
