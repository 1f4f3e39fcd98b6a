// Package sessionsvc exposes signup, roster, and event-feed operations to
// transports. It owns the session registry and the engine; HTTP controllers
// and the CLI never touch the store directly.
package sessionsvc
