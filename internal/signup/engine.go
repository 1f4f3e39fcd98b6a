package signup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/David2024patton/discord-attendance-bot/internal/config"
	"github.com/David2024patton/discord-attendance-bot/internal/eventfeed"
	"github.com/David2024patton/discord-attendance-bot/internal/metrics"
	"github.com/David2024patton/discord-attendance-bot/internal/roster"
	"github.com/David2024patton/discord-attendance-bot/internal/store"
	logpkg "github.com/David2024patton/discord-attendance-bot/pkg/log"
)

// ActionKind names an inbound user action.
type ActionKind string

const (
	ActionJoin           ActionKind = "join"
	ActionLeaveAttending ActionKind = "leave_attending"
	ActionLeaveStandby   ActionKind = "leave_standby"
	ActionDecline        ActionKind = "decline"
	ActionRelieve        ActionKind = "relieve"
	ActionCheckIn        ActionKind = "checkin"
)

// Action is one user request against a session's roster.
type Action struct {
	Kind ActionKind
	User string
	// Target names the standby user receiving the slot for ActionRelieve.
	Target string
}

// PromotionEvent reports a standby user automatically promoted by an action.
type PromotionEvent struct {
	SessionID string
	User      string
}

// Result is the outcome of a successfully applied action.
type Result struct {
	Roster    roster.Roster
	Promotion *PromotionEvent
}

// Engine applies user actions to live rosters under each session's exclusive
// lock, persists every mutation before acknowledging it, and appends
// promotion events to the durable feed.
type Engine struct {
	reg     *Registry
	store   *store.Store
	feed    *eventfeed.Feed
	cfg     config.Config
	logger  logpkg.Logger
	metrics *metrics.Set
}

// NewEngine wires the engine. metrics may be nil.
func NewEngine(reg *Registry, st *store.Store, feed *eventfeed.Feed, cfg config.Config, logger logpkg.Logger, m *metrics.Set) *Engine {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	return &Engine{
		reg:     reg,
		store:   st,
		feed:    feed,
		cfg:     cfg,
		logger:  logger.With(logpkg.Component("signup")),
		metrics: m,
	}
}

// Registry exposes the engine's session registry for read paths.
func (e *Engine) Registry() *Registry { return e.reg }

// CreateOptions parameterizes a new session. Zero-valued capacities fall
// back to the configured roster defaults.
type CreateOptions struct {
	SessionID    string
	Name         string
	Type         string
	ScheduledAt  int64
	MaxAttending int
	MaxStandby   int
}

// CreateSession registers a fresh empty roster and persists it. When no
// session id is supplied a new uuid is assigned; ids are never reused.
func (e *Engine) CreateSession(ctx context.Context, opts CreateOptions) (roster.Roster, error) {
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	meta := roster.Meta{
		Name:         opts.Name,
		Type:         opts.Type,
		ScheduledAt:  opts.ScheduledAt,
		MaxAttending: opts.MaxAttending,
		MaxStandby:   opts.MaxStandby,
	}
	if meta.MaxAttending <= 0 {
		meta.MaxAttending = e.cfg.RosterDefaults.MaxAttending
	}
	if meta.MaxStandby <= 0 {
		meta.MaxStandby = e.cfg.RosterDefaults.MaxStandby
	}

	r := roster.New(id, meta)
	if err := e.reg.Register(r); err != nil {
		return roster.Roster{}, err
	}
	if err := e.store.SaveRoster(ctx, r); err != nil {
		_ = e.reg.Retire(id)
		return roster.Roster{}, fmt.Errorf("%w: session %s: %v", ErrPersistence, id, err)
	}
	e.appendEvent(ctx, eventfeed.Event{Type: eventfeed.TypeSessionCreated, Session: id})
	if e.metrics != nil {
		e.metrics.SessionsLive.Inc()
	}
	e.logger.Info("session registered",
		logpkg.Str("session", id),
		logpkg.Str("name", meta.Name),
		logpkg.Int("max_attending", meta.MaxAttending),
		logpkg.Int("max_standby", meta.MaxStandby),
	)
	return r, nil
}

// Apply serializes the action behind the session's lock, runs the pure
// transition, and persists the new snapshot before returning success. If the
// durable write fails the in-memory roster keeps its pre-transition value
// and the caller sees ErrPersistence.
func (e *Engine) Apply(ctx context.Context, sessionID string, act Action) (Result, error) {
	if act.User == "" {
		return Result{}, fmt.Errorf("%w: missing user", ErrInvalidAction)
	}

	// Attendance history is read before taking the session lock; only the
	// durable snapshot write happens while holding it.
	standbyOnly := false
	if act.Kind == ActionJoin {
		stats, err := e.store.LoadStats(ctx, act.User)
		if err == nil && e.autoStandby(stats) {
			standbyOnly = true
		}
	}

	ent, err := e.reg.lookup(sessionID)
	if err != nil {
		return Result{}, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	// Lookup raced CloseSession: the entry was still registered, but the
	// roster was closed before this lock was acquired. Applying here would
	// write a fresh live snapshot for an archived session.
	if ent.roster.Closed {
		return Result{}, fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}

	prev := ent.roster
	next, promo, err := e.transition(prev, act, standbyOnly)
	if err != nil {
		if e.metrics != nil {
			e.metrics.ActionFailures.WithLabelValues(string(act.Kind)).Inc()
		}
		return Result{}, err
	}

	if err := e.store.SaveRoster(ctx, next); err != nil {
		// ent.roster was never reassigned: memory still matches the last
		// durable snapshot.
		if e.metrics != nil {
			e.metrics.PersistFailures.Inc()
		}
		e.logger.Error("roster persist failed",
			logpkg.Str("session", sessionID),
			logpkg.Str("kind", string(act.Kind)),
			logpkg.Err(err),
		)
		return Result{}, fmt.Errorf("%w: session %s: %v", ErrPersistence, sessionID, err)
	}
	ent.roster = next

	res := Result{Roster: next}
	if promo != nil {
		res.Promotion = &PromotionEvent{SessionID: sessionID, User: promo.User}
		e.appendEvent(ctx, eventfeed.Event{Type: eventfeed.TypePromotion, Session: sessionID, User: promo.User})
		if e.metrics != nil {
			e.metrics.Promotions.Inc()
		}
	}
	if e.metrics != nil {
		e.metrics.Actions.WithLabelValues(string(act.Kind)).Inc()
	}
	e.logger.Debug("action applied",
		logpkg.Str("session", sessionID),
		logpkg.Str("kind", string(act.Kind)),
		logpkg.Str("user", act.User),
		logpkg.Uint64("version", next.Version),
	)
	return res, nil
}

// CloseSession persists the terminal roster under the history prefix,
// retires the registry entry, settles attendance stats from check-ins, and
// emits a session_closed event.
func (e *Engine) CloseSession(ctx context.Context, sessionID string) (roster.Roster, error) {
	ent, err := e.reg.lookup(sessionID)
	if err != nil {
		return roster.Roster{}, err
	}

	ent.mu.Lock()
	if ent.roster.Closed {
		ent.mu.Unlock()
		return roster.Roster{}, fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}
	closed := ent.roster.MarkClosed()
	if err := e.store.Archive(ctx, closed); err != nil {
		ent.mu.Unlock()
		if e.metrics != nil {
			e.metrics.PersistFailures.Inc()
		}
		return roster.Roster{}, fmt.Errorf("%w: close session %s: %v", ErrPersistence, sessionID, err)
	}
	ent.roster = closed
	ent.mu.Unlock()

	_ = e.reg.Retire(sessionID)

	if err := e.settleStats(ctx, closed); err != nil {
		e.logger.Error("stats settlement failed", logpkg.Str("session", sessionID), logpkg.Err(err))
	}
	e.appendEvent(ctx, eventfeed.Event{Type: eventfeed.TypeSessionClosed, Session: sessionID})
	if e.metrics != nil {
		e.metrics.SessionsLive.Dec()
	}
	e.logger.Info("session closed",
		logpkg.Str("session", sessionID),
		logpkg.Int("attended", len(closed.CheckedIn)),
		logpkg.Int("attending", len(closed.Attending)),
	)
	return closed, nil
}

func (e *Engine) transition(prev roster.Roster, act Action, standbyOnly bool) (roster.Roster, *roster.Promotion, error) {
	switch act.Kind {
	case ActionJoin:
		next, err := prev.Join(act.User, standbyOnly)
		return next, nil, err
	case ActionLeaveAttending:
		return prev.LeaveAttending(act.User)
	case ActionLeaveStandby:
		next, err := prev.LeaveStandby(act.User)
		return next, nil, err
	case ActionDecline:
		return prev.Decline(act.User)
	case ActionRelieve:
		if act.Target == "" {
			return roster.Roster{}, nil, fmt.Errorf("%w: relieve requires a target", ErrInvalidAction)
		}
		next, err := prev.Relieve(act.User, act.Target)
		return next, nil, err
	case ActionCheckIn:
		next, err := prev.CheckIn(act.User)
		return next, nil, err
	default:
		return roster.Roster{}, nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, act.Kind)
	}
}

func (e *Engine) autoStandby(st store.Stats) bool {
	if st.TotalSignups < e.cfg.AutoStandby.MinSignups {
		return false
	}
	return st.NoShowRate() >= e.cfg.AutoStandby.NoShowRate
}

// settleStats records attendance for checked-in attendees and no-shows for
// the rest of the attending list, in one atomic batch.
func (e *Engine) settleStats(ctx context.Context, closed roster.Roster) error {
	if len(closed.Attending) == 0 {
		return nil
	}
	checked := make(map[string]struct{}, len(closed.CheckedIn))
	for _, u := range closed.CheckedIn {
		checked[u] = struct{}{}
	}
	recs := make([]store.Stats, 0, len(closed.Attending))
	for _, u := range closed.Attending {
		st, err := e.store.LoadStats(ctx, u)
		if err != nil {
			return err
		}
		if _, ok := checked[u]; ok {
			st.RecordAttendance()
		} else {
			st.RecordNoShow()
		}
		recs = append(recs, st)
	}
	return e.store.SaveStatsBatch(ctx, recs)
}

// appendEvent is fire-and-forget: a failed feed append never rolls back a
// committed roster mutation, it is logged and the reader catches up from the
// snapshot.
func (e *Engine) appendEvent(ctx context.Context, ev eventfeed.Event) {
	if e.feed == nil {
		return
	}
	if _, err := e.feed.Append(ctx, ev); err != nil {
		e.logger.Error("event append failed",
			logpkg.Str("type", ev.Type),
			logpkg.Str("session", ev.Session),
			logpkg.Err(err),
		)
	}
}
