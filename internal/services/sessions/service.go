package sessionsvc

import (
	"context"
	"errors"
	"time"

	"github.com/David2024patton/discord-attendance-bot/internal/eventfeed"
	"github.com/David2024patton/discord-attendance-bot/internal/roster"
	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	"github.com/David2024patton/discord-attendance-bot/internal/signup"
	"github.com/David2024patton/discord-attendance-bot/internal/store"
	logpkg "github.com/David2024patton/discord-attendance-bot/pkg/log"
)

// Service is the application facade over the signup engine, the durable
// store, and the event feed. Transports (HTTP, CLI) talk to this type only.
type Service struct {
	rt     *runtime.Runtime
	reg    *signup.Registry
	engine *signup.Engine
	logger logpkg.Logger
}

// SubscribeSink receives events from Subscribe. Send is called once per
// matching event; Flush is called after each delivered batch.
type SubscribeSink interface {
	Context() context.Context
	Send(ev eventfeed.Event) error
	Flush() error
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("sessions"))
	}
	reg := signup.NewRegistry()
	eng := signup.NewEngine(reg, rt.Store(), rt.Feed(), rt.Config(), logger, rt.Metrics())
	return &Service{rt: rt, reg: reg, engine: eng, logger: logger}
}

// Load repopulates the registry from persisted snapshots and marks the
// service ready. It must complete before any action is accepted.
func (s *Service) Load(ctx context.Context) (int, error) {
	n, err := s.reg.LoadFrom(ctx, s.rt.Store())
	if err != nil {
		return 0, err
	}
	s.logger.Info("registry loaded", logpkg.Int("sessions", n))
	return n, nil
}

// Ready reports whether startup loading has completed.
func (s *Service) Ready() bool { return s.reg.Ready() }

// CreateSession registers and persists a fresh roster.
func (s *Service) CreateSession(ctx context.Context, opts signup.CreateOptions) (roster.Roster, error) {
	return s.engine.CreateSession(ctx, opts)
}

// CloseSession archives a live session and settles attendance stats.
func (s *Service) CloseSession(ctx context.Context, sessionID string) (roster.Roster, error) {
	return s.engine.CloseSession(ctx, sessionID)
}

// ListSessions returns snapshots of every live roster, ordered by id.
func (s *Service) ListSessions(ctx context.Context) ([]roster.Roster, error) {
	return s.reg.List()
}

// GetRoster returns the live snapshot for a session, falling back to the
// archived copy when the session has been closed.
func (s *Service) GetRoster(ctx context.Context, sessionID string) (roster.Roster, error) {
	r, err := s.reg.Snapshot(sessionID)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, signup.ErrUnknownSession) {
		return roster.Roster{}, err
	}
	r, aerr := s.rt.Store().LoadArchived(ctx, sessionID)
	if aerr != nil {
		if errors.Is(aerr, store.ErrNotFound) {
			return roster.Roster{}, signup.ErrUnknownSession
		}
		return roster.Roster{}, aerr
	}
	return r, nil
}

// Apply runs one user action against a session's roster.
func (s *Service) Apply(ctx context.Context, sessionID string, act signup.Action) (signup.Result, error) {
	return s.engine.Apply(ctx, sessionID, act)
}

// Stats returns the accumulated attendance record for a user. Unknown users
// get a zero record.
func (s *Service) Stats(ctx context.Context, user string) (store.Stats, error) {
	return s.rt.Store().LoadStats(ctx, user)
}

// ListArchived returns up to limit closed rosters.
func (s *Service) ListArchived(ctx context.Context, limit int) ([]roster.Roster, error) {
	return s.rt.Store().ListArchived(ctx, limit)
}

// ReadEvents returns up to limit feed events with Seq > after.
func (s *Service) ReadEvents(ctx context.Context, after uint64, limit int) ([]eventfeed.Event, error) {
	return s.rt.Feed().Read(after, limit)
}

// LastSeq returns the feed's last assigned sequence number.
func (s *Service) LastSeq() uint64 { return s.rt.Feed().LastSeq() }

// Subscribe streams feed events with Seq > after to the sink until the
// sink's context is canceled. filter is an optional CEL expression over the
// event fields; a non-matching event is skipped but still advances the
// cursor, so delivery stays in order and at-least-once from the snapshot.
func (s *Service) Subscribe(ctx context.Context, after uint64, filter string, sink SubscribeSink) error {
	cf, err := newCELFilter(filter)
	if err != nil {
		return err
	}
	feed := s.rt.Feed()
	cursor := after
	for {
		if err := sink.Context().Err(); err != nil {
			return err
		}
		events, err := feed.Read(cursor, 128)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			feed.WaitForAppend(sink.Context(), 50*time.Millisecond)
			continue
		}
		sent := 0
		for _, ev := range events {
			cursor = ev.Seq
			if !cf.Eval(ev) {
				continue
			}
			if err := sink.Send(ev); err != nil {
				return err
			}
			sent++
		}
		if sent > 0 {
			if err := sink.Flush(); err != nil {
				return err
			}
			s.logger.Debug("events delivered",
				logpkg.Int("batch_n", sent),
				logpkg.Uint64("cursor", cursor),
			)
		}
	}
}
