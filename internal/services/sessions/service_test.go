package sessionsvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cfgpkg "github.com/David2024patton/discord-attendance-bot/internal/config"
	"github.com/David2024patton/discord-attendance-bot/internal/eventfeed"
	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	"github.com/David2024patton/discord-attendance-bot/internal/signup"
	pebblestore "github.com/David2024patton/discord-attendance-bot/internal/storage/pebble"
)

func newServiceForTest(t *testing.T) (*Service, *runtime.Runtime) {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	svc := New(rt)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, rt
}

type captureSink struct {
	ctx    context.Context
	mu     sync.Mutex
	events []eventfeed.Event
}

func (s *captureSink) Context() context.Context { return s.ctx }

func (s *captureSink) Send(ev eventfeed.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) Flush() error { return nil }

func (s *captureSink) snapshot() []eventfeed.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]eventfeed.Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestCreateListGetClose(t *testing.T) {
	svc, _ := newServiceForTest(t)
	ctx := context.Background()

	r, err := svc.CreateSession(ctx, signup.CreateOptions{SessionID: "raid-1", Name: "Friday Raid"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.SessionID != "raid-1" || r.Meta.MaxAttending != 10 {
		t.Fatalf("unexpected roster: %+v", r)
	}

	live, err := svc.ListSessions(ctx)
	if err != nil || len(live) != 1 {
		t.Fatalf("list: %v %v", live, err)
	}

	got, err := svc.GetRoster(ctx, "raid-1")
	if err != nil || got.SessionID != "raid-1" {
		t.Fatalf("get: %v %v", got, err)
	}

	if _, err := svc.CloseSession(ctx, "raid-1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Closed sessions leave the live registry but stay readable from history.
	if _, err := svc.ListSessions(ctx); err != nil {
		t.Fatalf("list after close: %v", err)
	}
	got, err = svc.GetRoster(ctx, "raid-1")
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	if !got.Closed {
		t.Fatalf("archived roster not marked closed: %+v", got)
	}
	if _, err := svc.GetRoster(ctx, "no-such"); !errors.Is(err, signup.ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestApplyRoutesThroughEngine(t *testing.T) {
	svc, _ := newServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, signup.CreateOptions{SessionID: "s1", MaxAttending: 1, MaxStandby: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: "alice"}); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	res, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: "bob"})
	if err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if len(res.Roster.Standby) != 1 || res.Roster.Standby[0] != "bob" {
		t.Fatalf("bob should be on standby: %+v", res.Roster)
	}
	res, err = svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionLeaveAttending, User: "alice"})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if res.Promotion == nil || res.Promotion.User != "bob" {
		t.Fatalf("expected bob promoted: %+v", res.Promotion)
	}
}

func TestSubscribeDeliversInOrder(t *testing.T) {
	svc, _ := newServiceForTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &captureSink{ctx: ctx}
	done := make(chan error, 1)
	go func() { done <- svc.Subscribe(ctx, 0, "", sink) }()

	if _, err := svc.CreateSession(ctx, signup.CreateOptions{SessionID: "s1", MaxAttending: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: "alice"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: "bob"}); err != nil {
		t.Fatalf("join standby: %v", err)
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionLeaveAttending, User: "alice"}); err != nil {
		t.Fatalf("leave: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		evs := sink.snapshot()
		if len(evs) >= 2 {
			if evs[0].Type != eventfeed.TypeSessionCreated {
				t.Fatalf("first event: %+v", evs[0])
			}
			if evs[1].Type != eventfeed.TypePromotion || evs[1].User != "bob" {
				t.Fatalf("second event: %+v", evs[1])
			}
			for i := 1; i < len(evs); i++ {
				if evs[i].Seq <= evs[i-1].Seq {
					t.Fatalf("out of order: %+v", evs)
				}
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for events, got %+v", evs)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("subscribe exit: %v", err)
	}
}

func TestSubscribeFilter(t *testing.T) {
	svc, _ := newServiceForTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &captureSink{ctx: ctx}
	go func() { _ = svc.Subscribe(ctx, 0, `type == "promotion"`, sink) }()

	if _, err := svc.CreateSession(ctx, signup.CreateOptions{SessionID: "s1", MaxAttending: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, u := range []string{"alice", "bob"} {
		if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: u}); err != nil {
			t.Fatalf("join %s: %v", u, err)
		}
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionLeaveAttending, User: "alice"}); err != nil {
		t.Fatalf("leave: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		evs := sink.snapshot()
		if len(evs) >= 1 {
			if evs[0].Type != eventfeed.TypePromotion || evs[0].User != "bob" {
				t.Fatalf("filtered event: %+v", evs[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for promotion event")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubscribeRejectsBadFilter(t *testing.T) {
	svc, _ := newServiceForTest(t)
	sink := &captureSink{ctx: context.Background()}
	if err := svc.Subscribe(context.Background(), 0, "type ==", sink); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestStatsRoundTrip(t *testing.T) {
	svc, _ := newServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, signup.CreateOptions{SessionID: "s1", MaxAttending: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, u := range []string{"alice", "bob"} {
		if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionJoin, User: u}); err != nil {
			t.Fatalf("join %s: %v", u, err)
		}
	}
	if _, err := svc.Apply(ctx, "s1", signup.Action{Kind: signup.ActionCheckIn, User: "alice"}); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if _, err := svc.CloseSession(ctx, "s1"); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err := svc.Stats(ctx, "alice")
	if err != nil || st.Attended != 1 || st.NoShows != 0 {
		t.Fatalf("alice stats: %+v %v", st, err)
	}
	st, err = svc.Stats(ctx, "bob")
	if err != nil || st.Attended != 0 || st.NoShows != 1 {
		t.Fatalf("bob stats: %+v %v", st, err)
	}
	// Unknown users read as a zero record.
	st, err = svc.Stats(ctx, "carol")
	if err != nil || st.TotalSignups != 0 {
		t.Fatalf("carol stats: %+v %v", st, err)
	}
}
