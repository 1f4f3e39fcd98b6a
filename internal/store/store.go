package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/David2024patton/discord-attendance-bot/internal/roster"
	pebblestore "github.com/David2024patton/discord-attendance-bot/internal/storage/pebble"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Store persists roster snapshots, closed-session archives, and per-user
// attendance stats in Pebble. One durable record per session, keyed by
// session id; writes are atomic batch commits under the DB's fsync policy.
type Store struct {
	db *pebblestore.DB
}

// Open wraps the given DB.
func Open(db *pebblestore.DB) *Store {
	return &Store{db: db}
}

// SaveRoster overwrites the live snapshot for the roster's session.
func (s *Store) SaveRoster(ctx context.Context, r roster.Roster) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("store: encode roster %s: %w", r.SessionID, err)
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyRoster(r.SessionID), val, nil); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}

// LoadRoster reads the live snapshot for one session.
func (s *Store) LoadRoster(_ context.Context, sessionID string) (roster.Roster, error) {
	val, err := s.db.Get(KeyRoster(sessionID))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return roster.Roster{}, ErrNotFound
		}
		return roster.Roster{}, err
	}
	var r roster.Roster
	if err := json.Unmarshal(val, &r); err != nil {
		return roster.Roster{}, fmt.Errorf("store: decode roster %s: %w", sessionID, err)
	}
	return r, nil
}

// LoadAll scans every live roster snapshot. A missing or empty store yields
// an empty map, not an error.
func (s *Store) LoadAll(_ context.Context) (map[string]roster.Roster, error) {
	lo, hi := prefixBounds(sessPrefix)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	out := make(map[string]roster.Roster)
	for ok := it.First(); ok; ok = it.Next() {
		var r roster.Roster
		if err := json.Unmarshal(it.Value(), &r); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", it.Key(), err)
		}
		out[r.SessionID] = r
	}
	return out, nil
}

// DeleteRoster removes a session's live snapshot.
func (s *Store) DeleteRoster(ctx context.Context, sessionID string) error {
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(KeyRoster(sessionID), nil); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}

// Archive writes the terminal roster under the history prefix and removes
// the live snapshot in one atomic batch.
func (s *Store) Archive(ctx context.Context, r roster.Roster) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("store: encode archive %s: %w", r.SessionID, err)
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyHistory(r.SessionID), val, nil); err != nil {
		return err
	}
	if err := b.Delete(KeyRoster(r.SessionID), nil); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}

// LoadArchived reads a closed session's terminal roster.
func (s *Store) LoadArchived(_ context.Context, sessionID string) (roster.Roster, error) {
	val, err := s.db.Get(KeyHistory(sessionID))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return roster.Roster{}, ErrNotFound
		}
		return roster.Roster{}, err
	}
	var r roster.Roster
	if err := json.Unmarshal(val, &r); err != nil {
		return roster.Roster{}, fmt.Errorf("store: decode archive %s: %w", sessionID, err)
	}
	return r, nil
}

// ListArchived returns up to limit archived rosters in key order. limit <= 0
// means no limit.
func (s *Store) ListArchived(_ context.Context, limit int) ([]roster.Roster, error) {
	lo, hi := prefixBounds(histPrefix)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var out []roster.Roster
	for ok := it.First(); ok; ok = it.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var r roster.Roster
		if err := json.Unmarshal(it.Value(), &r); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", it.Key(), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadStats reads a user's attendance stats. A user with no history gets a
// zero-valued record, not an error.
func (s *Store) LoadStats(_ context.Context, user string) (Stats, error) {
	val, err := s.db.Get(KeyStats(user))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Stats{User: user}, nil
		}
		return Stats{}, err
	}
	var st Stats
	if err := json.Unmarshal(val, &st); err != nil {
		return Stats{}, fmt.Errorf("store: decode stats %s: %w", user, err)
	}
	return st, nil
}

// SaveStatsBatch persists a set of stats records atomically. Session close
// updates every participant in one commit.
func (s *Store) SaveStatsBatch(ctx context.Context, stats []Stats) error {
	if len(stats) == 0 {
		return nil
	}
	b := s.db.NewBatch()
	defer b.Close()
	for _, st := range stats {
		val, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("store: encode stats %s: %w", st.User, err)
		}
		if err := b.Set(KeyStats(st.User), val, nil); err != nil {
			return err
		}
	}
	return s.db.CommitBatch(ctx, b)
}
