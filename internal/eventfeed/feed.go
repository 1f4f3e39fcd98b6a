package eventfeed

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/David2024patton/discord-attendance-bot/internal/storage/pebble"
)

// Event types appended by the signup engine.
const (
	TypePromotion      = "promotion"
	TypeSessionCreated = "session_created"
	TypeSessionClosed  = "session_closed"
)

// Event is a single durable feed entry. Seq is assigned at append time and
// strictly increases.
type Event struct {
	Seq     uint64 `json:"seq"`
	Type    string `json:"type"`
	Session string `json:"session"`
	User    string `json:"user,omitempty"`
	TsMs    int64  `json:"tsMs"`
}

// Feed is the append-only promotion/lifecycle event log backed by Pebble.
// Delivery to consumers is at-least-once: the feed is durable and readers
// resume from any sequence number.
type Feed struct {
	db *pebblestore.DB

	mu       sync.Mutex
	lastSeq  uint64
	notifyCh chan struct{}
}

// Keyspace:
// - evt/m          last assigned sequence (8 bytes big-endian)
// - evt/e/{seq_be8} JSON-encoded Event
var (
	metaKey     = []byte("evt/m")
	entryPrefix = []byte("evt/e/")
)

func keyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return append(k, b[:]...)
}

// Open initializes the Feed and loads the last sequence from metadata.
func Open(db *pebblestore.DB) (*Feed, error) {
	f := &Feed{db: db, notifyCh: make(chan struct{})}
	meta, err := db.Get(metaKey)
	if err == nil && len(meta) >= 8 {
		f.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return f, nil
}

// Append assigns the next sequence, persists the event and metadata in one
// atomic batch, and wakes blocked readers.
func (f *Feed) Append(ctx context.Context, ev Event) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seq := f.lastSeq + 1
	ev.Seq = seq
	if ev.TsMs == 0 {
		ev.TsMs = time.Now().UnixMilli()
	}
	val, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("eventfeed: encode: %w", err)
	}

	b := f.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyEntry(seq), val, nil); err != nil {
		return 0, err
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(metaKey, meta[:], nil); err != nil {
		return 0, err
	}
	if err := f.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}

	f.lastSeq = seq
	close(f.notifyCh)
	f.notifyCh = make(chan struct{})
	return seq, nil
}

// Read returns up to limit events with Seq > after, oldest first. limit <= 0
// means no limit.
func (f *Feed) Read(after uint64, limit int) ([]Event, error) {
	lo := keyEntry(after + 1)
	hi := keyEntry(^uint64(0))
	it, err := f.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: append(hi, 0x00)})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var out []Event
	for ok := it.First(); ok; ok = it.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var ev Event
		if err := json.Unmarshal(it.Value(), &ev); err != nil {
			return nil, fmt.Errorf("eventfeed: decode %s: %w", it.Key(), err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// LastSeq returns the last assigned sequence number.
func (f *Feed) LastSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSeq
}

// WaitForAppend blocks until a new append occurs, the timeout elapses, or
// ctx is done. It returns true only when woken by an append.
func (f *Feed) WaitForAppend(ctx context.Context, timeout time.Duration) bool {
	f.mu.Lock()
	ch := f.notifyCh
	f.mu.Unlock()
	if timeout <= 0 {
		select {
		case <-ch:
			return true
		case <-ctx.Done():
			return false
		}
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}
