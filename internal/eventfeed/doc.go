// Package eventfeed implements the durable append-only feed of promotion and
// session lifecycle events consumed by notifier adapters.
//
// Events are persisted in Pebble under big-endian sequence keys so readers
// can resume from any position; the feed itself guarantees at-least-once
// delivery and leaves dedup to the consumer.
//
//	feed, _ := eventfeed.Open(db)
//	seq, _ := feed.Append(ctx, eventfeed.Event{Type: eventfeed.TypePromotion, Session: id, User: "C"})
//	evs, _ := feed.Read(0, 100)
//	_ = feed.WaitForAppend(ctx, 200*time.Millisecond)
package eventfeed
