// Package signup implements the concurrency-safe orchestration around the
// pure roster state machine: the SessionRegistry holding each live roster
// with its exclusive lock, and the Engine that serializes actions per
// session, persists every mutation before acknowledging it, and appends
// promotion events to the durable feed.
//
// Per-session mutual exclusion: actions for one session apply in the order
// their lock acquisition succeeds; sessions never contend with each other.
// The durable snapshot write is the only I/O on the critical path; holding
// the lock across it means two racing actions cannot both believe they
// promoted the same standby user.
package signup
