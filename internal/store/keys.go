package store

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - sess/{id}/r    live roster snapshot
// - hist/{id}      terminal roster of a closed session
// - stats/{user}   per-user attendance stats

var (
	sessPrefix   = []byte("sess/")
	histPrefix   = []byte("hist/")
	statsPrefix  = []byte("stats/")
	rosterSuffix = []byte("/r")
)

// KeyRoster builds the live roster key for a session.
func KeyRoster(sessionID string) []byte {
	k := make([]byte, 0, len(sessPrefix)+len(sessionID)+len(rosterSuffix))
	k = append(k, sessPrefix...)
	k = append(k, sessionID...)
	k = append(k, rosterSuffix...)
	return k
}

// KeyHistory builds the archive key for a closed session.
func KeyHistory(sessionID string) []byte {
	k := make([]byte, 0, len(histPrefix)+len(sessionID))
	k = append(k, histPrefix...)
	k = append(k, sessionID...)
	return k
}

// KeyStats builds the per-user stats key.
func KeyStats(user string) []byte {
	k := make([]byte, 0, len(statsPrefix)+len(user))
	k = append(k, statsPrefix...)
	k = append(k, user...)
	return k
}

// prefixBounds returns [prefix, upper) bounds for a range scan.
func prefixBounds(prefix []byte) (lo, hi []byte) {
	lo = prefix
	hi = append(append([]byte{}, prefix...), 0xFF)
	return lo, hi
}
