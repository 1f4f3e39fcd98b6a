package signup

import "errors"

var (
	// ErrNotReady is returned while the registry has not finished loading
	// persisted sessions at startup.
	ErrNotReady = errors.New("signup: registry not ready")
	// ErrUnknownSession is returned for session ids with no live entry.
	ErrUnknownSession = errors.New("signup: unknown session")
	// ErrSessionClosed is returned when an action races session close: the
	// entry was still registered at lookup time but the roster is already
	// marked closed under its lock.
	ErrSessionClosed = errors.New("signup: session closed")
	// ErrDuplicateSession is returned when registering an id already live.
	ErrDuplicateSession = errors.New("signup: duplicate session")
	// ErrPersistence wraps a failed durable write; the in-memory roster is
	// left at its pre-transition value.
	ErrPersistence = errors.New("signup: persistence failure")
	// ErrInvalidAction is returned for malformed action requests.
	ErrInvalidAction = errors.New("signup: invalid action")
)
