package roster

import "errors"

// Transition errors. All are pure, synchronous, and surfaced directly to the
// caller; they never leave a partially mutated roster behind.
var (
	// ErrAlreadyMember is returned by Join when the user is already in
	// attending, standby, or declined.
	ErrAlreadyMember = errors.New("roster: user already a member")
	// ErrRosterFull is returned by Join when attending and standby are both
	// at capacity.
	ErrRosterFull = errors.New("roster: attending and standby are full")
	// ErrNotAttending is returned when the acting user is not in attending.
	ErrNotAttending = errors.New("roster: user not attending")
	// ErrNotOnStandby is returned when the acting user is not on standby.
	ErrNotOnStandby = errors.New("roster: user not on standby")
	// ErrNotEligible is returned by Relieve when the named target is not on
	// standby.
	ErrNotEligible = errors.New("roster: target not eligible for relief")
	// ErrAlreadyDeclined is returned by Decline when the user already
	// declined and holds no attending/standby spot.
	ErrAlreadyDeclined = errors.New("roster: user already declined")
	// ErrAlreadyCheckedIn is returned by CheckIn on a duplicate check-in.
	ErrAlreadyCheckedIn = errors.New("roster: user already checked in")
)
