package roster

// Meta carries the session-level attributes fixed at creation time.
type Meta struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	ScheduledAt  int64  `json:"scheduledAt"` // unix ms, 0 when unscheduled
	MaxAttending int    `json:"maxAttending"`
	MaxStandby   int    `json:"maxStandby"`
}

// Roster is the per-session membership record. Attending and Standby keep
// insertion order; Declined is a set kept in first-declined order. Values are
// immutable from the caller's point of view: every transition returns a new
// Roster and never mutates the receiver.
type Roster struct {
	SessionID string `json:"sessionId"`
	Meta      Meta   `json:"meta"`

	Attending []string `json:"attending"`
	Standby   []string `json:"standby"`
	Declined  []string `json:"declined"`
	CheckedIn []string `json:"checkedIn"`

	// Version increases by exactly one per committed mutation.
	Version uint64 `json:"version"`
	Closed  bool   `json:"closed"`
}

// Promotion reports the standby user automatically moved into a freed
// attending slot by a transition.
type Promotion struct {
	User string
}

// New creates an empty roster for a freshly scheduled session.
func New(sessionID string, meta Meta) Roster {
	return Roster{SessionID: sessionID, Meta: meta}
}

func (r Roster) clone() Roster {
	c := r
	c.Attending = append([]string(nil), r.Attending...)
	c.Standby = append([]string(nil), r.Standby...)
	c.Declined = append([]string(nil), r.Declined...)
	c.CheckedIn = append([]string(nil), r.CheckedIn...)
	return c
}

func index(list []string, user string) int {
	for i, u := range list {
		if u == user {
			return i
		}
	}
	return -1
}

func remove(list []string, i int) []string {
	return append(list[:i:i], list[i+1:]...)
}

// IsAttending reports whether user holds an attending slot.
func (r Roster) IsAttending(user string) bool { return index(r.Attending, user) >= 0 }

// IsOnStandby reports whether user is on the standby queue.
func (r Roster) IsOnStandby(user string) bool { return index(r.Standby, user) >= 0 }

// HasDeclined reports whether user explicitly declined.
func (r Roster) HasDeclined(user string) bool { return index(r.Declined, user) >= 0 }

// Join claims an attending slot, or a standby slot when attending is full or
// standbyOnly is set. Fails with ErrAlreadyMember if the user is anywhere on
// the roster, and ErrRosterFull when both lists are at capacity.
func (r Roster) Join(user string, standbyOnly bool) (Roster, error) {
	if r.IsAttending(user) || r.IsOnStandby(user) || r.HasDeclined(user) {
		return Roster{}, ErrAlreadyMember
	}
	next := r.clone()
	switch {
	case !standbyOnly && len(next.Attending) < next.Meta.MaxAttending:
		next.Attending = append(next.Attending, user)
	case len(next.Standby) < next.Meta.MaxStandby:
		next.Standby = append(next.Standby, user)
	default:
		return Roster{}, ErrRosterFull
	}
	next.Version++
	return next, nil
}

// LeaveAttending releases the user's attending slot. When standby is
// non-empty the oldest standby user is promoted into the freed capacity,
// appended at the end of attending so ordering reflects join/promotion order.
func (r Roster) LeaveAttending(user string) (Roster, *Promotion, error) {
	i := index(r.Attending, user)
	if i < 0 {
		return Roster{}, nil, ErrNotAttending
	}
	next := r.clone()
	next.Attending = remove(next.Attending, i)
	if ci := index(next.CheckedIn, user); ci >= 0 {
		next.CheckedIn = remove(next.CheckedIn, ci)
	}
	var promo *Promotion
	if len(next.Standby) > 0 {
		promoted := next.Standby[0]
		next.Standby = remove(next.Standby, 0)
		next.Attending = append(next.Attending, promoted)
		promo = &Promotion{User: promoted}
	}
	next.Version++
	return next, promo, nil
}

// LeaveStandby removes the user from the standby queue. No promotion occurs.
func (r Roster) LeaveStandby(user string) (Roster, error) {
	i := index(r.Standby, user)
	if i < 0 {
		return Roster{}, ErrNotOnStandby
	}
	next := r.clone()
	next.Standby = remove(next.Standby, i)
	next.Version++
	return next, nil
}

// Decline marks the user as not attending, releasing any attending or
// standby spot they held. Releasing an attending spot cascades the same
// promotion as LeaveAttending. A repeat decline is rejected, not silently
// absorbed, so duplicate actions surface to the caller.
func (r Roster) Decline(user string) (Roster, *Promotion, error) {
	if r.HasDeclined(user) {
		return Roster{}, nil, ErrAlreadyDeclined
	}
	next := r.clone()
	var promo *Promotion
	if i := index(next.Attending, user); i >= 0 {
		next.Attending = remove(next.Attending, i)
		if ci := index(next.CheckedIn, user); ci >= 0 {
			next.CheckedIn = remove(next.CheckedIn, ci)
		}
		if len(next.Standby) > 0 {
			promoted := next.Standby[0]
			next.Standby = remove(next.Standby, 0)
			next.Attending = append(next.Attending, promoted)
			promo = &Promotion{User: promoted}
		}
	} else if i := index(next.Standby, user); i >= 0 {
		next.Standby = remove(next.Standby, i)
	}
	next.Declined = append(next.Declined, user)
	next.Version++
	return next, promo, nil
}

// Relieve transfers fromUser's attending slot to the explicitly named toUser
// from standby. The vacated capacity is reconsumed by the target, so no
// automatic promotion runs.
func (r Roster) Relieve(fromUser, toUser string) (Roster, error) {
	fi := index(r.Attending, fromUser)
	if fi < 0 {
		return Roster{}, ErrNotAttending
	}
	ti := index(r.Standby, toUser)
	if ti < 0 {
		return Roster{}, ErrNotEligible
	}
	next := r.clone()
	next.Attending = remove(next.Attending, fi)
	if ci := index(next.CheckedIn, fromUser); ci >= 0 {
		next.CheckedIn = remove(next.CheckedIn, ci)
	}
	next.Standby = remove(next.Standby, ti)
	next.Attending = append(next.Attending, toUser)
	next.Version++
	return next, nil
}

// CheckIn records the user's presence for the session. Only attending users
// can check in, once.
func (r Roster) CheckIn(user string) (Roster, error) {
	if !r.IsAttending(user) {
		return Roster{}, ErrNotAttending
	}
	if index(r.CheckedIn, user) >= 0 {
		return Roster{}, ErrAlreadyCheckedIn
	}
	next := r.clone()
	next.CheckedIn = append(next.CheckedIn, user)
	next.Version++
	return next, nil
}

// MarkClosed returns the terminal roster persisted when a session is closed.
func (r Roster) MarkClosed() Roster {
	next := r.clone()
	next.Closed = true
	next.Version++
	return next
}

// Validate checks the structural invariants: capacities respected, no
// duplicates within a list, and attending/standby/declined pairwise disjoint.
func (r Roster) Validate() error {
	if len(r.Attending) > r.Meta.MaxAttending {
		return ErrRosterFull
	}
	if len(r.Standby) > r.Meta.MaxStandby {
		return ErrRosterFull
	}
	seen := make(map[string]struct{}, len(r.Attending)+len(r.Standby)+len(r.Declined))
	for _, list := range [][]string{r.Attending, r.Standby, r.Declined} {
		for _, u := range list {
			if _, dup := seen[u]; dup {
				return ErrAlreadyMember
			}
			seen[u] = struct{}{}
		}
	}
	for _, u := range r.CheckedIn {
		if index(r.Attending, u) < 0 {
			return ErrNotAttending
		}
	}
	return nil
}
