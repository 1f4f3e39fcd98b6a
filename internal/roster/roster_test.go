package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func testRoster(maxAttending, maxStandby int) Roster {
	return New("sess-1", Meta{Name: "Tuesday Hunt", Type: "hunt", MaxAttending: maxAttending, MaxStandby: maxStandby})
}

func mustJoin(t *testing.T, r Roster, users ...string) Roster {
	t.Helper()
	for _, u := range users {
		next, err := r.Join(u, false)
		if err != nil {
			t.Fatalf("join %s: %v", u, err)
		}
		r = next
	}
	return r
}

func TestJoinFillsAttendingThenStandby(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	if !reflect.DeepEqual(r.Attending, []string{"A", "B"}) {
		t.Fatalf("attending: %v", r.Attending)
	}
	if !reflect.DeepEqual(r.Standby, []string{"C"}) {
		t.Fatalf("standby: %v", r.Standby)
	}
	if r.Version != 3 {
		t.Fatalf("version: %d", r.Version)
	}
}

func TestJoinDuplicateRejected(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A")
	if _, err := r.Join("A", false); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	// Declined users are members too.
	r2, _, err := r.Decline("A")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := r2.Join("A", false); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("declined user rejoining: %v", err)
	}
}

func TestJoinRosterFull(t *testing.T) {
	r := mustJoin(t, testRoster(1, 1), "A", "B")
	if _, err := r.Join("C", false); !errors.Is(err, ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull, got %v", err)
	}
	// The failed join left no trace.
	if len(r.Attending) != 1 || len(r.Standby) != 1 || r.Version != 2 {
		t.Fatalf("roster changed on failure: %+v", r)
	}
}

func TestJoinStandbyOnly(t *testing.T) {
	r := testRoster(2, 2)
	r, err := r.Join("A", true)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(r.Attending) != 0 || !reflect.DeepEqual(r.Standby, []string{"A"}) {
		t.Fatalf("standbyOnly routing: %+v", r)
	}
}

func TestLeaveAttendingPromotesOldestStandby(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C", "D")
	next, promo, err := r.LeaveAttending("A")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !reflect.DeepEqual(next.Attending, []string{"B", "C"}) {
		t.Fatalf("attending: %v", next.Attending)
	}
	if !reflect.DeepEqual(next.Standby, []string{"D"}) {
		t.Fatalf("standby: %v", next.Standby)
	}
	if promo == nil || promo.User != "C" {
		t.Fatalf("promotion: %+v", promo)
	}
	if next.Version != r.Version+1 {
		t.Fatalf("version must bump by one: %d → %d", r.Version, next.Version)
	}
}

func TestLeaveAttendingWithoutStandby(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B")
	next, promo, err := r.LeaveAttending("B")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if promo != nil {
		t.Fatalf("unexpected promotion: %+v", promo)
	}
	if !reflect.DeepEqual(next.Attending, []string{"A"}) {
		t.Fatalf("attending: %v", next.Attending)
	}
}

func TestLeaveAttendingNotAttending(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	if _, _, err := r.LeaveAttending("C"); !errors.Is(err, ErrNotAttending) {
		t.Fatalf("standby user leaving attending: %v", err)
	}
}

func TestLeaveStandby(t *testing.T) {
	r := mustJoin(t, testRoster(1, 2), "A", "B", "C")
	next, err := r.LeaveStandby("B")
	if err != nil {
		t.Fatalf("leave standby: %v", err)
	}
	if !reflect.DeepEqual(next.Standby, []string{"C"}) {
		t.Fatalf("standby: %v", next.Standby)
	}
	if _, err := next.LeaveStandby("A"); !errors.Is(err, ErrNotOnStandby) {
		t.Fatalf("expected ErrNotOnStandby, got %v", err)
	}
}

func TestDeclineCascadesPromotion(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	next, promo, err := r.Decline("A")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if !reflect.DeepEqual(next.Attending, []string{"B", "C"}) {
		t.Fatalf("attending: %v", next.Attending)
	}
	if len(next.Standby) != 0 {
		t.Fatalf("standby: %v", next.Standby)
	}
	if !next.HasDeclined("A") {
		t.Fatalf("declined: %v", next.Declined)
	}
	if promo == nil || promo.User != "C" {
		t.Fatalf("promotion: %+v", promo)
	}
}

func TestDeclineFromStandbyAndRepeat(t *testing.T) {
	r := mustJoin(t, testRoster(1, 2), "A", "B")
	next, promo, err := r.Decline("B")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if promo != nil {
		t.Fatalf("standby decline must not promote")
	}
	if _, _, err := next.Decline("B"); !errors.Is(err, ErrAlreadyDeclined) {
		t.Fatalf("repeat decline: %v", err)
	}
	// A fresh outsider declining is recorded directly.
	next2, _, err := next.Decline("Z")
	if err != nil {
		t.Fatalf("outsider decline: %v", err)
	}
	if !next2.HasDeclined("Z") {
		t.Fatalf("declined: %v", next2.Declined)
	}
}

func TestRelieveNamedTarget(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	next, err := r.Relieve("A", "C")
	if err != nil {
		t.Fatalf("relieve: %v", err)
	}
	if !reflect.DeepEqual(next.Attending, []string{"B", "C"}) {
		t.Fatalf("attending: %v", next.Attending)
	}
	if len(next.Standby) != 0 {
		t.Fatalf("standby: %v", next.Standby)
	}
}

func TestRelieveErrors(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	if _, err := r.Relieve("C", "A"); !errors.Is(err, ErrNotAttending) {
		t.Fatalf("from not attending: %v", err)
	}
	if _, err := r.Relieve("A", "B"); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("target not on standby: %v", err)
	}
}

func TestCheckIn(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	next, err := r.CheckIn("A")
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if _, err := next.CheckIn("A"); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("duplicate checkin: %v", err)
	}
	if _, err := next.CheckIn("C"); !errors.Is(err, ErrNotAttending) {
		t.Fatalf("standby checkin: %v", err)
	}
	// Leaving clears the check-in mark.
	left, _, err := next.LeaveAttending("A")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(left.CheckedIn) != 0 {
		t.Fatalf("checkin should clear on leave: %v", left.CheckedIn)
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	r := mustJoin(t, testRoster(2, 2), "A", "B", "C")
	before := fmt.Sprintf("%+v", r)
	_, _, _ = r.LeaveAttending("A")
	_, _, _ = r.Decline("B")
	_, _ = r.Relieve("A", "C")
	if after := fmt.Sprintf("%+v", r); after != before {
		t.Fatalf("receiver mutated:\n%s\n%s", before, after)
	}
}

// Random action sequences keep every invariant after every step.
func TestInvariantsUnderRandomSequences(t *testing.T) {
	users := []string{"A", "B", "C", "D", "E", "F", "G"}
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		r := testRoster(3, 2)
		lastVersion := r.Version
		for step := 0; step < 30; step++ {
			u := users[rng.Intn(len(users))]
			v := users[rng.Intn(len(users))]
			var (
				next Roster
				err  error
			)
			switch rng.Intn(5) {
			case 0:
				next, err = r.Join(u, rng.Intn(4) == 0)
			case 1:
				next, _, err = r.LeaveAttending(u)
			case 2:
				next, err = r.LeaveStandby(u)
			case 3:
				next, _, err = r.Decline(u)
			case 4:
				next, err = r.Relieve(u, v)
			}
			if err != nil {
				continue
			}
			if verr := next.Validate(); verr != nil {
				t.Fatalf("iter %d step %d: invariant broken: %v (%+v)", iter, step, verr, next)
			}
			if next.Version != lastVersion+1 {
				t.Fatalf("version must increase by exactly one: %d → %d", lastVersion, next.Version)
			}
			lastVersion = next.Version
			r = next
		}
	}
}
