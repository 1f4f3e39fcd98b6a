package store

// Stats tracks one user's attendance history across sessions.
type Stats struct {
	User         string `json:"user"`
	Attended     int    `json:"attended"`
	NoShows      int    `json:"noShows"`
	TotalSignups int    `json:"totalSignups"`
	Streak       int    `json:"streak"`
	BestStreak   int    `json:"bestStreak"`
}

// RecordAttendance counts a checked-in session and extends the streak.
func (s *Stats) RecordAttendance() {
	s.Attended++
	s.TotalSignups++
	s.Streak++
	if s.Streak > s.BestStreak {
		s.BestStreak = s.Streak
	}
}

// RecordNoShow counts a missed session and resets the streak.
func (s *Stats) RecordNoShow() {
	s.NoShows++
	s.TotalSignups++
	s.Streak = 0
}

// NoShowRate returns the no-show ratio over all recorded signups.
func (s Stats) NoShowRate() float64 {
	if s.TotalSignups == 0 {
		return 0
	}
	return float64(s.NoShows) / float64(s.TotalSignups)
}
