package models

import "time"

// DefaultUser is the user every fresh tracker starts with.
const DefaultUser = "Manu"

// UserState is one user's append-only entry log plus the derived score.
// CurrentScore always equals the sum of Points over Entries (plus already
// awarded mission rewards); it is recomputable and never trusted on its own.
type UserState struct {
	Entries      []Entry `json:"entries"`
	CurrentScore int     `json:"current_score"`
}

// Clone returns a copy with its own entry slice, so reducers can build a
// new state without mutating the input.
func (s UserState) Clone() UserState {
	entries := make([]Entry, len(s.Entries), len(s.Entries)+1)
	copy(entries, s.Entries)
	return UserState{Entries: entries, CurrentScore: s.CurrentScore}
}

// SumPoints recomputes the score from the log.
func (s UserState) SumPoints() int {
	var sum int
	for _, e := range s.Entries {
		sum += e.Points
	}
	return sum
}

// TrackerState is the whole tracked world: every user's log, the active
// user, and the mission set. Users are never deleted.
type TrackerState struct {
	Users       map[string]*UserState `json:"users"`
	CurrentUser string                `json:"current_user"`
	Missions    []Mission             `json:"missions"`
}

// NewTrackerState returns a state with a single empty user.
func NewTrackerState(user string) *TrackerState {
	if user == "" {
		user = DefaultUser
	}
	return &TrackerState{
		Users:       map[string]*UserState{user: {Entries: []Entry{}}},
		CurrentUser: user,
		Missions:    []Mission{},
	}
}

// Normalize fills in missing pieces after a load: a nil user map gets the
// default user, nil entry slices become empty, and CurrentUser falls back
// to an existing user. Loaders must default, not fail.
func (s *TrackerState) Normalize() {
	if s.Users == nil {
		s.Users = map[string]*UserState{}
	}
	if len(s.Users) == 0 {
		s.Users[DefaultUser] = &UserState{Entries: []Entry{}}
	}
	for name, u := range s.Users {
		if u == nil {
			s.Users[name] = &UserState{Entries: []Entry{}}
			continue
		}
		if u.Entries == nil {
			u.Entries = []Entry{}
		}
	}
	if _, ok := s.Users[s.CurrentUser]; !ok {
		for name := range s.Users {
			s.CurrentUser = name
			break
		}
	}
	if s.Missions == nil {
		s.Missions = []Mission{}
	}
}

// Current returns the active user's state.
func (s *TrackerState) Current() *UserState {
	return s.Users[s.CurrentUser]
}

// Clone deep-copies the state so a snapshot can leave the mutation lock.
func (s *TrackerState) Clone() *TrackerState {
	users := make(map[string]*UserState, len(s.Users))
	for name, u := range s.Users {
		c := u.Clone()
		users[name] = &c
	}
	missions := make([]Mission, len(s.Missions))
	copy(missions, s.Missions)
	return &TrackerState{Users: users, CurrentUser: s.CurrentUser, Missions: missions}
}

// Snapshot is the unit exchanged with local and remote stores: the whole
// state, the write instant used by the last-write-wins merge, and the
// origin tag identifying the writing session so a subscriber can ignore
// its own echoes.
type Snapshot struct {
	State       *TrackerState
	LastUpdated time.Time
	Origin      string
}
