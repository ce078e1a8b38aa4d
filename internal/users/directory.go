// Package users implements the multi-user directory: user creation,
// switching, and per-user summary stats. User names are unique and
// case-sensitive; there is no user removal.
package users

import (
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
)

// Add creates an empty log for name and makes it the active user.
// Returns common.ErrDuplicateUser when the name is already taken.
func Add(state *models.TrackerState, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrInvalidUserName
	}
	if _, ok := state.Users[name]; ok {
		return common.ErrDuplicateUser
	}
	state.Users[name] = &models.UserState{Entries: []models.Entry{}}
	state.CurrentUser = name
	return nil
}

// Switch makes name the active user. Returns common.ErrUnknownUser when no
// such user exists.
func Switch(state *models.TrackerState, name string) error {
	if _, ok := state.Users[name]; !ok {
		return common.ErrUnknownUser
	}
	state.CurrentUser = name
	return nil
}

// Summary is one user's stats line for the all-users view.
type Summary struct {
	Name      string
	Score     int
	Total     int
	Positive  int
	Negative  int
	Neutral   int
	LastEntry time.Time
	Current   bool
}

// Summaries returns per-user stats sorted by name. Counts classify entries
// by the sign of their points, matching how the all-users board groups
// them.
func Summaries(state *models.TrackerState) []Summary {
	out := make([]Summary, 0, len(state.Users))
	for name, u := range state.Users {
		s := Summary{
			Name:    name,
			Score:   u.CurrentScore,
			Total:   len(u.Entries),
			Current: name == state.CurrentUser,
		}
		for _, e := range u.Entries {
			switch {
			case e.Points > 0:
				s.Positive++
			case e.Points < 0:
				s.Negative++
			default:
				s.Neutral++
			}
		}
		if len(u.Entries) > 0 {
			s.LastEntry = u.Entries[len(u.Entries)-1].Timestamp
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
