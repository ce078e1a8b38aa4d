package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/puntos/internal/missions"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/dmitrijs2005/puntos/internal/users"
)

var (
	scoreStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Border(lipgloss.RoundedBorder())
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	currentStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func styleFor(points int) lipgloss.Style {
	switch {
	case points > 0:
		return positiveStyle
	case points < 0:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// pointsLabel renders the signed delta shown next to a history row.
func pointsLabel(e models.Entry) string {
	if e.Points > 0 {
		return fmt.Sprintf("+%d", e.Points)
	}
	return fmt.Sprintf("%d", e.Points)
}

// renderScore returns the score banner for the active user.
func renderScore(user string, score int) string {
	return scoreStyle.Render(fmt.Sprintf("%s: %s", user, styleFor(score).Render(fmt.Sprintf("%d", score))))
}

// renderHistory lists entries newest-first, one row per entry.
func renderHistory(entries []models.Entry) string {
	if len(entries) == 0 {
		return "No entries yet. Add some points to get started!"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s (total %d)\n",
			styleFor(e.Points).Render(fmt.Sprintf("%4s", pointsLabel(e))),
			e.Timestamp.Format("Mon Jan 2 15:04"),
			e.Reason,
			e.RunningTotal,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMissions lists the mission set with progress and completion marks.
func renderMissions(ms []models.Mission) string {
	if len(ms) == 0 {
		return "No missions. Use 'addmission' to create one."
	}

	var b strings.Builder
	for _, m := range ms {
		mark := "·"
		if m.Completed {
			mark = doneStyle.Render("✔")
		}
		fmt.Fprintf(&b, "%s %s [%s] +%d pts on completion  (%s)\n",
			mark, m.Title, missions.Progress(m), m.Reward, m.ID)
		if m.Description != "" {
			fmt.Fprintf(&b, "    %s\n", m.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSummaries prints the all-users board.
func renderSummaries(sums []users.Summary) string {
	var b strings.Builder
	for _, s := range sums {
		name := s.Name
		if s.Current {
			name = currentStyle.Render(name + " *")
		}
		last := "no entries"
		if !s.LastEntry.IsZero() {
			last = s.LastEntry.Format(time.DateOnly)
		}
		fmt.Fprintf(&b, "%s  score %s  entries %d (+%d/-%d/0:%d)  last %s\n",
			name,
			styleFor(s.Score).Render(fmt.Sprintf("%d", s.Score)),
			s.Total, s.Positive, s.Negative, s.Neutral, last)
	}
	return strings.TrimRight(b.String(), "\n")
}
