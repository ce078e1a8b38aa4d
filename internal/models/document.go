package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/puntos/internal/common"
)

// SchemaVersion is the canonical persisted-document schema. Versions below
// it are the shapes written by earlier variants of the tracker and are
// accepted on load through a one-way migration.
const SchemaVersion = 2

// document is the canonical on-disk / on-wire shape (schema v2).
type document struct {
	Schema      int                   `json:"schema"`
	Users       map[string]*UserState `json:"users"`
	CurrentUser string                `json:"current_user"`
	Missions    []Mission             `json:"missions"`
	LastUpdated time.Time             `json:"last_updated"`
	Origin      string                `json:"origin,omitempty"`
}

// legacyEntry matches the camelCase entry shape of the pre-schema variants.
// IDs were numeric creation timestamps back then, hence the raw field.
type legacyEntry struct {
	ID           json.RawMessage `json:"id"`
	Points       int             `json:"points"`
	Type         string          `json:"type"`
	Reason       string          `json:"reason"`
	Timestamp    string          `json:"timestamp"`
	RunningTotal int             `json:"runningTotal"`
	IsBulk       bool            `json:"isBulk"`
	BulkQuantity int             `json:"bulkQuantity"`
	User         string          `json:"user"`
}

type legacyMission struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Target      int             `json:"target"`
	Progress    int             `json:"progress"`
	Condition   string          `json:"condition"`
	Reward      int             `json:"reward"`
	Completed   bool            `json:"completed"`
}

type legacyUser struct {
	Entries      []legacyEntry `json:"entries"`
	CurrentScore int           `json:"currentScore"`
}

// legacyDocument covers both pre-schema shapes at once: the single-user
// variant (entries + currentScore at top level) and the multi-user variant
// (users + currentUser).
type legacyDocument struct {
	Users        map[string]*legacyUser `json:"users"`
	CurrentUser  string                 `json:"currentUser"`
	Entries      []legacyEntry          `json:"entries"`
	CurrentScore int                    `json:"currentScore"`
	Missions     []legacyMission        `json:"missions"`
	LastUpdated  string                 `json:"lastUpdated"`
}

// EncodeDocument serializes a snapshot into the canonical schema.
func EncodeDocument(snap *Snapshot) ([]byte, error) {
	doc := document{
		Schema:      SchemaVersion,
		Users:       snap.State.Users,
		CurrentUser: snap.State.CurrentUser,
		Missions:    snap.State.Missions,
		LastUpdated: snap.LastUpdated,
		Origin:      snap.Origin,
	}
	return json.Marshal(doc)
}

// DecodeDocument parses a persisted document in any supported shape and
// returns a normalized snapshot. Unparseable data yields
// common.ErrCorruptDocument; callers recover by starting from the default
// state. Missing fields are defaulted, never treated as errors.
func DecodeDocument(data []byte) (*Snapshot, error) {
	var probe struct {
		Schema int `json:"schema"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptDocument, err)
	}
	if probe.Schema >= SchemaVersion {
		return decodeCanonical(data)
	}
	return decodeLegacy(data)
}

func decodeCanonical(data []byte) (*Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptDocument, err)
	}
	state := &TrackerState{
		Users:       doc.Users,
		CurrentUser: doc.CurrentUser,
		Missions:    doc.Missions,
	}
	state.Normalize()
	return &Snapshot{State: state, LastUpdated: doc.LastUpdated, Origin: doc.Origin}, nil
}

func decodeLegacy(data []byte) (*Snapshot, error) {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptDocument, err)
	}

	state := &TrackerState{Users: map[string]*UserState{}, CurrentUser: doc.CurrentUser}

	if doc.Users != nil {
		for name, u := range doc.Users {
			state.Users[name] = migrateLegacyUser(u, name)
		}
	} else {
		// Single-user shape: the whole document is one unnamed log.
		state.Users[DefaultUser] = migrateLegacyUser(
			&legacyUser{Entries: doc.Entries, CurrentScore: doc.CurrentScore}, DefaultUser)
		state.CurrentUser = DefaultUser
	}

	for _, m := range doc.Missions {
		state.Missions = append(state.Missions, Mission{
			ID:          rawToString(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Target:      m.Target,
			Progress:    m.Progress,
			Condition:   MissionCondition(m.Condition),
			Reward:      m.Reward,
			Completed:   m.Completed,
		})
	}

	state.Normalize()
	return &Snapshot{State: state, LastUpdated: parseLegacyTime(doc.LastUpdated)}, nil
}

func migrateLegacyUser(u *legacyUser, name string) *UserState {
	if u == nil {
		return &UserState{Entries: []Entry{}}
	}
	out := &UserState{Entries: make([]Entry, 0, len(u.Entries)), CurrentScore: u.CurrentScore}
	for _, le := range u.Entries {
		e := Entry{
			ID:           rawToString(le.ID),
			Kind:         KindSingle,
			Type:         EntryType(le.Type),
			Points:       le.Points,
			Reason:       le.Reason,
			Timestamp:    parseLegacyTime(le.Timestamp),
			RunningTotal: le.RunningTotal,
			User:         le.User,
		}
		if e.User == "" {
			e.User = name
		}
		if le.IsBulk {
			e.Kind = KindBulk
			e.Quantity = le.BulkQuantity
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// rawToString renders a raw JSON id (number or string) as a plain string.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func parseLegacyTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
