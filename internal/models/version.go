package models

import "time"

// ChangeType identifies which facet of an api a version touched.
type ChangeType int16

// Change types recorded on a version. A version touching several aspects
// carries the union of their types.
const (
	ChangeBasic     ChangeType = 0 // basic info updated
	ChangeResponses ChangeType = 1 // response set updated
	ChangeParams    ChangeType = 2 // request params updated
	ChangeBody      ChangeType = 3 // request body JSON updated
	ChangeCreated   ChangeType = 4 // api created
	ChangeDeleted   ChangeType = 5 // api deleted
)

// ChangeSet is the set of change types recorded on a single version.
type ChangeSet []ChangeType

// Contains reports whether the set includes the given change type.
func (s ChangeSet) Contains(t ChangeType) bool {
	for _, c := range s {
		if c == t {
			return true
		}
	}

	return false
}

// Rollbackable reports whether a version with this set may be rolled back.
// Creation and deletion affect api existence itself and cannot be reversed.
func (s ChangeSet) Rollbackable() bool {
	return !s.Contains(ChangeCreated) && !s.Contains(ChangeDeleted)
}

// Int16s converts the set for storage as a smallint array.
func (s ChangeSet) Int16s() []int16 {
	out := make([]int16, len(s))
	for i, c := range s {
		out[i] = int16(c)
	}

	return out
}

// ChangeSetFromInt16s converts a stored smallint array back into a ChangeSet.
func ChangeSetFromInt16s(raw []int16) ChangeSet {
	out := make(ChangeSet, len(raw))
	for i, v := range raw {
		out[i] = ChangeType(v)
	}

	return out
}

// VersionRecord is one entry in a project's append-only version ledger.
type VersionRecord struct {
	ID        int64     `json:"version_id"`
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Changes   ChangeSet `json:"change_types"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is a ledger row joined with the acting user, as returned by
// the project history endpoint.
type HistoryEntry struct {
	VersionRecord
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar,omitempty"`
}
