package domain

import (
	"strings"
	"time"
)

// MeetingUpdate describes a partial update. Absent fields keep their prior
// value. Explicit null resets location, notes and participants to their
// defaults; title and date cannot be nulled.
type MeetingUpdate struct {
	Title        Optional[string]   `json:"title"`
	Date         Optional[string]   `json:"date"`
	Location     Optional[string]   `json:"location"`
	Notes        Optional[string]   `json:"notes"`
	Participants Optional[[]string] `json:"participants"`
}

// IsEmpty reports whether no field was supplied.
func (u MeetingUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Date.Set && !u.Location.Set && !u.Notes.Set && !u.Participants.Set
}

// ApplyUpdate merges u into the meeting and refreshes UpdatedAt, even if no
// field changed. The meeting is left untouched when the update is invalid.
func (m *Meeting) ApplyUpdate(u MeetingUpdate, now time.Time) error {
	next := m.Clone()

	if u.Title.Set {
		title := strings.TrimSpace(u.Title.Value)
		if u.Title.Null || title == "" {
			return ErrEmptyMeetingTitle
		}
		next.Title = title
	}

	if u.Date.Set {
		if u.Date.Null {
			return ErrInvalidMeetingDate
		}
		date, err := ParseMeetingDate(u.Date.Value)
		if err != nil {
			return err
		}
		next.Date = date
	}

	if u.Location.Set {
		next.Location = u.Location.Value
	}

	if u.Notes.Set {
		next.Notes = u.Notes.Value
	}

	if u.Participants.Set {
		participants, err := normalizeParticipants(u.Participants.Value)
		if err != nil {
			return err
		}
		next.Participants = participants
	}

	next.Touch(now)
	if err := next.Validate(); err != nil {
		return err
	}

	*m = *next
	return nil
}
