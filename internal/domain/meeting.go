package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the ISO-8601 layout used when rendering meeting times.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// dateLayouts lists the accepted input layouts for a meeting date, tried in order.
// Layouts without a zone are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Meeting is a scheduled meeting owned by the user who created it.
type Meeting struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Notes        string    `json:"notes"`
	Participants []string  `json:"participants"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewMeetingParams holds the caller-supplied values for a new meeting.
// A nil Date means "now".
type NewMeetingParams struct {
	Title        string
	Date         *time.Time
	Location     string
	Notes        string
	Participants []string
}

// NewMeeting creates a new Meeting owned by createdBy. It generates the ID,
// defaults the date to now and sets both timestamps to now.
// Returns an error if validation fails.
func NewMeeting(createdBy string, params NewMeetingParams, now time.Time) (*Meeting, error) {
	now = Timestamp(now)
	date := now
	if params.Date != nil {
		date = Timestamp(*params.Date)
	}

	participants, err := normalizeParticipants(params.Participants)
	if err != nil {
		return nil, err
	}

	m := &Meeting{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(params.Title),
		Date:         date,
		Location:     params.Location,
		Notes:        params.Notes,
		Participants: participants,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that the meeting satisfies the entity invariants.
func (m *Meeting) Validate() error {
	if m.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyMeetingTitle
	}
	if m.CreatedBy == "" {
		return ErrEmptyMeetingCreator
	}
	if m.Date.IsZero() {
		return ErrInvalidMeetingDate
	}
	if m.UpdatedAt.Before(m.CreatedAt) {
		return ErrMeetingTimestampOrder
	}
	for _, p := range m.Participants {
		if strings.TrimSpace(p) == "" {
			return ErrEmptyParticipantID
		}
	}
	return nil
}

// IsOwner reports whether userID created the meeting.
func (m *Meeting) IsOwner(userID string) bool {
	return userID != "" && m.CreatedBy == userID
}

// HasParticipant reports whether userID is in the participant list.
func (m *Meeting) HasParticipant(userID string) bool {
	return slices.Contains(m.Participants, userID)
}

// CanView reports whether userID may read the meeting.
func (m *Meeting) CanView(userID string) bool {
	return m.IsOwner(userID) || m.HasParticipant(userID)
}

// CanRemoveParticipant reports whether userID may remove participantID.
// The owner may remove anyone; a participant may only remove themselves.
func (m *Meeting) CanRemoveParticipant(userID, participantID string) bool {
	return m.IsOwner(userID) || (userID != "" && userID == participantID)
}

// AddParticipant appends participantID and refreshes UpdatedAt.
// Adding an existing participant is an error, not a no-op.
func (m *Meeting) AddParticipant(participantID string, now time.Time) error {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return ErrEmptyParticipantID
	}
	if m.HasParticipant(participantID) {
		return ErrParticipantExists
	}
	m.Participants = append(m.Participants, participantID)
	m.Touch(now)
	return nil
}

// RemoveParticipant removes participantID and refreshes UpdatedAt.
func (m *Meeting) RemoveParticipant(participantID string, now time.Time) error {
	idx := slices.Index(m.Participants, participantID)
	if idx < 0 {
		return ErrParticipantNotInList
	}
	m.Participants = slices.Delete(m.Participants, idx, idx+1)
	m.Touch(now)
	return nil
}

// Touch sets UpdatedAt to now, nudging it forward when the clock has not
// advanced past the previous value so UpdatedAt strictly increases.
func (m *Meeting) Touch(now time.Time) {
	now = Timestamp(now)
	if !now.After(m.UpdatedAt) {
		now = m.UpdatedAt.Add(time.Microsecond)
	}
	m.UpdatedAt = now
}

// Clone returns a deep copy of the meeting.
func (m *Meeting) Clone() *Meeting {
	c := *m
	c.Participants = slices.Clone(m.Participants)
	if c.Participants == nil {
		c.Participants = []string{}
	}
	return &c
}

// ParseMeetingDate parses a caller-supplied meeting date.
func ParseMeetingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidMeetingDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp(t), nil
		}
	}
	return time.Time{}, ErrInvalidMeetingDate
}

// FormatTimestamp renders t as an ISO-8601 UTC string with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Timestamp normalizes t to the precision every store can round-trip:
// UTC, truncated to microseconds.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// normalizeParticipants trims entries and drops duplicates, keeping the
// first occurrence. It never returns nil.
func normalizeParticipants(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, ErrEmptyParticipantID
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SortByDate orders meetings by date, then creation time, then ID so that
// listings are deterministic across stores.
func SortByDate(meetings []*Meeting) {
	slices.SortStableFunc(meetings, func(a, b *Meeting) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
