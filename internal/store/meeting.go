package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
)

// MeetingStore defines the interface for meeting persistence.
//
// Implementations return copies: callers may mutate returned meetings freely
// without affecting stored state until they call Update.
type MeetingStore interface {
	// Create saves a new meeting. The meeting must already carry its ID.
	Create(ctx context.Context, meeting *domain.Meeting) error

	// GetByID retrieves a meeting by its unique ID.
	// Returns ErrMeetingNotFound if the meeting does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)

	// ListByCreator returns all meetings created by userID, ordered by date ascending.
	ListByCreator(ctx context.Context, userID string) ([]*domain.Meeting, error)

	// ListByParticipant returns all meetings whose participants contain userID,
	// ordered by date ascending.
	ListByParticipant(ctx context.Context, userID string) ([]*domain.Meeting, error)

	// Update overwrites the mutable fields of an existing meeting (title, date,
	// location, notes, participants, updatedAt). CreatedBy and CreatedAt are
	// never written. There is no version check: the last write wins.
	// Returns ErrMeetingNotFound if the meeting does not exist.
	Update(ctx context.Context, meeting *domain.Meeting) error

	// Delete permanently removes a meeting.
	// Returns ErrMeetingNotFound if the meeting does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
