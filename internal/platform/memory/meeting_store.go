// Package memory provides an in-process implementation of store.MeetingStore.
// It backs the "memory" store backend for local runs and is the store used
// by the service and API tests.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/store"
)

// MeetingStore keeps meetings in a map guarded by a RWMutex.
type MeetingStore struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*domain.Meeting
	logger   *slog.Logger
}

// NewMeetingStore creates an empty in-memory meeting store.
// If logger is nil, a default logger will be used.
func NewMeetingStore(logger *slog.Logger) *MeetingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingStore{
		meetings: make(map[uuid.UUID]*domain.Meeting),
		logger:   logger.With(slog.String("component", "memory_meeting_store")),
	}
}

var _ store.MeetingStore = (*MeetingStore)(nil)

// Create implements store.MeetingStore.Create.
func (s *MeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := meeting.Validate(); err != nil {
		return store.NewStoreError("meeting", "create", "validation failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.meetings[meeting.ID]; exists {
		return store.NewStoreError("meeting", "create", "meeting ID already in use", store.ErrDuplicate)
	}
	s.meetings[meeting.ID] = meeting.Clone()

	logger.FromContextOrDefault(ctx, s.logger).Debug("meeting created",
		slog.String("meeting_id", meeting.ID.String()))
	return nil
}

// GetByID implements store.MeetingStore.GetByID.
func (s *MeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, store.ErrMeetingNotFound
	}
	return m.Clone(), nil
}

// ListByCreator implements store.MeetingStore.ListByCreator.
func (s *MeetingStore) ListByCreator(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	return s.list(ctx, func(m *domain.Meeting) bool { return m.CreatedBy == userID })
}

// ListByParticipant implements store.MeetingStore.ListByParticipant.
func (s *MeetingStore) ListByParticipant(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	return s.list(ctx, func(m *domain.Meeting) bool { return m.HasParticipant(userID) })
}

// Update implements store.MeetingStore.Update.
func (s *MeetingStore) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := meeting.Validate(); err != nil {
		return store.NewStoreError("meeting", "update", "validation failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.meetings[meeting.ID]
	if !ok {
		return store.ErrMeetingNotFound
	}

	next := meeting.Clone()
	next.CreatedBy = existing.CreatedBy
	next.CreatedAt = existing.CreatedAt
	s.meetings[meeting.ID] = next
	return nil
}

// Delete implements store.MeetingStore.Delete.
func (s *MeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return store.ErrMeetingNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *MeetingStore) list(ctx context.Context, match func(*domain.Meeting) bool) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]*domain.Meeting, 0)
	for _, m := range s.meetings {
		if match(m) {
			out = append(out, m.Clone())
		}
	}
	s.mu.RUnlock()

	domain.SortByDate(out)
	return out, nil
}
