package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockMeetingStore is a mock of store.MeetingStore for use with testify/mock
type TestifyMockMeetingStore struct {
	mock.Mock
}

var _ store.MeetingStore = (*TestifyMockMeetingStore)(nil)

// Create is a mock implementation of store.MeetingStore.Create
func (m *TestifyMockMeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

// GetByID is a mock implementation of store.MeetingStore.GetByID
func (m *TestifyMockMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if meeting, ok := args.Get(0).(*domain.Meeting); ok {
		return meeting, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByCreator is a mock implementation of store.MeetingStore.ListByCreator
func (m *TestifyMockMeetingStore) ListByCreator(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	args := m.Called(ctx, userID)
	if meetings, ok := args.Get(0).([]*domain.Meeting); ok {
		return meetings, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByParticipant is a mock implementation of store.MeetingStore.ListByParticipant
func (m *TestifyMockMeetingStore) ListByParticipant(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	args := m.Called(ctx, userID)
	if meetings, ok := args.Get(0).([]*domain.Meeting); ok {
		return meetings, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.MeetingStore.Update
func (m *TestifyMockMeetingStore) Update(ctx context.Context, meeting *domain.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

// Delete is a mock implementation of store.MeetingStore.Delete
func (m *TestifyMockMeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
