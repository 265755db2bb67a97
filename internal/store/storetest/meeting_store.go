// Package storetest provides a behavioural test suite shared by every
// store.MeetingStore implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMeeting builds a valid meeting owned by creator on the given date.
func NewMeeting(t *testing.T, creator string, date time.Time, participants ...string) *domain.Meeting {
	t.Helper()
	m, err := domain.NewMeeting(creator, domain.NewMeetingParams{
		Title:        "Meeting " + uuid.NewString()[:8],
		Date:         &date,
		Location:     "Room 1",
		Notes:        "notes",
		Participants: participants,
	}, time.Now())
	require.NoError(t, err)
	return m
}

// RunMeetingStoreTests exercises the store.MeetingStore contract. newStore must
// return an empty, isolated store for each call.
func RunMeetingStoreTests(t *testing.T, newStore func(t *testing.T) store.MeetingStore) {
	t.Helper()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create and get round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		m := NewMeeting(t, "owner-"+uuid.NewString(), base, "a", "b")

		require.NoError(t, s.Create(ctx, m))

		got, err := s.GetByID(ctx, m.ID)
		require.NoError(t, err)
		AssertMeetingEqual(t, m, got)
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrMeetingNotFound)
	})

	t.Run("returned meetings are copies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		m := NewMeeting(t, "owner-"+uuid.NewString(), base, "a")
		require.NoError(t, s.Create(ctx, m))

		got, err := s.GetByID(ctx, m.ID)
		require.NoError(t, err)
		got.Participants[0] = "mutated"
		got.Title = "mutated"

		again, err := s.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, again.Participants)
		assert.Equal(t, m.Title, again.Title)
	})

	t.Run("list by creator is filtered and ordered by date", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		owner := "owner-" + uuid.NewString()
		other := "other-" + uuid.NewString()

		late := NewMeeting(t, owner, base.Add(48*time.Hour))
		early := NewMeeting(t, owner, base)
		foreign := NewMeeting(t, other, base.Add(time.Hour), owner)
		for _, m := range []*domain.Meeting{late, early, foreign} {
			require.NoError(t, s.Create(ctx, m))
		}

		got, err := s.ListByCreator(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, early.ID, got[0].ID)
		assert.Equal(t, late.ID, got[1].ID)

		none, err := s.ListByCreator(ctx, "nobody-"+uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("equal dates list by creation time", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		owner := "owner-" + uuid.NewString()

		first := NewMeeting(t, owner, base)
		second := NewMeeting(t, owner, base)
		// The older meeting gets the larger id so id order alone would be wrong.
		if first.ID.String() < second.ID.String() {
			first.ID, second.ID = second.ID, first.ID
		}
		first.CreatedAt = base.Add(-2 * time.Hour)
		first.UpdatedAt = first.CreatedAt
		second.CreatedAt = base.Add(-time.Hour)
		second.UpdatedAt = second.CreatedAt
		for _, m := range []*domain.Meeting{second, first} {
			require.NoError(t, s.Create(ctx, m))
		}

		got, err := s.ListByCreator(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, second.ID, got[1].ID)
	})

	t.Run("list by participant uses membership", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := "user-" + uuid.NewString()
		owner := "owner-" + uuid.NewString()

		both := NewMeeting(t, user, base.Add(2*time.Hour), user)
		invited := NewMeeting(t, owner, base, "x", user)
		notInvited := NewMeeting(t, owner, base.Add(time.Hour), "x")
		for _, m := range []*domain.Meeting{both, invited, notInvited} {
			require.NoError(t, s.Create(ctx, m))
		}

		got, err := s.ListByParticipant(ctx, user)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, invited.ID, got[0].ID)
		assert.Equal(t, both.ID, got[1].ID)

		owned, err := s.ListByCreator(ctx, user)
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, both.ID, owned[0].ID)
	})

	t.Run("update overwrites mutable fields and keeps owner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		owner := "owner-" + uuid.NewString()
		m := NewMeeting(t, owner, base, "a")
		require.NoError(t, s.Create(ctx, m))

		changed := m.Clone()
		changed.Title = "Renamed"
		changed.Location = ""
		added := "added-" + uuid.NewString()
		changed.Participants = []string{"a", added}
		changed.Date = base.Add(24 * time.Hour)
		changed.Touch(time.Now())
		changed.CreatedBy = "intruder"
		require.NoError(t, s.Update(ctx, changed))

		got, err := s.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, "", got.Location)
		assert.Equal(t, []string{"a", added}, got.Participants)
		assert.True(t, got.Date.Equal(changed.Date))
		assert.True(t, got.UpdatedAt.Equal(changed.UpdatedAt))
		assert.Equal(t, owner, got.CreatedBy)
		assert.True(t, got.CreatedAt.Equal(m.CreatedAt))

		moved, err := s.ListByParticipant(ctx, added)
		require.NoError(t, err)
		assert.Len(t, moved, 1)
	})

	t.Run("update unknown meeting", func(t *testing.T) {
		s := newStore(t)
		m := NewMeeting(t, "owner-"+uuid.NewString(), base)
		err := s.Update(context.Background(), m)
		assert.ErrorIs(t, err, store.ErrMeetingNotFound)
	})

	t.Run("delete removes meeting and indexes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		owner := "owner-" + uuid.NewString()
		guest := "guest-" + uuid.NewString()
		m := NewMeeting(t, owner, base, guest)
		require.NoError(t, s.Create(ctx, m))

		require.NoError(t, s.Delete(ctx, m.ID))

		_, err := s.GetByID(ctx, m.ID)
		assert.ErrorIs(t, err, store.ErrMeetingNotFound)

		owned, err := s.ListByCreator(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, owned)

		invited, err := s.ListByParticipant(ctx, guest)
		require.NoError(t, err)
		assert.Empty(t, invited)

		assert.ErrorIs(t, s.Delete(ctx, m.ID), store.ErrMeetingNotFound)
	})
}

// AssertMeetingEqual compares meetings field by field, using time equality
// for timestamps.
func AssertMeetingEqual(t *testing.T, want, got *domain.Meeting) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.True(t, want.Date.Equal(got.Date), "date: want %v, got %v", want.Date, got.Date)
	assert.Equal(t, want.Location, got.Location)
	assert.Equal(t, want.Notes, got.Notes)
	assert.Equal(t, want.Participants, got.Participants)
	assert.Equal(t, want.CreatedBy, got.CreatedBy)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt: want %v, got %v", want.UpdatedAt, got.UpdatedAt)
}
