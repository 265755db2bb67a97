package redisstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f1c2d9e-1111-4a4b-8c8d-0123456789ab")
	assert.Equal(t, "meeting:6f1c2d9e-1111-4a4b-8c8d-0123456789ab", meetingKey(id))
	assert.Equal(t, "meetings:creator:user-1", creatorKey("user-1"))
	assert.Equal(t, "meetings:participant:user-2", participantKey("user-2"))
}

func TestDateScoreOrdersByDate(t *testing.T) {
	t.Parallel()

	early := &domain.Meeting{Date: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	late := &domain.Meeting{Date: time.Date(2025, 1, 1, 9, 0, 0, 1000, time.UTC)}
	assert.Less(t, dateScore(early), dateScore(late))
}

func TestDecodeMeeting(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	m, err := domain.NewMeeting("owner", domain.NewMeetingParams{
		Title: "Review",
		Date:  &date,
	}, time.Date(2025, 1, 1, 8, 0, 0, 123456789, time.UTC))
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	got, err := decodeMeeting(data)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(m.CreatedAt))
	assert.NotNil(t, got.Participants)

	legacy, err := decodeMeeting([]byte(`{"id":"` + m.ID.String() + `","title":"x","participants":null}`))
	require.NoError(t, err)
	assert.NotNil(t, legacy.Participants)

	_, err = decodeMeeting([]byte(`not json`))
	assert.Error(t, err)
}

func TestNewMeetingStorePanicsOnNilClient(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewRedisMeetingStore(nil, nil) })
}
