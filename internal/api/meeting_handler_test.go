package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/meeting-api/internal/api/middleware"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/mocks"
	"github.com/phrazzld/meeting-api/internal/platform/memory"
	"github.com/phrazzld/meeting-api/internal/service"
	"github.com/phrazzld/meeting-api/internal/store"
)

const (
	ownerToken    = "owner-token"
	guestToken    = "guest-token"
	strangerToken = "stranger-token"

	ownerID    = "owner-1"
	guestID    = "guest-1"
	strangerID = "stranger-1"
)

var testVerifier = mocks.TokenMapVerifier{
	ownerToken:    ownerID,
	guestToken:    guestID,
	strangerToken: strangerID,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, meetings store.MeetingStore) http.Handler {
	t.Helper()
	svc, err := service.NewMeetingService(meetings, discardLogger())
	require.NoError(t, err)

	handler := NewMeetingHandler(svc, discardLogger())
	authMiddleware := middleware.NewAuthMiddleware(testVerifier)

	r := chi.NewRouter()
	r.Route("/api/meetings", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		handler.Routes(r)
	})
	return r
}

type testClient struct {
	t      *testing.T
	router http.Handler
}

func (c testClient) do(method, path, token, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func (c testClient) create(token, body string) MeetingResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/meetings", token, body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[MeetingMutationResponse](c.t, rec).Meeting
}

func newClient(t *testing.T) (testClient, *memory.MeetingStore) {
	meetings := memory.NewMeetingStore(discardLogger())
	return testClient{t: t, router: newTestRouter(t, meetings)}, meetings
}

func TestCreateMeetingHandler(t *testing.T) {
	t.Parallel()

	t.Run("created with defaults", func(t *testing.T) {
		c, _ := newClient(t)
		before := time.Now().Add(-time.Second)

		rec := c.do(http.MethodPost, "/api/meetings", ownerToken, `{"title":"Standup"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decode[MeetingMutationResponse](t, rec)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Message)
		assert.Equal(t, "Standup", resp.Meeting.Title)
		assert.Equal(t, ownerID, resp.Meeting.CreatedBy)
		assert.Equal(t, []string{}, resp.Meeting.Participants)
		assert.Equal(t, "", resp.Meeting.Location)

		date, err := time.Parse(time.RFC3339Nano, resp.Meeting.Date)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), date, time.Minute)
		assert.True(t, date.After(before))
		assert.Equal(t, resp.Meeting.CreatedAt, resp.Meeting.UpdatedAt)
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"location":"Room 1"}`},
		{"empty title", `{"title":"   "}`},
		{"bad date", `{"title":"Sync","date":"not-a-date"}`},
		{"malformed json", `{"title":`},
		{"no body", ``},
		{"blank participant", `{"title":"Sync","participants":[""]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, meetings := newClient(t)

			rec := c.do(http.MethodPost, "/api/meetings", ownerToken, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]interface{}](t, rec)["error"])

			owned, err := meetings.ListByCreator(context.Background(), ownerID)
			require.NoError(t, err)
			assert.Empty(t, owned, "nothing may be persisted")
		})
	}
}

func TestGetMeetingHandler(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t)
	created := c.create(ownerToken, `{"title":"Review","date":"2025-04-01T14:00:00Z","location":"Room 2","notes":"n","participants":["guest-1"]}`)
	path := "/api/meetings/" + created.ID

	rec := c.do(http.MethodGet, path, ownerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[MeetingEnvelope](t, rec).Meeting
	assert.Equal(t, created, got)
	assert.Equal(t, "2025-04-01T14:00:00.000Z", got.Date)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, path, guestToken, "").Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, path, strangerToken, "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/meetings/"+uuid.NewString(), ownerToken, "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/meetings/not-a-uuid", ownerToken, "").Code)
}

func TestUpdateMeetingHandler(t *testing.T) {
	t.Parallel()

	t.Run("location only", func(t *testing.T) {
		c, _ := newClient(t)
		created := c.create(ownerToken, `{"title":"Review","date":"2025-04-01T14:00:00Z","notes":"n","participants":["guest-1"]}`)

		rec := c.do(http.MethodPut, "/api/meetings/"+created.ID, ownerToken, `{"location":"Room 9"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[MeetingMutationResponse](t, rec)
		assert.True(t, resp.Success)

		updated := resp.Meeting
		assert.Equal(t, "Room 9", updated.Location)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Date, updated.Date)
		assert.Equal(t, created.Notes, updated.Notes)
		assert.Equal(t, created.Participants, updated.Participants)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)

		before, _ := time.Parse(time.RFC3339Nano, created.UpdatedAt)
		after, _ := time.Parse(time.RFC3339Nano, updated.UpdatedAt)
		assert.False(t, after.Before(before), "updatedAt must not go backwards")
	})

	t.Run("nulls reset optional fields", func(t *testing.T) {
		c, _ := newClient(t)
		created := c.create(ownerToken, `{"title":"Review","location":"L","notes":"N","participants":["guest-1"]}`)

		rec := c.do(http.MethodPut, "/api/meetings/"+created.ID, ownerToken,
			`{"location":null,"notes":null,"participants":null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decode[MeetingMutationResponse](t, rec).Meeting
		assert.Equal(t, "", updated.Location)
		assert.Equal(t, "", updated.Notes)
		assert.Equal(t, []string{}, updated.Participants)
	})

	errorCases := []struct {
		name   string
		token  string
		path   func(id string) string
		body   string
		status int
	}{
		{"non creator", guestToken, func(id string) string { return id }, `{"title":"X"}`, http.StatusForbidden},
		{"unknown id", ownerToken, func(string) string { return uuid.NewString() }, `{"title":"X"}`, http.StatusNotFound},
		{"bad date", ownerToken, func(id string) string { return id }, `{"date":"31/12/2025"}`, http.StatusBadRequest},
		{"empty title", ownerToken, func(id string) string { return id }, `{"title":""}`, http.StatusBadRequest},
		{"null title", ownerToken, func(id string) string { return id }, `{"title":null}`, http.StatusBadRequest},
		{"null date", ownerToken, func(id string) string { return id }, `{"date":null}`, http.StatusBadRequest},
		{"wrong type", ownerToken, func(id string) string { return id }, `{"participants":"guest-1"}`, http.StatusBadRequest},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			c, meetings := newClient(t)
			created := c.create(ownerToken, `{"title":"Review","participants":["guest-1"]}`)
			id := uuid.MustParse(created.ID)
			before, err := meetings.GetByID(context.Background(), id)
			require.NoError(t, err)

			rec := c.do(http.MethodPut, "/api/meetings/"+tt.path(created.ID), tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			after, err := meetings.GetByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, before, after, "record must be unchanged")
		})
	}
}

func TestDeleteMeetingHandler(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t)
	created := c.create(ownerToken, `{"title":"Review","participants":["guest-1"]}`)
	path := "/api/meetings/" + created.ID

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, path, guestToken, "").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, path, ownerToken, "").Code)

	rec := c.do(http.MethodDelete, path, ownerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SuccessResponse](t, rec)
	assert.True(t, resp.Success)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, path, ownerToken, "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, path, ownerToken, "").Code)
}

func TestParticipantHandlers(t *testing.T) {
	t.Parallel()

	t.Run("add twice", func(t *testing.T) {
		c, _ := newClient(t)
		created := c.create(ownerToken, `{"title":"Review"}`)
		path := "/api/meetings/" + created.ID + "/participants"

		rec := c.do(http.MethodPost, path, ownerToken, `{"participantId":"guest-1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ParticipantsResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, []string{guestID}, resp.Participants)

		rec = c.do(http.MethodPost, path, ownerToken, `{"participantId":"guest-1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		got := decode[MeetingEnvelope](t, c.do(http.MethodGet, "/api/meetings/"+created.ID, ownerToken, "")).Meeting
		assert.Equal(t, []string{guestID}, got.Participants)
	})

	t.Run("add validation precedes lookup", func(t *testing.T) {
		c, _ := newClient(t)
		rec := c.do(http.MethodPost, "/api/meetings/"+uuid.NewString()+"/participants", ownerToken, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = c.do(http.MethodPost, "/api/meetings/"+uuid.NewString()+"/participants", ownerToken, `{"participantId":" \t "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Participant ID is required", decode[map[string]interface{}](t, rec)["error"])

		rec = c.do(http.MethodPost, "/api/meetings/"+uuid.NewString()+"/participants", ownerToken, `{"participantId":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("add by non creator", func(t *testing.T) {
		c, _ := newClient(t)
		created := c.create(ownerToken, `{"title":"Review","participants":["guest-1"]}`)
		rec := c.do(http.MethodPost, "/api/meetings/"+created.ID+"/participants", guestToken, `{"participantId":"x"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	removeCases := []struct {
		name        string
		token       string
		participant string
		status      int
	}{
		{"creator removes participant", ownerToken, guestID, http.StatusOK},
		{"participant removes self", guestToken, guestID, http.StatusOK},
		{"participant removes other", guestToken, "guest-2", http.StatusForbidden},
		{"stranger removes", strangerToken, guestID, http.StatusForbidden},
		{"absent participant", ownerToken, "nobody", http.StatusBadRequest},
	}
	for _, tt := range removeCases {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t)
			created := c.create(ownerToken, `{"title":"Review","participants":["guest-1","guest-2"]}`)

			rec := c.do(http.MethodDelete, "/api/meetings/"+created.ID+"/participants/"+tt.participant, tt.token, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				resp := decode[ParticipantsResponse](t, rec)
				assert.NotContains(t, resp.Participants, tt.participant)
			}
		})
	}

	t.Run("remove ids with reserved characters", func(t *testing.T) {
		c, _ := newClient(t)
		created := c.create(ownerToken, `{"title":"Review","participants":["team/alice","bob smith","100%"]}`)
		base := "/api/meetings/" + created.ID + "/participants/"

		rec := c.do(http.MethodDelete, base+"team%2Falice", ownerToken, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"bob smith", "100%"}, decode[ParticipantsResponse](t, rec).Participants)

		rec = c.do(http.MethodDelete, base+"bob%20smith", ownerToken, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"100%"}, decode[ParticipantsResponse](t, rec).Participants)

		rec = c.do(http.MethodDelete, base+"100%25", ownerToken, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, decode[ParticipantsResponse](t, rec).Participants)
	})

	t.Run("remove from unknown meeting", func(t *testing.T) {
		c, _ := newClient(t)
		rec := c.do(http.MethodDelete, "/api/meetings/"+uuid.NewString()+"/participants/guest-1", ownerToken, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListHandlers(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t)
	self := c.create(ownerToken, `{"title":"Self","date":"2025-06-01","participants":["owner-1"]}`)
	mine := c.create(ownerToken, `{"title":"Mine","date":"2025-01-01"}`)
	invited := c.create(guestToken, `{"title":"Invite","participants":["owner-1"]}`)
	c.create(guestToken, `{"title":"Private"}`)

	owned := decode[MeetingListResponse](t, c.do(http.MethodGet, "/api/meetings", ownerToken, "")).Meetings
	require.Len(t, owned, 2)
	assert.Equal(t, mine.ID, owned[0].ID)
	assert.Equal(t, self.ID, owned[1].ID)

	participating := decode[MeetingListResponse](t,
		c.do(http.MethodGet, "/api/meetings/participating", ownerToken, "")).Meetings
	ids := []string{}
	for _, m := range participating {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{self.ID, invited.ID}, ids)

	rec := c.do(http.MethodGet, "/api/meetings", strangerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"meetings":[]}`, rec.Body.String())
}

func TestUnauthenticatedRequestsNeverReachStore(t *testing.T) {
	t.Parallel()

	meetings := &mocks.TestifyMockMeetingStore{}
	router := newTestRouter(t, meetings)
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/meetings"},
		{http.MethodGet, "/api/meetings"},
		{http.MethodGet, "/api/meetings/participating"},
		{http.MethodGet, "/api/meetings/" + id},
		{http.MethodPut, "/api/meetings/" + id},
		{http.MethodDelete, "/api/meetings/" + id},
		{http.MethodPost, "/api/meetings/" + id + "/participants"},
		{http.MethodDelete, "/api/meetings/" + id + "/participants/guest-1"},
	}
	headers := []string{"", "Bearer", "Token abc", "Bearer unknown-token", "Bearer a b"}

	for _, route := range routes {
		for _, header := range headers {
			req := httptest.NewRequest(route.method, route.path, bytes.NewBufferString(`{"title":"x"}`))
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with %q", route.method, route.path, header)
		}
	}

	assert.Empty(t, meetings.Calls, "store must not be touched")
}

func TestStoreFailureReturns500WithDetails(t *testing.T) {
	t.Parallel()

	meetings := &mocks.TestifyMockMeetingStore{}
	meetings.On("ListByCreator", mock.Anything, ownerID).Return(nil, errors.New("firestore unavailable"))

	c := testClient{t: t, router: newTestRouter(t, meetings)}
	rec := c.do(http.MethodGet, "/api/meetings", ownerToken, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Failed to fetch meetings", body["error"])
	assert.Contains(t, body["details"], "firestore unavailable")
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrEmptyMeetingTitle, http.StatusBadRequest},
		{domain.ErrParticipantExists, http.StatusBadRequest},
		{domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusNotFound},
		{service.ErrNotOwned, http.StatusForbidden},
		{service.ErrNotParticipant, http.StatusForbidden},
		{service.NewMeetingServiceError("get_meeting", "meeting not found", store.ErrMeetingNotFound), http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err), "error %v", tt.err)
	}

	assert.Equal(t, "Title is required", GetSafeErrorMessage(domain.ErrEmptyMeetingTitle))
	assert.Equal(t, "Meeting not found", GetSafeErrorMessage(store.ErrMeetingNotFound))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
