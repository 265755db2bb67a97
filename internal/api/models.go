package api

import (
	"github.com/phrazzld/meeting-api/internal/domain"
)

// CreateMeetingRequest defines the payload for POST /api/meetings.
// A missing, null or empty date means "now".
type CreateMeetingRequest struct {
	Title        string   `json:"title" validate:"notblank"`
	Date         *string  `json:"date"`
	Location     string   `json:"location"`
	Notes        string   `json:"notes"`
	Participants []string `json:"participants"`
}

// AddParticipantRequest defines the payload for POST /api/meetings/{id}/participants.
type AddParticipantRequest struct {
	ParticipantID string `json:"participantId" validate:"notblank"`
}

// MeetingResponse is the wire form of a meeting. Timestamps are ISO-8601 strings.
type MeetingResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Location     string   `json:"location"`
	Notes        string   `json:"notes"`
	Participants []string `json:"participants"`
	CreatedBy    string   `json:"createdBy"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// MeetingMutationResponse is returned by create and update.
type MeetingMutationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Meeting MeetingResponse `json:"meeting"`
}

// MeetingEnvelope is returned by get.
type MeetingEnvelope struct {
	Meeting MeetingResponse `json:"meeting"`
}

// MeetingListResponse is returned by both list endpoints.
type MeetingListResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
}

// SuccessResponse is returned by delete.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ParticipantsResponse is returned by the participant endpoints.
type ParticipantsResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Participants []string `json:"participants"`
}

// meetingToResponse converts a domain.Meeting to a MeetingResponse
func meetingToResponse(m *domain.Meeting) MeetingResponse {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	return MeetingResponse{
		ID:           m.ID.String(),
		Title:        m.Title,
		Date:         domain.FormatTimestamp(m.Date),
		Location:     m.Location,
		Notes:        m.Notes,
		Participants: participants,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    domain.FormatTimestamp(m.CreatedAt),
		UpdatedAt:    domain.FormatTimestamp(m.UpdatedAt),
	}
}

func meetingsToResponse(meetings []*domain.Meeting) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, meetingToResponse(m))
	}
	return out
}
