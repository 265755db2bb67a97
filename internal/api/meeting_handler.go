package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/meeting-api/internal/api/shared"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/redact"
	"github.com/phrazzld/meeting-api/internal/service"
)

// MeetingHandler handles meeting-related HTTP requests
type MeetingHandler struct {
	meetingService service.MeetingService
	logger         *slog.Logger
}

// NewMeetingHandler creates a new MeetingHandler
func NewMeetingHandler(meetingService service.MeetingService, logger *slog.Logger) *MeetingHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for MeetingHandler")
	}

	return &MeetingHandler{
		meetingService: meetingService,
		logger:         logger.With(slog.String("component", "meeting_handler")),
	}
}

// Routes mounts the meeting endpoints on r. Callers are expected to wrap r
// with the authentication middleware.
func (h *MeetingHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateMeeting)
	r.Get("/", h.ListOwnedMeetings)
	r.Get("/participating", h.ListParticipatingMeetings)
	r.Get("/{id}", h.GetMeeting)
	r.Put("/{id}", h.UpdateMeeting)
	r.Delete("/{id}", h.DeleteMeeting)
	r.Post("/{id}/participants", h.AddParticipant)
	r.Delete("/{id}/participants/{participantId}", h.RemoveParticipant)
}

// CreateMeeting handles POST /api/meetings requests
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateMeetingRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("create request failed validation", slog.String("error", err.Error()))
		HandleAPIError(w, r, domain.ErrEmptyMeetingTitle, "")
		return
	}

	params := domain.NewMeetingParams{
		Title:        req.Title,
		Location:     req.Location,
		Notes:        req.Notes,
		Participants: req.Participants,
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date, err := domain.ParseMeetingDate(*req.Date)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		params.Date = &date
	}

	meeting, err := h.meetingService.CreateMeeting(r.Context(), userID, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create meeting")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, MeetingMutationResponse{
		Success: true,
		Message: "Meeting created successfully",
		Meeting: meetingToResponse(meeting),
	})
}

// ListOwnedMeetings handles GET /api/meetings requests
func (h *MeetingHandler) ListOwnedMeetings(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	meetings, err := h.meetingService.ListOwnedMeetings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch meetings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeetingListResponse{Meetings: meetingsToResponse(meetings)})
}

// ListParticipatingMeetings handles GET /api/meetings/participating requests
func (h *MeetingHandler) ListParticipatingMeetings(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	meetings, err := h.meetingService.ListParticipatingMeetings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch participating meetings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeetingListResponse{Meetings: meetingsToResponse(meetings)})
}

// GetMeeting handles GET /api/meetings/{id} requests
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, meetingID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	meeting, err := h.meetingService.GetMeeting(r.Context(), userID, meetingID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch meeting")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeetingEnvelope{Meeting: meetingToResponse(meeting)})
}

// UpdateMeeting handles PUT /api/meetings/{id} requests. Fields absent from
// the body keep their value; explicit nulls reset optional fields.
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, meetingID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var update domain.MeetingUpdate
	if err := shared.DecodeJSON(w, r, &update); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(r.Context(), userID, meetingID, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update meeting")
		return
	}

	log.Debug("meeting updated",
		slog.String("meeting_id", meetingID.String()),
		slog.Bool("empty_update", update.IsEmpty()))
	shared.RespondWithJSON(w, r, http.StatusOK, MeetingMutationResponse{
		Success: true,
		Message: "Meeting updated successfully",
		Meeting: meetingToResponse(meeting),
	})
}

// DeleteMeeting handles DELETE /api/meetings/{id} requests
func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, meetingID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.meetingService.DeleteMeeting(r.Context(), userID, meetingID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete meeting")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Meeting deleted successfully",
	})
}

// AddParticipant handles POST /api/meetings/{id}/participants requests.
// The participant id is validated before the meeting is looked up.
func (h *MeetingHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req AddParticipantRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("participant request failed validation", slog.String("error", err.Error()))
		HandleAPIError(w, r, domain.ErrEmptyParticipantID, "")
		return
	}

	meetingID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	participants, err := h.meetingService.AddParticipant(r.Context(), userID, meetingID, req.ParticipantID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add participant")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParticipantsResponse{
		Success:      true,
		Message:      "Participant added successfully",
		Participants: participants,
	})
}

// RemoveParticipant handles DELETE /api/meetings/{id}/participants/{participantId} requests
func (h *MeetingHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, meetingID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	participantID, err := participantParam(r)
	if err != nil {
		log.Debug("malformed participant id", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid participant ID", err)
		return
	}

	participants, err := h.meetingService.RemoveParticipant(r.Context(), userID, meetingID, participantID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove participant")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParticipantsResponse{
		Success:      true,
		Message:      "Participant removed successfully",
		Participants: participants,
	})
}

// Liveness handles GET / requests.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Meeting Scheduler API is running"))
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
