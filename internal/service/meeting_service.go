package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/store"
)

// MeetingService provides meeting operations on behalf of a verified caller.
// Every method takes the caller's user id as its second argument.
type MeetingService interface {
	// CreateMeeting stores a new meeting owned by userID.
	CreateMeeting(ctx context.Context, userID string, params domain.NewMeetingParams) (*domain.Meeting, error)

	// ListOwnedMeetings returns the meetings created by userID ordered by date.
	ListOwnedMeetings(ctx context.Context, userID string) ([]*domain.Meeting, error)

	// ListParticipatingMeetings returns the meetings listing userID as a participant.
	ListParticipatingMeetings(ctx context.Context, userID string) ([]*domain.Meeting, error)

	// GetMeeting returns a meeting visible to userID.
	GetMeeting(ctx context.Context, userID string, meetingID uuid.UUID) (*domain.Meeting, error)

	// UpdateMeeting merges update into a meeting owned by userID and returns
	// the stored result.
	UpdateMeeting(
		ctx context.Context,
		userID string,
		meetingID uuid.UUID,
		update domain.MeetingUpdate,
	) (*domain.Meeting, error)

	// DeleteMeeting permanently removes a meeting owned by userID.
	DeleteMeeting(ctx context.Context, userID string, meetingID uuid.UUID) error

	// AddParticipant appends participantID to a meeting owned by userID and
	// returns the new participant list.
	AddParticipant(ctx context.Context, userID string, meetingID uuid.UUID, participantID string) ([]string, error)

	// RemoveParticipant removes participantID from a meeting. The creator may
	// remove anyone; a participant may remove only themselves.
	RemoveParticipant(ctx context.Context, userID string, meetingID uuid.UUID, participantID string) ([]string, error)
}

// meetingServiceImpl implements the MeetingService interface
type meetingServiceImpl struct {
	meetings store.MeetingStore
	logger   *slog.Logger
	now      func() time.Time // Injectable for testing
}

var _ MeetingService = (*meetingServiceImpl)(nil)

// NewMeetingService creates a new MeetingService.
// It returns an error if the store is nil.
func NewMeetingService(meetings store.MeetingStore, logger *slog.Logger) (MeetingService, error) {
	if meetings == nil {
		return nil, domain.NewValidationError("meetings", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &meetingServiceImpl{
		meetings: meetings,
		logger:   logger.With(slog.String("component", "meeting_service")),
		now:      time.Now,
	}, nil
}

// CreateMeeting implements MeetingService.CreateMeeting
func (s *meetingServiceImpl) CreateMeeting(
	ctx context.Context,
	userID string,
	params domain.NewMeetingParams,
) (*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, ErrMissingIdentity
	}

	meeting, err := domain.NewMeeting(userID, params, s.now())
	if err != nil {
		log.Debug("rejected meeting creation", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		log.Error("failed to store meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return nil, NewMeetingServiceError("create_meeting", "failed to save meeting", err)
	}

	log.Info("meeting created",
		slog.String("meeting_id", meeting.ID.String()),
		slog.String("user_id", userID),
		slog.Int("participant_count", len(meeting.Participants)))
	return meeting, nil
}

// ListOwnedMeetings implements MeetingService.ListOwnedMeetings
func (s *meetingServiceImpl) ListOwnedMeetings(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	if userID == "" {
		return nil, ErrMissingIdentity
	}
	meetings, err := s.meetings.ListByCreator(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list owned meetings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewMeetingServiceError("list_owned", "failed to fetch meetings", err)
	}
	return meetings, nil
}

// ListParticipatingMeetings implements MeetingService.ListParticipatingMeetings
func (s *meetingServiceImpl) ListParticipatingMeetings(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	if userID == "" {
		return nil, ErrMissingIdentity
	}
	meetings, err := s.meetings.ListByParticipant(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list participating meetings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewMeetingServiceError("list_participating", "failed to fetch meetings", err)
	}
	return meetings, nil
}

// GetMeeting implements MeetingService.GetMeeting
func (s *meetingServiceImpl) GetMeeting(ctx context.Context, userID string, meetingID uuid.UUID) (*domain.Meeting, error) {
	meeting, err := s.load(ctx, "get_meeting", userID, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.CanView(userID) {
		return nil, ErrNotParticipant
	}
	return meeting, nil
}

// UpdateMeeting implements MeetingService.UpdateMeeting
func (s *meetingServiceImpl) UpdateMeeting(
	ctx context.Context,
	userID string,
	meetingID uuid.UUID,
	update domain.MeetingUpdate,
) (*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	meeting, err := s.loadOwned(ctx, "update_meeting", userID, meetingID)
	if err != nil {
		return nil, err
	}

	if err := meeting.ApplyUpdate(update, s.now()); err != nil {
		log.Debug("rejected meeting update",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meetingID.String()))
		return nil, err
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, s.storeFailure(ctx, "update_meeting", "failed to update meeting", meetingID, err)
	}

	// Read back what was stored
	updated, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, s.storeFailure(ctx, "update_meeting", "failed to reload meeting", meetingID, err)
	}

	log.Info("meeting updated",
		slog.String("meeting_id", meetingID.String()),
		slog.String("user_id", userID))
	return updated, nil
}

// DeleteMeeting implements MeetingService.DeleteMeeting
func (s *meetingServiceImpl) DeleteMeeting(ctx context.Context, userID string, meetingID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, "delete_meeting", userID, meetingID); err != nil {
		return err
	}

	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		return s.storeFailure(ctx, "delete_meeting", "failed to delete meeting", meetingID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("meeting deleted",
		slog.String("meeting_id", meetingID.String()),
		slog.String("user_id", userID))
	return nil
}

// AddParticipant implements MeetingService.AddParticipant
func (s *meetingServiceImpl) AddParticipant(
	ctx context.Context,
	userID string,
	meetingID uuid.UUID,
	participantID string,
) ([]string, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, domain.ErrEmptyParticipantID
	}

	meeting, err := s.loadOwned(ctx, "add_participant", userID, meetingID)
	if err != nil {
		return nil, err
	}

	if err := meeting.AddParticipant(participantID, s.now()); err != nil {
		return nil, err
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, s.storeFailure(ctx, "add_participant", "failed to add participant", meetingID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("participant added",
		slog.String("meeting_id", meetingID.String()),
		slog.String("participant_id", participantID))
	return meeting.Participants, nil
}

// RemoveParticipant implements MeetingService.RemoveParticipant
func (s *meetingServiceImpl) RemoveParticipant(
	ctx context.Context,
	userID string,
	meetingID uuid.UUID,
	participantID string,
) ([]string, error) {
	meeting, err := s.load(ctx, "remove_participant", userID, meetingID)
	if err != nil {
		return nil, err
	}

	if !meeting.CanRemoveParticipant(userID, participantID) {
		return nil, ErrNotOwned
	}

	if err := meeting.RemoveParticipant(participantID, s.now()); err != nil {
		return nil, err
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, s.storeFailure(ctx, "remove_participant", "failed to remove participant", meetingID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("participant removed",
		slog.String("meeting_id", meetingID.String()),
		slog.String("participant_id", participantID),
		slog.Bool("self_removal", userID == participantID))
	return meeting.Participants, nil
}

// load fetches a meeting, mapping a missing record to store.ErrMeetingNotFound.
func (s *meetingServiceImpl) load(
	ctx context.Context,
	operation, userID string,
	meetingID uuid.UUID,
) (*domain.Meeting, error) {
	if userID == "" {
		return nil, ErrMissingIdentity
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewMeetingServiceError(operation, "meeting not found", store.ErrMeetingNotFound)
		}
		return nil, s.storeFailure(ctx, operation, "failed to retrieve meeting", meetingID, err)
	}
	return meeting, nil
}

// loadOwned fetches a meeting and checks that userID created it.
func (s *meetingServiceImpl) loadOwned(
	ctx context.Context,
	operation, userID string,
	meetingID uuid.UUID,
) (*domain.Meeting, error) {
	meeting, err := s.load(ctx, operation, userID, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsOwner(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("caller does not own meeting",
			slog.String("operation", operation),
			slog.String("meeting_id", meetingID.String()),
			slog.String("user_id", userID))
		return nil, ErrNotOwned
	}
	return meeting, nil
}

func (s *meetingServiceImpl) storeFailure(
	ctx context.Context,
	operation, message string,
	meetingID uuid.UUID,
	err error,
) error {
	logger.FromContextOrDefault(ctx, s.logger).Error(message,
		slog.String("error", err.Error()),
		slog.String("operation", operation),
		slog.String("meeting_id", meetingID.String()))
	return NewMeetingServiceError(operation, message, err)
}
