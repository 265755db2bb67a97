package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/store"
)

const meetingColumns = `id, title, date, location, notes, participants, created_by, created_at, updated_at`

// pgtype.Map caches type plans without locking, so each scan borrows its own.
var typeMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

// PostgresMeetingStore implements the store.MeetingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMeetingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMeetingStore creates a new PostgreSQL implementation of the MeetingStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMeetingStore(db store.DBTX, logger *slog.Logger) *PostgresMeetingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMeetingStore{
		db:     db,
		logger: logger.With(slog.String("component", "meeting_store")),
	}
}

var _ store.MeetingStore = (*PostgresMeetingStore)(nil)

// Create implements store.MeetingStore.Create.
// Returns store.ErrDuplicate if a meeting with the same ID already exists.
func (s *PostgresMeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := meeting.Validate(); err != nil {
		log.Warn("meeting validation failed during create",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "create", "validation failed", err)
	}

	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		meeting.ID,
		meeting.Title,
		meeting.Date,
		meeting.Location,
		meeting.Notes,
		participantsArg(meeting.Participants),
		meeting.CreatedBy,
		meeting.CreatedAt,
		meeting.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("meeting id already exists",
				slog.String("meeting_id", meeting.ID.String()))
			return store.NewStoreError("meeting", "create", "duplicate id", MapError(err))
		}
		log.Error("failed to create meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "create", "insert failed", MapError(err))
	}

	log.Debug("meeting created",
		slog.String("meeting_id", meeting.ID.String()),
		slog.String("created_by", meeting.CreatedBy))
	return nil
}

// GetByID implements store.MeetingStore.GetByID.
// Returns store.ErrMeetingNotFound if the meeting does not exist.
func (s *PostgresMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	meeting, err := s.scanMeeting(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("meeting not found", slog.String("meeting_id", id.String()))
			return nil, store.ErrMeetingNotFound
		}
		log.Error("failed to get meeting by ID",
			slog.String("error", err.Error()),
			slog.String("meeting_id", id.String()))
		return nil, store.NewStoreError("meeting", "get", "query failed", MapError(err))
	}
	return meeting, nil
}

// ListByCreator implements store.MeetingStore.ListByCreator.
func (s *PostgresMeetingStore) ListByCreator(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE created_by = $1
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.list(ctx, "list_by_creator", query, userID)
}

// ListByParticipant implements store.MeetingStore.ListByParticipant.
func (s *PostgresMeetingStore) ListByParticipant(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE $1 = ANY(participants)
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.list(ctx, "list_by_participant", query, userID)
}

// Update implements store.MeetingStore.Update.
// created_by and created_at are not part of the SET clause.
func (s *PostgresMeetingStore) Update(ctx context.Context, meeting *domain.Meeting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := meeting.Validate(); err != nil {
		log.Warn("meeting validation failed during update",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "update", "validation failed", err)
	}

	query := `
		UPDATE meetings
		SET title = $1, date = $2, location = $3, notes = $4, participants = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		meeting.Title,
		meeting.Date,
		meeting.Location,
		meeting.Notes,
		participantsArg(meeting.Participants),
		meeting.UpdatedAt,
		meeting.ID,
	)
	if err != nil {
		log.Error("failed to update meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrMeetingNotFound); err != nil {
		log.Debug("meeting not updated",
			slog.String("meeting_id", meeting.ID.String()),
			slog.String("reason", err.Error()))
		return err
	}

	log.Debug("meeting updated", slog.String("meeting_id", meeting.ID.String()))
	return nil
}

// Delete implements store.MeetingStore.Delete.
func (s *PostgresMeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", id.String()))
		return store.NewStoreError("meeting", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrMeetingNotFound); err != nil {
		return err
	}

	log.Debug("meeting deleted", slog.String("meeting_id", id.String()))
	return nil
}

func (s *PostgresMeetingStore) list(ctx context.Context, op, query string, userID string) ([]*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list meetings",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("meeting", op, "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	meetings := make([]*domain.Meeting, 0)
	for rows.Next() {
		m, err := s.scanMeeting(rows)
		if err != nil {
			return nil, store.NewStoreError("meeting", op, "scan failed", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("meeting", op, "row iteration failed", err)
	}

	log.Debug("meetings listed",
		slog.String("operation", op),
		slog.Int("count", len(meetings)))
	return meetings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresMeetingStore) scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var (
		m            domain.Meeting
		participants []string
	)

	types := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(types)

	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Date,
		&m.Location,
		&m.Notes,
		types.SQLScanner(&participants),
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if participants == nil {
		participants = []string{}
	}
	m.Participants = participants
	m.Date = domain.Timestamp(m.Date)
	m.CreatedAt = domain.Timestamp(m.CreatedAt)
	m.UpdatedAt = domain.Timestamp(m.UpdatedAt)
	return &m, nil
}

// participantsArg never passes a nil slice, which the driver would encode as NULL.
func participantsArg(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

