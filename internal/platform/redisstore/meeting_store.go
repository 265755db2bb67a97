// Package redisstore provides a Redis implementation of store.MeetingStore.
//
// Each meeting is stored as a JSON document under meeting:<id>. Two sorted
// sets per user, scored by meeting date, index the meetings a user created
// and the meetings a user participates in. Writes that touch a document and
// its indexes run in a MULTI/EXEC block guarded by WATCH on the document key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/store"
)

// maxWatchRetries bounds optimistic-lock retries when a watched key changes
// between read and write.
const maxWatchRetries = 5

const meetingKeyPrefix = "meeting:"

// RedisMeetingStore persists meetings in Redis.
type RedisMeetingStore struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisMeetingStore creates a Redis-backed meeting store.
// If logger is nil, a default logger will be used.
func NewRedisMeetingStore(client redis.UniversalClient, logger *slog.Logger) *RedisMeetingStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisMeetingStore{
		client: client,
		logger: logger.With(slog.String("component", "redis_meeting_store")),
	}
}

var _ store.MeetingStore = (*RedisMeetingStore)(nil)

func meetingKey(id uuid.UUID) string {
	return meetingKeyPrefix + id.String()
}

func creatorKey(userID string) string {
	return fmt.Sprintf("meetings:creator:%s", userID)
}

func participantKey(userID string) string {
	return fmt.Sprintf("meetings:participant:%s", userID)
}

func dateScore(m *domain.Meeting) float64 {
	return float64(m.Date.UnixMicro())
}

// Create implements store.MeetingStore.Create.
func (s *RedisMeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := meeting.Validate(); err != nil {
		return store.NewStoreError("meeting", "create", "validation failed", err)
	}

	data, err := json.Marshal(meeting)
	if err != nil {
		return store.NewStoreError("meeting", "create", "encode failed", err)
	}

	key := meetingKey(meeting.ID)
	err = s.watch(ctx, key, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return store.ErrDuplicate
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			member := meeting.ID.String()
			score := dateScore(meeting)
			pipe.ZAdd(ctx, creatorKey(meeting.CreatedBy), &redis.Z{Score: score, Member: member})
			for _, p := range meeting.Participants {
				pipe.ZAdd(ctx, participantKey(p), &redis.Z{Score: score, Member: member})
			}
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.NewStoreError("meeting", "create", "meeting ID already in use", store.ErrDuplicate)
		}
		log.Error("failed to create meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "create", "write failed", err)
	}

	log.Debug("meeting created", slog.String("meeting_id", meeting.ID.String()))
	return nil
}

// GetByID implements store.MeetingStore.GetByID.
func (s *RedisMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	m, err := s.get(ctx, s.client, id)
	if err != nil && !errors.Is(err, store.ErrMeetingNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", id.String()))
		return nil, store.NewStoreError("meeting", "get", "read failed", err)
	}
	return m, err
}

// ListByCreator implements store.MeetingStore.ListByCreator.
func (s *RedisMeetingStore) ListByCreator(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	return s.list(ctx, "list_by_creator", creatorKey(userID))
}

// ListByParticipant implements store.MeetingStore.ListByParticipant.
func (s *RedisMeetingStore) ListByParticipant(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	return s.list(ctx, "list_by_participant", participantKey(userID))
}

// Update implements store.MeetingStore.Update. The stored creator and
// creation time are kept; participant indexes are rebuilt from the diff.
func (s *RedisMeetingStore) Update(ctx context.Context, meeting *domain.Meeting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := meeting.Validate(); err != nil {
		return store.NewStoreError("meeting", "update", "validation failed", err)
	}

	key := meetingKey(meeting.ID)
	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, meeting.ID)
		if err != nil {
			return err
		}

		next := meeting.Clone()
		next.CreatedBy = current.CreatedBy
		next.CreatedAt = current.CreatedAt

		data, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			member := next.ID.String()
			score := dateScore(next)
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, creatorKey(next.CreatedBy), &redis.Z{Score: score, Member: member})
			for _, p := range current.Participants {
				if !next.HasParticipant(p) {
					pipe.ZRem(ctx, participantKey(p), member)
				}
			}
			for _, p := range next.Participants {
				pipe.ZAdd(ctx, participantKey(p), &redis.Z{Score: score, Member: member})
			}
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrMeetingNotFound) {
			return err
		}
		log.Error("failed to update meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return store.NewStoreError("meeting", "update", "write failed", err)
	}

	log.Debug("meeting updated", slog.String("meeting_id", meeting.ID.String()))
	return nil
}

// Delete implements store.MeetingStore.Delete.
func (s *RedisMeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key := meetingKey(id)
	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			member := id.String()
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, creatorKey(current.CreatedBy), member)
			for _, p := range current.Participants {
				pipe.ZRem(ctx, participantKey(p), member)
			}
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrMeetingNotFound) {
			return err
		}
		log.Error("failed to delete meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", id.String()))
		return store.NewStoreError("meeting", "delete", "write failed", err)
	}

	log.Debug("meeting deleted", slog.String("meeting_id", id.String()))
	return nil
}

// watch runs fn under WATCH key, retrying when another client wins the race.
func (s *RedisMeetingStore) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		logger.FromContextOrDefault(ctx, s.logger).Debug("watched key changed, retrying",
			slog.String("key", key),
			slog.Int("attempt", i+1))
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxWatchRetries, redis.TxFailedErr)
}

func (s *RedisMeetingStore) get(ctx context.Context, c redis.Cmdable, id uuid.UUID) (*domain.Meeting, error) {
	data, err := c.Get(ctx, meetingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrMeetingNotFound
		}
		return nil, err
	}
	return decodeMeeting(data)
}

func (s *RedisMeetingStore) list(ctx context.Context, op, indexKey string) ([]*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		log.Error("failed to read meeting index",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("meeting", op, "index read failed", err)
	}

	meetings := make([]*domain.Meeting, 0, len(ids))
	if len(ids) == 0 {
		return meetings, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, meetingKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, store.NewStoreError("meeting", op, "read failed", err)
	}

	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			// An index entry can briefly outlive its document.
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, store.NewStoreError("meeting", op, "read failed", err)
		}
		m, err := decodeMeeting(data)
		if err != nil {
			return nil, store.NewStoreError("meeting", op, "decode failed", err)
		}
		meetings = append(meetings, m)
	}
	// The index only scores by date; equal dates come back in member order.
	domain.SortByDate(meetings)

	log.Debug("meetings listed",
		slog.String("operation", op),
		slog.Int("count", len(meetings)))
	return meetings, nil
}

func decodeMeeting(data []byte) (*domain.Meeting, error) {
	var m domain.Meeting
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	m.Date = domain.Timestamp(m.Date)
	m.CreatedAt = domain.Timestamp(m.CreatedAt)
	m.UpdatedAt = domain.Timestamp(m.UpdatedAt)
	return &m, nil
}
