package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/meeting-api/internal/domain"
	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/phrazzld/meeting-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow fills scan destinations the way database/sql would for a text-protocol row.
type fakeRow struct {
	id           uuid.UUID
	title        string
	date         time.Time
	participants string
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != 9 {
		return fmt.Errorf("expected 9 destinations, got %d", len(dest))
	}
	*dest[0].(*uuid.UUID) = r.id
	*dest[1].(*string) = r.title
	*dest[2].(*time.Time) = r.date
	*dest[3].(*string) = "Room 1"
	*dest[4].(*string) = ""
	if err := dest[5].(sql.Scanner).Scan(r.participants); err != nil {
		return err
	}
	*dest[6].(*string) = "owner-1"
	*dest[7].(*time.Time) = r.date
	*dest[8].(*time.Time) = r.date
	return nil
}

func TestScanMeetingConcurrent(t *testing.T) {
	t.Parallel()

	s := NewPostgresMeetingStore(struct{ store.DBTX }{}, nil)
	date := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	const workers = 8
	const iterations = 200

	var wg sync.WaitGroup
	errs := make(chan error, workers*iterations)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				row := fakeRow{id: uuid.New(), title: "Standup", date: date, participants: "{alice,bob}"}
				m, err := s.scanMeeting(row)
				if err != nil {
					errs <- err
					continue
				}
				if len(m.Participants) != 2 || m.Participants[0] != "alice" || m.Participants[1] != "bob" {
					errs <- fmt.Errorf("unexpected participants %v", m.Participants)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestScanMeetingEmptyParticipants(t *testing.T) {
	t.Parallel()

	s := NewPostgresMeetingStore(struct{ store.DBTX }{}, nil)
	row := fakeRow{id: uuid.New(), title: "Solo", date: time.Now().UTC(), participants: "{}"}

	m, err := s.scanMeeting(row)
	require.NoError(t, err)
	assert.NotNil(t, m.Participants)
	assert.Empty(t, m.Participants)
	assert.Equal(t, "owner-1", m.CreatedBy)
}

// execErrDB fails every ExecContext with err.
type execErrDB struct {
	store.DBTX
	err error
}

func (d execErrDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, d.err
}

func TestCreateMapsInsertErrors(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		execErr   error
		wantErr   error
		wantLevel string
	}{
		{"duplicate id", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate, "WARN"},
		{"connection lost", errors.New("connection reset"), nil, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			s := NewPostgresMeetingStore(execErrDB{err: tt.execErr}, logger.New(&logs, "debug"))

			m, err := domain.NewMeeting("owner-1", domain.NewMeetingParams{Title: "Standup", Date: &date}, date)
			require.NoError(t, err)

			err = s.Create(context.Background(), m)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.execErr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.False(t, errors.Is(err, store.ErrDuplicate))
			}

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
		})
	}
}
