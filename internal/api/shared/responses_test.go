package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/meeting-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(buf *bytes.Buffer, traceID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	ctx := logger.WithLogger(context.Background(), logger.New(buf, "debug"))
	if traceID != "" {
		ctx = WithTraceID(ctx, traceID)
	}
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{"success": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	w := httptest.NewRecorder()
	RespondWithError(w, requestWithLogger(&logs, "trace-1"), http.StatusNotFound, "Meeting not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Meeting not found","trace_id":"trace-1"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	w := httptest.NewRecorder()
	err := errors.New("dial postgres://admin:hunter2@db:5432/meetings: refused")

	RespondWithErrorAndLog(w, requestWithLogger(&logs, "trace-2"), http.StatusInternalServerError,
		"Failed to fetch meetings", err, WithDetails("store unavailable"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch meetings", body.Error)
	assert.Equal(t, "store unavailable", body.Details)
	assert.Equal(t, "trace-2", body.TraceID)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "trace-2", entry["trace_id"])
	assert.NotContains(t, logs.String(), "hunter2")
	assert.Contains(t, logs.String(), "[REDACTED_CREDENTIAL]")
}

func TestWithElevatedLogLevel(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	RespondWithErrorAndLog(httptest.NewRecorder(), requestWithLogger(&logs, ""), http.StatusUnauthorized,
		"Invalid token", errors.New("bad signature"), WithElevatedLogLevel())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
}
