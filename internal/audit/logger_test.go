package audit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) (map[string]json.RawMessage, Entry) {
	t.Helper()
	var wrapper map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &wrapper), buf.String())

	raw, ok := wrapper["audit"]
	require.True(t, ok, "missing audit field: %s", buf.String())

	var entry Entry
	require.NoError(t, json.Unmarshal(raw, &entry))
	return wrapper, entry
}

func TestLogSetsTimestampAndType(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(zerolog.New(&buf)).Log(Entry{Action: "club.create", Status: StatusSuccess})

	wrapper, entry := decodeEntry(t, &buf)
	assert.Equal(t, `"audit"`, string(wrapper["log_type"]))
	assert.Equal(t, `"club.create"`, string(wrapper["message"]))
	assert.Equal(t, "club.create", entry.Action)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestLogFromRequestUsesPrincipal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodPatch, "/api/clubs/c1", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{ID: "a1", Email: "owner@example.edu"}))

	logger.LogFromRequest(req, "club.update", "club", "c1", StatusSuccess, map[string]string{"fields": "name"})

	_, entry := decodeEntry(t, &buf)
	assert.Equal(t, "a1", entry.AdminID)
	assert.Equal(t, "owner@example.edu", entry.AdminEmail)
	assert.Equal(t, "club", entry.ResourceType)
	assert.Equal(t, "c1", entry.ResourceID)
	assert.Equal(t, "192.0.2.10", entry.IPAddress)
	assert.Equal(t, "name", entry.Details["fields"])
}

func TestLogLoginFailure(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	NewLogger(zerolog.New(&buf)).LogLogin(req, "nobody@example.edu", "", StatusFailure)

	_, entry := decodeEntry(t, &buf)
	assert.Equal(t, "admin.login", entry.Action)
	assert.Equal(t, StatusFailure, entry.Status)
	assert.Empty(t, entry.AdminID)
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() { logger.Log(Entry{Action: "x"}) })
}
