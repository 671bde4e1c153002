package email

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistration() (registrations.Registration, events.Event) {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return registrations.Registration{
			ID:           "r1",
			EventID:      "e1",
			StudentName:  "Ada Lovelace",
			StudentEmail: "ada@example.edu",
		}, events.Event{
			ID:        "e1",
			Title:     "Chess Night",
			Location:  "Library Room 2",
			StartDate: start,
			EndDate:   start.Add(2 * time.Hour),
		}
}

func newResendService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewService(config.EmailConfig{
		Enabled:      true,
		From:         "clubs@example.edu",
		ResendAPIKey: "test-api-key",
	}, zerolog.Nop())
	require.NoError(t, err)

	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	svc.resendClient.BaseURL = baseURL
	return svc
}

func TestRegistrationConfirmedSendsViaResend(t *testing.T) {
	var got resend.SendEmailRequest
	svc := newResendService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
	})

	reg, event := testRegistration()
	require.NoError(t, svc.RegistrationConfirmed(context.Background(), reg, event))

	assert.Equal(t, "clubs@example.edu", got.From)
	assert.Equal(t, []string{"ada@example.edu"}, got.To)
	assert.Equal(t, "You're registered: Chess Night", got.Subject)
	assert.Contains(t, got.Html, "Ada Lovelace")
	assert.Contains(t, got.Html, "Library Room 2")
}

func TestRegistrationConfirmedRateLimited(t *testing.T) {
	svc := newResendService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "60")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Rate limit exceeded"})
	})

	reg, event := testRegistration()
	err := svc.RegistrationConfirmed(context.Background(), reg, event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestRegistrationConfirmedDisabledOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewService(config.EmailConfig{}, zerolog.New(&buf))
	require.NoError(t, err)

	reg, event := testRegistration()
	require.NoError(t, svc.RegistrationConfirmed(context.Background(), reg, event))
	assert.Contains(t, buf.String(), "skipping registration confirmation")
}

func TestNewServiceRejectsBadSender(t *testing.T) {
	_, err := NewService(config.EmailConfig{Enabled: true, From: "not an address", ResendAPIKey: "k"}, zerolog.Nop())
	require.Error(t, err)
}

func TestValidateEmailAddress(t *testing.T) {
	assert.NoError(t, validateEmailAddress("student@example.edu"))
	assert.Error(t, validateEmailAddress("nope"))
	assert.Error(t, validateEmailAddress("a@example.edu\r\nBcc: b@example.edu"))
}

func TestRenderEscapesHTML(t *testing.T) {
	svc, err := NewService(config.EmailConfig{}, zerolog.Nop())
	require.NoError(t, err)

	body, err := svc.render("registration.html", RegistrationData{StudentName: "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
