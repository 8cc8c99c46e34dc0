package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavmarc/meetup-agent/internal/fulfillment"
	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/meetup"
)

type stubEventsAPI struct {
	events []meetup.Event
	groups []meetup.Group
	group  *meetup.Group
}

func (s *stubEventsAPI) UpcomingEvents(context.Context, string) ([]meetup.Event, error) {
	return s.events, nil
}

func (s *stubEventsAPI) SearchGroups(context.Context, string, string) ([]meetup.Group, error) {
	return s.groups, nil
}

func (s *stubEventsAPI) GetGroup(context.Context, string) (*meetup.Group, error) {
	return s.group, nil
}

func (s *stubEventsAPI) RSVP(context.Context, string, string) error {
	return nil
}

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	locales, err := i18n.Load()
	require.NoError(t, err)

	return NewHTTPServer(ServerConfig{
		BindAddr: ":0",
		Intents:  fulfillment.NewRouter(&stubEventsAPI{}, locales),
		Locales:  locales,
		Logger:   logr.Discard(),
		Registry: prometheus.NewRegistry(),
	})
}

func postWebhook(t *testing.T, handler http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, APIPathWebhook, bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func welcomePayload() *fulfillment.WebhookRequest {
	return &fulfillment.WebhookRequest{
		Lang:   "en-US",
		Result: &fulfillment.QueryResult{Action: string(fulfillment.IntentWelcome)},
		OriginalRequest: &fulfillment.OriginalRequest{
			Source: "google",
			Data: &fulfillment.OriginalRequestData{
				Surface: &fulfillment.SurfaceInfo{
					Capabilities: []fulfillment.Capability{{Name: "actions.capability.SCREEN_OUTPUT"}},
				},
			},
		},
	}
}

func TestHandleWebhook(t *testing.T) {
	t.Run("WelcomeEmitsRichResponse", func(t *testing.T) {
		server := newTestServer(t)

		recorder := postWebhook(t, server.Handler(), welcomePayload())
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		var resp fulfillment.WebhookResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Data)
		require.NotNil(t, resp.Data.Google)
		assert.Len(t, resp.Data.Google.RichResponse.Items, 2)
	})

	t.Run("UnknownIntentStillAnswers200WithProblem", func(t *testing.T) {
		server := newTestServer(t)

		payload := welcomePayload()
		payload.Result.Action = "order-pizza"

		recorder := postWebhook(t, server.Handler(), payload)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp fulfillment.WebhookResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Contains(t, resp.DisplayText, "problem")
	})

	t.Run("MalformedPayloadIsRejected", func(t *testing.T) {
		server := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, APIPathWebhook, bytes.NewReader([]byte("{not json")))
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("GetIsNotRouted", func(t *testing.T) {
		server := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, APIPathWebhook, nil)
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}

func TestHealthAndVersion(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, APIPathHealth, nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "ok")
	})

	t.Run("Version", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, APIPathVersion, nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var info map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &info))
		assert.Contains(t, info, "version")
	})
}

func TestRecoverMiddleware(t *testing.T) {
	server := newTestServer(t)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, APIPathWebhook, nil)
	recorder := httptest.NewRecorder()
	server.recoverMiddleware(panicking).ServeHTTP(recorder, req)

	// A panicking turn still yields exactly one rendered response.
	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp fulfillment.WebhookResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.DisplayText, "problem")
}
