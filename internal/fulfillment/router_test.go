package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavmarc/meetup-agent/internal/fulfillment"
	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/meetup"
)

// fakeEventsAPI is a scriptable EventsAPI implementation.
type fakeEventsAPI struct {
	events    []meetup.Event
	eventsErr error
	groups    []meetup.Group
	groupsErr error
	group     *meetup.Group
	groupErr  error
	rsvpErr   error

	searchedLocation string
	searchedText     string
	fetchedGroup     string
	rsvpEventID      string
}

func (f *fakeEventsAPI) UpcomingEvents(_ context.Context, urlname string) ([]meetup.Event, error) {
	return f.events, f.eventsErr
}

func (f *fakeEventsAPI) SearchGroups(_ context.Context, location, text string) ([]meetup.Group, error) {
	f.searchedLocation = location
	f.searchedText = text
	return f.groups, f.groupsErr
}

func (f *fakeEventsAPI) GetGroup(_ context.Context, urlname string) (*meetup.Group, error) {
	f.fetchedGroup = urlname
	return f.group, f.groupErr
}

func (f *fakeEventsAPI) RSVP(_ context.Context, eventID, answer string) error {
	f.rsvpEventID = eventID
	return f.rsvpErr
}

type requestOption func(*fulfillment.WebhookRequest)

func withParams(params map[string]string) requestOption {
	return func(r *fulfillment.WebhookRequest) { r.Result.Parameters = params }
}

func withContexts(contexts ...fulfillment.Context) requestOption {
	return func(r *fulfillment.WebhookRequest) { r.Result.Contexts = contexts }
}

func withLang(lang string) requestOption {
	return func(r *fulfillment.WebhookRequest) { r.Lang = lang }
}

func newRequest(intent fulfillment.Intent, surface fulfillment.Surface, opts ...requestOption) *fulfillment.WebhookRequest {
	req := &fulfillment.WebhookRequest{
		Lang:   "en-US",
		Result: &fulfillment.QueryResult{Action: string(intent)},
	}

	switch surface {
	case fulfillment.SurfaceScreen:
		req.OriginalRequest = &fulfillment.OriginalRequest{
			Source: "google",
			Data: &fulfillment.OriginalRequestData{
				Surface: &fulfillment.SurfaceInfo{
					Capabilities: []fulfillment.Capability{{Name: "actions.capability.SCREEN_OUTPUT"}},
				},
			},
		}
	case fulfillment.SurfaceAudio:
		req.OriginalRequest = &fulfillment.OriginalRequest{
			Source: "google",
			Data:   &fulfillment.OriginalRequestData{Surface: &fulfillment.SurfaceInfo{}},
		}
	default:
		req.OriginalRequest = &fulfillment.OriginalRequest{Source: "slack"}
	}

	for _, opt := range opts {
		opt(req)
	}
	return req
}

func newTestRouter(t *testing.T, api *fakeEventsAPI) *fulfillment.Router {
	t.Helper()
	locales, err := i18n.Load()
	require.NoError(t, err)
	return fulfillment.NewRouter(api, locales)
}

func TestRouteEveryIntentEmitsOneResponse(t *testing.T) {
	intents := []fulfillment.Intent{
		fulfillment.IntentWelcome,
		fulfillment.IntentBye,
		fulfillment.IntentAsk,
		fulfillment.IntentSearchMeetup,
		fulfillment.IntentMeetupSelected,
		fulfillment.IntentFindNextEvent,
		fulfillment.IntentConfirmationRSVPYes,
		fulfillment.IntentConfirmationEventNo,
		fulfillment.IntentConfirmationRSVPNo,
	}

	surfaces := []fulfillment.Surface{
		fulfillment.SurfaceScreen,
		fulfillment.SurfaceAudio,
		fulfillment.SurfaceChat,
	}

	for _, intent := range intents {
		for _, surface := range surfaces {
			t.Run(string(intent)+"/"+string(surface), func(t *testing.T) {
				router := newTestRouter(t, &fakeEventsAPI{})

				resp, err := router.Route(context.Background(), newRequest(intent, surface))
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.NotEmpty(t, resp.DisplayText)
			})
		}
	}
}

func TestRouteUnknownIntent(t *testing.T) {
	router := newTestRouter(t, &fakeEventsAPI{})

	resp, err := router.Route(context.Background(), newRequest("order-pizza", fulfillment.SurfaceScreen))
	require.ErrorIs(t, err, fulfillment.ErrUnroutableIntent)

	// The turn still gets exactly one rendered response.
	require.NotNil(t, resp)
	assert.Contains(t, resp.DisplayText, "problem")
}

func TestRouteHandlerFailureFallsBackToProblem(t *testing.T) {
	api := &fakeEventsAPI{eventsErr: &meetup.APIStatusError{Operation: "upcoming_events", StatusCode: 502}}
	router := newTestRouter(t, api)

	req := newRequest(fulfillment.IntentFindNextEvent, fulfillment.SurfaceScreen,
		withParams(map[string]string{"name": "golang-paris"}))

	resp, err := router.Route(context.Background(), req)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Contains(t, resp.DisplayText, "problem")
}

func TestRouteLocaleSwitch(t *testing.T) {
	router := newTestRouter(t, &fakeEventsAPI{})

	english, err := router.Route(context.Background(), newRequest(fulfillment.IntentWelcome, fulfillment.SurfaceScreen))
	require.NoError(t, err)

	french, err := router.Route(context.Background(),
		newRequest(fulfillment.IntentWelcome, fulfillment.SurfaceScreen, withLang("fr-FR")))
	require.NoError(t, err)

	// Different literal bodies, identical structural shape.
	assert.NotEqual(t, english.Speech, french.Speech)
	require.NotNil(t, english.Data.Google.RichResponse)
	require.NotNil(t, french.Data.Google.RichResponse)
	assert.Len(t, french.Data.Google.RichResponse.Items, len(english.Data.Google.RichResponse.Items))
}

func TestRouteUnsupportedLocaleFallsBack(t *testing.T) {
	router := newTestRouter(t, &fakeEventsAPI{})

	german, err := router.Route(context.Background(),
		newRequest(fulfillment.IntentBye, fulfillment.SurfaceScreen, withLang("de-DE")))
	require.NoError(t, err)

	english, err := router.Route(context.Background(), newRequest(fulfillment.IntentBye, fulfillment.SurfaceScreen))
	require.NoError(t, err)

	assert.Equal(t, english.Speech, german.Speech)
}

func TestContextRoundTrip(t *testing.T) {
	resp := &fulfillment.WebhookResponse{}
	resp.SetContext(fulfillment.ContextMeetup, fulfillment.ContextLifespan, map[string]string{"name": "foo"})

	// The platform echoes the previous turn's contexts back on the next request.
	next := newRequest(fulfillment.IntentFindNextEvent, fulfillment.SurfaceChat, withContexts(resp.ContextOut...))

	assert.Equal(t, "foo", next.ContextParameter(fulfillment.ContextMeetup, "name"))
}

func TestSetContextReplacesByName(t *testing.T) {
	resp := &fulfillment.WebhookResponse{}
	resp.SetContext(fulfillment.ContextMeetup, 5, map[string]string{"name": "first"})
	resp.SetContext(fulfillment.ContextMeetup, 5, map[string]string{"name": "second"})

	require.Len(t, resp.ContextOut, 1)
	assert.Equal(t, "second", resp.ContextOut[0].Parameters["name"])
}

func TestDetectSurface(t *testing.T) {
	tests := []struct {
		name     string
		req      *fulfillment.WebhookRequest
		expected fulfillment.Surface
	}{
		{"GoogleWithScreen", newRequest(fulfillment.IntentWelcome, fulfillment.SurfaceScreen), fulfillment.SurfaceScreen},
		{"GoogleAudioOnly", newRequest(fulfillment.IntentWelcome, fulfillment.SurfaceAudio), fulfillment.SurfaceAudio},
		{"Slack", newRequest(fulfillment.IntentWelcome, fulfillment.SurfaceChat), fulfillment.SurfaceChat},
		{"NoOriginalRequest", &fulfillment.WebhookRequest{Result: &fulfillment.QueryResult{}}, fulfillment.SurfaceChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fulfillment.DetectSurface(tt.req))
		})
	}
}
