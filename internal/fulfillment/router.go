// Package fulfillment routes Dialogflow intents to handlers and renders their
// results for the calling surface.
package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/meetup"
)

// ErrUnroutableIntent is returned when no handler is registered for the
// matched intent. The caller still answers with the generic problem response.
var ErrUnroutableIntent = errors.New("unroutable intent")

// EventsAPI is the slice of the Meetup client the handlers use.
type EventsAPI interface {
	UpcomingEvents(ctx context.Context, urlname string) ([]meetup.Event, error)
	SearchGroups(ctx context.Context, location, text string) ([]meetup.Group, error)
	GetGroup(ctx context.Context, urlname string) (*meetup.Group, error)
	RSVP(ctx context.Context, eventID, answer string) error
}

// turn bundles the request-scoped state every handler needs. A fresh turn is
// built per request; nothing here outlives it.
type turn struct {
	req     *WebhookRequest
	surface Surface
	msg     *i18n.Printer
	render  Renderer
}

type handlerFunc func(ctx context.Context, t *turn) (*WebhookResponse, error)

// Router maps intents to handlers. Route emits exactly one response per
// request, falling back to the localized problem message on any failure.
type Router struct {
	api      EventsAPI
	locales  *i18n.Bundle
	handlers map[Intent]handlerFunc
}

// NewRouter builds the static intent table.
func NewRouter(api EventsAPI, locales *i18n.Bundle) *Router {
	rt := &Router{
		api:     api,
		locales: locales,
	}
	rt.handlers = map[Intent]handlerFunc{
		IntentWelcome:             rt.handleWelcome,
		IntentBye:                 rt.handleBye,
		IntentAsk:                 rt.handleAsk,
		IntentSearchMeetup:        rt.handleSearchMeetup,
		IntentMeetupSelected:      rt.handleMeetupSelected,
		IntentFindNextEvent:       rt.handleFindNextEvent,
		IntentConfirmationRSVPYes: rt.handleConfirmationRSVPYes,
		IntentConfirmationEventNo: rt.handleConfirmationNo,
		IntentConfirmationRSVPNo:  rt.handleConfirmationNo,
	}
	return rt
}

// Route dispatches the request to its intent handler. The returned response is
// never nil; when the error is non-nil the response is the localized fallback.
func (rt *Router) Route(ctx context.Context, req *WebhookRequest) (*WebhookResponse, error) {
	msg := rt.locales.Printer(req.Locale())
	surface := DetectSurface(req)
	t := &turn{
		req:     req,
		surface: surface,
		msg:     msg,
		render:  Renderer{Msg: msg, Surface: surface},
	}

	intent := req.Intent()
	log := logr.FromContextOrDiscard(ctx).WithValues(
		"intent", intent,
		"surface", surface,
		"locale", msg.Tag().String(),
	)

	handler, ok := rt.handlers[intent]
	if !ok {
		return t.render.Problem(), fmt.Errorf("%w: %q", ErrUnroutableIntent, intent)
	}

	resp, err := handler(logr.NewContext(ctx, log), t)
	if err != nil {
		log.Error(err, "Intent handler failed, answering with fallback")
		return t.render.Problem(), err
	}
	return resp, nil
}
