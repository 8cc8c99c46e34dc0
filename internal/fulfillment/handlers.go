package fulfillment

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/xavmarc/meetup-agent/internal/meetup"
)

func (rt *Router) handleWelcome(_ context.Context, t *turn) (*WebhookResponse, error) {
	return t.render.Greeting(), nil
}

func (rt *Router) handleBye(_ context.Context, t *turn) (*WebhookResponse, error) {
	return t.render.Final(t.msg.Sprintf("bye")), nil
}

func (rt *Router) handleAsk(_ context.Context, t *turn) (*WebhookResponse, error) {
	return t.render.Prompt(t.msg.Sprintf("description")), nil
}

func (rt *Router) handleConfirmationNo(_ context.Context, t *turn) (*WebhookResponse, error) {
	return t.render.Prompt(t.msg.Sprintf("confirmation_no")), nil
}

// handleFindNextEvent looks up the next upcoming event of a group. The group
// comes from the intent parameter on voice surfaces and from the meetup
// context written by an earlier turn on chat.
func (rt *Router) handleFindNextEvent(ctx context.Context, t *turn) (*WebhookResponse, error) {
	urlname := t.req.Parameter(ParamName)
	if urlname == "" {
		urlname = t.req.ContextParameter(ContextMeetup, ParamName)
	}
	if urlname == "" {
		return t.render.Prompt(t.msg.Sprintf("no_selection")), nil
	}

	events, err := rt.api.UpcomingEvents(ctx, urlname)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return t.render.Prompt(t.msg.Sprintf("no_upcoming_event")), nil
	}

	event := &events[0]
	logr.FromContextOrDiscard(ctx).Info("Found upcoming event", "group", urlname, "event", event.ID)

	resp := t.render.EventCard(event)
	resp.SetContext(ContextEvent, ContextLifespan, map[string]string{
		ParamID:   event.ID,
		ParamName: event.Group.URLName,
	})
	return resp, nil
}

// handleSearchMeetup searches groups by city with an optional topic filter and
// branches on result cardinality. Boundaries are inclusive: up to 10 results
// fit a carousel, up to 30 a list, more than 30 asks for a narrower search.
func (rt *Router) handleSearchMeetup(ctx context.Context, t *turn) (*WebhookResponse, error) {
	city := t.req.Parameter(ParamCity)
	topic := t.req.Parameter(ParamType)
	if city == "" {
		return t.render.Prompt(t.msg.Sprintf("no_selection")), nil
	}

	groups, err := rt.api.SearchGroups(ctx, city, topic)
	if err != nil {
		return nil, err
	}
	logr.FromContextOrDiscard(ctx).Info("Searched groups", "city", city, "topic", topic, "count", len(groups))

	if len(groups) == 0 {
		return t.render.Prompt(t.msg.Sprintf("no_results")), nil
	}
	if len(groups) == 1 {
		resp := t.render.GroupCard(&groups[0])
		resp.SetContext(ContextMeetup, ContextLifespan, map[string]string{
			ParamName: groups[0].URLName,
		})
		return resp, nil
	}

	count := t.msg.Sprintf("groups_in_city", len(groups), city)
	switch t.surface {
	case SurfaceScreen:
		switch {
		case len(groups) <= 10:
			return t.render.GroupCarousel(groups, count+t.msg.Sprintf("choose")), nil
		case len(groups) <= 30:
			return t.render.GroupList(groups, count+t.msg.Sprintf("choose")), nil
		default:
			return t.render.Prompt(count + t.msg.Sprintf("retry_search")), nil
		}
	case SurfaceAudio:
		if len(groups) <= 10 {
			return t.render.Prompt(t.msg.Sprintf("found", t.render.JoinedNames(groups))), nil
		}
		return t.render.Prompt(count + t.msg.Sprintf("retry_search")), nil
	default:
		return t.render.GroupAttachments(count, groups), nil
	}
}

// handleMeetupSelected resolves the option the user picked from a carousel or
// list and shows that group.
func (rt *Router) handleMeetupSelected(ctx context.Context, t *turn) (*WebhookResponse, error) {
	urlname := t.req.ContextParameter(ContextOption, ParamOption)
	if urlname == "" {
		return t.render.Prompt(t.msg.Sprintf("no_selection")), nil
	}

	group, err := rt.api.GetGroup(ctx, urlname)
	if err != nil {
		return nil, err
	}

	resp := t.render.GroupCard(group)
	resp.SetContext(ContextMeetup, ContextLifespan, map[string]string{
		ParamName: group.URLName,
	})
	return resp, nil
}

// handleConfirmationRSVPYes submits an RSVP for the event stored by an earlier
// find-next-event turn. Declines map to a closed reason set; raw transport
// errors never reach the user.
func (rt *Router) handleConfirmationRSVPYes(ctx context.Context, t *turn) (*WebhookResponse, error) {
	eventID := t.req.Parameter(ParamID)
	if eventID == "" {
		eventID = t.req.ContextParameter(ContextEvent, ParamID)
	}
	if eventID == "" {
		return t.render.Prompt(t.msg.Sprintf("no_selection")), nil
	}

	if err := rt.api.RSVP(ctx, eventID, "yes"); err != nil {
		var rsvpErr *meetup.RSVPError
		if errors.As(err, &rsvpErr) {
			logr.FromContextOrDiscard(ctx).Info("RSVP declined", "event", eventID, "reason", rsvpErr.Reason)
			reason := t.msg.Sprintf(rsvpErr.Reason.MessageKey())
			return t.render.Prompt(t.msg.Sprintf("rsvp_declined", reason)), nil
		}
		return nil, err
	}

	logr.FromContextOrDiscard(ctx).Info("RSVP accepted", "event", eventID)
	return t.render.Prompt(t.msg.Sprintf("signup_ok")), nil
}
