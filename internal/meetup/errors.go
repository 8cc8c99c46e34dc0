package meetup

import (
	"fmt"
	"net/http"
)

// APIStatusError is returned when the Meetup API answers with a non-200 status.
type APIStatusError struct {
	Operation  string
	StatusCode int
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("meetup api %s returned status %d", e.Operation, e.StatusCode)
}

// RSVPReason is a closed set of user-presentable RSVP failure causes. Raw
// transport errors never reach the end user.
type RSVPReason string

const (
	RSVPReasonUnauthorized  RSVPReason = "unauthorized"
	RSVPReasonEventNotFound RSVPReason = "event_not_found"
	RSVPReasonUnavailable   RSVPReason = "unavailable"
)

// MessageKey returns the locale catalog key for the reason.
func (r RSVPReason) MessageKey() string {
	switch r {
	case RSVPReasonUnauthorized:
		return "rsvp_reason_unauthorized"
	case RSVPReasonEventNotFound:
		return "rsvp_reason_event_not_found"
	default:
		return "rsvp_reason_unavailable"
	}
}

// RSVPError reports a declined or failed RSVP submission.
type RSVPError struct {
	Reason     RSVPReason
	StatusCode int
	Err        error
}

func (e *RSVPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rsvp declined (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("rsvp declined (%s): status %d", e.Reason, e.StatusCode)
}

func (e *RSVPError) Unwrap() error {
	return e.Err
}

func rsvpReasonForStatus(statusCode int) RSVPReason {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return RSVPReasonUnauthorized
	case statusCode == http.StatusNotFound || statusCode == http.StatusBadRequest:
		return RSVPReasonEventNotFound
	default:
		return RSVPReasonUnavailable
	}
}
