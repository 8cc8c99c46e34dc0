// Package meetup is a typed client for the subset of the Meetup REST API the
// fulfillment handlers use: group search, group detail, upcoming events, and
// RSVP submission.
package meetup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavmarc/meetup-agent/internal/metrics"
)

// DefaultBaseURL is the public Meetup API endpoint.
const DefaultBaseURL = "https://api.meetup.com"

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// Client issues requests against the Meetup API. The API key is resolved at
// call time so key rotation does not require a restart.
type Client struct {
	baseURL    *url.URL
	apiKey     func() string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a Meetup API client for the given base URL. apiKey may be
// nil when only unsigned endpoints are used.
func NewClient(baseURL string, apiKey func() string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing meetup base url: %w", err)
	}
	if apiKey == nil {
		apiKey = func() string { return "" }
	}

	c := &Client{
		baseURL:    parsed,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UpcomingEvents returns the next upcoming event of the group, at most one
// element, matching GET /{urlname}/events?page=1.
func (c *Client) UpcomingEvents(ctx context.Context, urlname string) ([]Event, error) {
	query := url.Values{}
	query.Set("sign", "true")
	query.Set("photo-host", "public")
	query.Set("page", "1")

	var events []Event
	if err := c.getJSON(ctx, "upcoming_events", []string{urlname, "events"}, query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SearchGroups looks up groups by location and an optional free-text filter,
// matching GET /find/groups.
func (c *Client) SearchGroups(ctx context.Context, location, text string) ([]Group, error) {
	query := url.Values{}
	query.Set("key", c.apiKey())
	query.Set("sign", "true")
	query.Set("photo-host", "public")
	query.Set("location", location)
	if text != "" {
		query.Set("text", text)
	}

	var groups []Group
	if err := c.getJSON(ctx, "search_groups", []string{"find", "groups"}, query, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup fetches a single group by its urlname via GET /{urlname}.
func (c *Client) GetGroup(ctx context.Context, urlname string) (*Group, error) {
	query := url.Values{}
	query.Set("sign", "true")
	query.Set("photo-host", "public")

	var group Group
	if err := c.getJSON(ctx, "get_group", []string{urlname}, query, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// RSVP submits an attendance answer for an event via POST /2/rsvp/. A non-200
// answer or transport failure comes back as *RSVPError with a closed reason.
func (c *Client) RSVP(ctx context.Context, eventID, answer string) error {
	form := url.Values{}
	form.Set("event_id", eventID)
	form.Set("rsvp", answer)
	form.Set("key", c.apiKey())

	endpoint := c.endpoint([]string{"2", "rsvp"}, nil) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building rsvp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.MeetupAPIRequests.WithLabelValues("rsvp", "error").Inc()
		return &RSVPError{Reason: RSVPReasonUnavailable, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	metrics.MeetupAPIRequests.WithLabelValues("rsvp", strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RSVPError{Reason: rsvpReasonForStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) endpoint(segments []string, query url.Values) string {
	u := c.baseURL.JoinPath(segments...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, operation string, segments []string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(segments, query), nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", operation, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.MeetupAPIRequests.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("calling meetup api %s: %w", operation, err)
	}
	defer resp.Body.Close()

	metrics.MeetupAPIRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return &APIStatusError{Operation: operation, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", operation, err)
	}
	return nil
}
