package googlecal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"slotbook/internal/booking"
	"slotbook/internal/google"
	"slotbook/internal/logging"
)

// Client wraps the Google Calendar service for one OAuth account.
// It implements booking.EventSearcher and booking.EventCreator.
type Client struct {
	svc     *calendar.Service
	account string
	logger  *slog.Logger
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Calendar client with OAuth2
// authentication for a specific account. The OAuth token is retrieved
// from the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider, logger *slog.Logger) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf, err := google.GetOAuthConfig()
	if err != nil {
		return nil, err
	}
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
		logger:  logging.WithService(logger, "googlecal"),
	}, nil
}

// NewClientForAccount creates a Calendar client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string, logger *slog.Logger) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider(), logger)
}

// NewClient creates a Calendar client for the default account.
func NewClient(ctx context.Context, logger *slog.Logger) (*Client, error) {
	return NewClientForAccount(ctx, "default", logger)
}

// SearchEvents lists events in one calendar within [start, end) and
// returns each as a JSON-encoded API event. Recurring events are
// expanded into single instances by the API.
func (c *Client) SearchEvents(ctx context.Context, cal booking.SourceCalendar, start, end time.Time) ([]booking.RawEvent, error) {
	id, err := calendarID(cal)
	if err != nil {
		return nil, err
	}

	result, err := c.svc.Events.List(id).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]booking.RawEvent, 0, len(result.Items))
	for _, item := range result.Items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event: %w", err)
		}
		events = append(events, raw)
	}

	c.logger.Debug("event list completed",
		logging.Calendar(cal.Name),
		slog.Int("event_count", len(events)))

	return events, nil
}

// CreateEvent inserts a JSON-encoded API event into one calendar.
func (c *Client) CreateEvent(ctx context.Context, cal booking.SourceCalendar, raw booking.RawEvent) error {
	id, err := calendarID(cal)
	if err != nil {
		return err
	}

	var event calendar.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}

	if _, err := c.svc.Events.Insert(id, &event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	c.logger.Debug("event inserted", logging.Calendar(cal.Name))
	return nil
}

// calendarID resolves the API calendar identifier for a source calendar.
func calendarID(cal booking.SourceCalendar) (string, error) {
	if cal.ID != "" {
		return cal.ID, nil
	}
	return "", fmt.Errorf("calendar %q has no ID", cal.Name)
}
