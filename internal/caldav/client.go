package caldav

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"slotbook/internal/booking"
	"slotbook/internal/logging"
)

// caldavTimeLayout is the UTC date-time form required inside time-range filters.
const caldavTimeLayout = "20060102T150405Z"

const queryTemplate = `<?xml version="1.0" encoding="utf-8"?>
<C:calendar-query xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:prop>
    <C:calendar-data/>
  </D:prop>
  <C:filter>
    <C:comp-filter name="VCALENDAR">
      <C:comp-filter name="VEVENT">
        <C:time-range start="%s" end="%s"/>
      </C:comp-filter>
    </C:comp-filter>
  </C:filter>
</C:calendar-query>`

// Client is a CalDAV client bound to one server account.
// It implements booking.EventSearcher and booking.EventCreator.
type Client struct {
	httpClient *http.Client
	username   string
	password   string
	logger     *slog.Logger
}

// NewClient creates a CalDAV client from the given configuration.
// If logger is nil, slog.Default() is used.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("caldav username is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("caldav password is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		username:   cfg.Username,
		password:   cfg.Password,
		logger:     logging.WithService(logger, "caldav"),
	}, nil
}

// SearchEvents runs a calendar-query REPORT against one calendar
// collection and returns the raw iCalendar payloads of every object
// intersecting [start, end). The server expands recurring events
// within the range.
func (c *Client) SearchEvents(ctx context.Context, cal booking.SourceCalendar, start, end time.Time) ([]booking.RawEvent, error) {
	target, err := calendarURL(cal)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(queryTemplate,
		start.UTC().Format(caldavTimeLayout),
		end.UTC().Format(caldavTimeLayout),
	)

	req, err := http.NewRequestWithContext(ctx, "REPORT", target, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build REPORT request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", `application/xml; charset="utf-8"`)
	req.Header.Set("Depth", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar-query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMultiStatus {
		return nil, fmt.Errorf("calendar-query returned unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar-query response: %w", err)
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("failed to decode multistatus response: %w", err)
	}

	events := make([]booking.RawEvent, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		for _, ps := range r.Propstats {
			payload := strings.TrimSpace(ps.Prop.CalendarData)
			if payload == "" {
				continue
			}
			events = append(events, booking.RawEvent(payload))
		}
	}

	c.logger.Debug("calendar-query completed",
		logging.Calendar(cal.Name),
		slog.Int("object_count", len(events)))

	return events, nil
}

// CreateEvent PUTs a new calendar object into the collection. The
// resource name is a fresh UUID; If-None-Match guards against
// overwriting an existing object.
func (c *Client) CreateEvent(ctx context.Context, cal booking.SourceCalendar, raw booking.RawEvent) error {
	base, err := calendarURL(cal)
	if err != nil {
		return err
	}
	target := strings.TrimRight(base, "/") + "/" + uuid.NewString() + ".ics"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("failed to build PUT request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", `text/calendar; charset="utf-8"`)
	req.Header.Set("If-None-Match", "*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("event upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("event upload returned unexpected status %d", resp.StatusCode)
	}

	c.logger.Debug("event uploaded", logging.Calendar(cal.Name))
	return nil
}

// calendarURL resolves the endpoint for a calendar, preferring URL and
// falling back to ID for configurations that store the full path there.
func calendarURL(cal booking.SourceCalendar) (string, error) {
	if cal.URL != "" {
		return cal.URL, nil
	}
	if cal.ID != "" {
		return cal.ID, nil
	}
	return "", fmt.Errorf("calendar %q has no URL", cal.Name)
}
