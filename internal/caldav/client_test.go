package caldav

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slotbook/internal/booking"
)

const multistatusBody = `<?xml version="1.0" encoding="UTF-8"?>
<d:multistatus xmlns:d="DAV:" xmlns:cal="urn:ietf:params:xml:ns:caldav">
  <d:response>
    <d:href>/calendars/user/work/evt-1.ics</d:href>
    <d:propstat>
      <d:prop>
        <cal:calendar-data>BEGIN:VCALENDAR
BEGIN:VEVENT
UID:evt-1
DTSTART:20260915T070000Z
DTEND:20260915T080000Z
SUMMARY:First
END:VEVENT
END:VCALENDAR</cal:calendar-data>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/calendars/user/work/evt-2.ics</d:href>
    <d:propstat>
      <d:prop>
        <cal:calendar-data>BEGIN:VCALENDAR
BEGIN:VEVENT
UID:evt-2
DTSTART:20260915T090000Z
DTEND:20260915T100000Z
SUMMARY:Second
END:VEVENT
END:VCALENDAR</cal:calendar-data>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

func testConfig() Config {
	return Config{
		Username: "user@example.com",
		Password: "app-specific-password",
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{Password: "x"}, nil); err == nil {
		t.Error("expected error for missing username")
	}
	if _, err := NewClient(Config{Username: "x"}, nil); err == nil {
		t.Error("expected error for missing password")
	}
	if _, err := NewClient(testConfig(), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_SearchEvents(t *testing.T) {
	var gotMethod, gotDepth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotDepth = r.Header.Get("Depth")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("expected basic auth on REPORT request")
		}

		w.WriteHeader(http.StatusMultiStatus)
		_, _ = w.Write([]byte(multistatusBody))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cal := booking.SourceCalendar{Name: "work", URL: srv.URL + "/calendars/user/work/"}
	start := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	events, err := client.SearchEvents(context.Background(), cal, start, end)
	if err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}

	if gotMethod != "REPORT" {
		t.Errorf("method = %q, want REPORT", gotMethod)
	}
	if gotDepth != "1" {
		t.Errorf("Depth header = %q, want 1", gotDepth)
	}
	if !strings.Contains(gotBody, `start="20260915T000000Z"`) || !strings.Contains(gotBody, `end="20260916T000000Z"`) {
		t.Errorf("request body missing expected time-range:\n%s", gotBody)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(events))
	}
	if !strings.Contains(string(events[0]), "UID:evt-1") {
		t.Errorf("first payload missing evt-1:\n%s", events[0])
	}
	if !strings.Contains(string(events[1]), "UID:evt-2") {
		t.Errorf("second payload missing evt-2:\n%s", events[1])
	}
}

func TestClient_SearchEvents_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cal := booking.SourceCalendar{Name: "work", URL: srv.URL}
	_, err = client.SearchEvents(context.Background(), cal, time.Now(), time.Now().Add(time.Hour))
	if err == nil {
		t.Error("expected error for non-207 status")
	}
}

func TestClient_SearchEvents_NoURL(t *testing.T) {
	client, err := NewClient(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.SearchEvents(context.Background(), booking.SourceCalendar{Name: "broken"}, time.Now(), time.Now())
	if err == nil {
		t.Error("expected error for calendar without URL")
	}
}

func TestClient_CreateEvent(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotIfNoneMatch, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotIfNoneMatch = r.Header.Get("If-None-Match")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cal := booking.SourceCalendar{Name: "student_work", URL: srv.URL + "/calendars/user/student_work/"}
	raw := booking.RawEvent("BEGIN:VCALENDAR\nBEGIN:VEVENT\nUID:new-1\nEND:VEVENT\nEND:VCALENDAR\n")

	if err := client.CreateEvent(context.Background(), cal, raw); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if !strings.HasPrefix(gotPath, "/calendars/user/student_work/") || !strings.HasSuffix(gotPath, ".ics") {
		t.Errorf("path = %q, want .ics resource under the collection", gotPath)
	}
	if !strings.Contains(gotContentType, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", gotContentType)
	}
	if gotIfNoneMatch != "*" {
		t.Errorf("If-None-Match = %q, want *", gotIfNoneMatch)
	}
	if gotBody != string(raw) {
		t.Errorf("body = %q, want the raw payload", gotBody)
	}
}

func TestClient_CreateEvent_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cal := booking.SourceCalendar{Name: "student_work", URL: srv.URL}
	err = client.CreateEvent(context.Background(), cal, booking.RawEvent("BEGIN:VCALENDAR\nEND:VCALENDAR\n"))
	if err == nil {
		t.Error("expected error for non-2xx status")
	}
}
