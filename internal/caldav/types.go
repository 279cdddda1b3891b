package caldav

import (
	"encoding/xml"
	"time"
)

// Config holds the connection settings for a CalDAV server.
type Config struct {
	// Username is the account name (for iCloud, the Apple ID).
	Username string
	// Password is the account password. For iCloud this must be an
	// app-specific password, not the account password.
	Password string
	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is the per-request HTTP timeout used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// multistatus models the DAV:multistatus REPORT response body.
type multistatus struct {
	XMLName   xml.Name       `xml:"DAV: multistatus"`
	Responses []davResponse  `xml:"response"`
}

type davResponse struct {
	Href      string        `xml:"href"`
	Propstats []davPropstat `xml:"propstat"`
}

type davPropstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	CalendarData string `xml:"urn:ietf:params:xml:ns:caldav calendar-data"`
}
