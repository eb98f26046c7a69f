package gcal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigbookhq/gigbook/app/models"
)

// CalendarTimeZone is the band's home zone; all-day or time-less gigs are
// pinned to this zone on the calendar.
const CalendarTimeZone = "Asia/Kolkata"

const (
	defaultStartClock = "09:00:00"
	defaultEndClock   = "23:00:00"
)

// GigEventData is the gig-side projection of a calendar event, produced by
// decoding and consumed by encoding.
type GigEventData struct {
	Title          string
	Venue          string
	City           string
	Address        string
	Date           string // YYYY-MM-DD
	StartTime      string // HH:MM:SS, optional
	EndTime        string // HH:MM:SS, optional
	OrganizerName  string
	OrganizerPhone string
	OrganizerEmail string
	Amount         *decimal.Decimal
	Notes          string
	Status         string
}

// EncodeDescription renders gig details into the event description. Field
// lines come first, then a blank line, then the status line; the blank line
// is dropped when no field lines exist. Decode must be able to reverse this
// exactly.
func EncodeDescription(d GigEventData) string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(value))
		b.WriteString("\n")
	}

	writeLine("Organizer", d.OrganizerName)
	writeLine("Phone", d.OrganizerPhone)
	writeLine("Email", d.OrganizerEmail)
	if d.Amount != nil && !d.Amount.IsZero() {
		writeLine("Amount", d.Amount.StringFixed(2))
	}
	writeLine("Notes", d.Notes)

	// The blank separator only exists when field lines precede it.
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Status: ")
	b.WriteString(capitalize(d.Status))
	return b.String()
}

// DecodeDescription parses the field lines back out of a description. Lines
// it does not recognize are ignored, so hand-edited descriptions degrade
// gracefully instead of failing the pull.
func DecodeDescription(description string, out *GigEventData) {
	for _, line := range strings.Split(description, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(label) {
		case "Organizer":
			out.OrganizerName = value
		case "Phone":
			out.OrganizerPhone = value
		case "Email":
			out.OrganizerEmail = value
		case "Amount":
			if amt, ok := parseAmount(value); ok {
				out.Amount = &amt
			}
		case "Notes":
			out.Notes = value
		case "Status":
			status := strings.ToLower(value)
			if models.ValidGigStatus(status) {
				out.Status = status
			}
		}
	}
}

// parseAmount tolerates currency symbols and thousands separators left over
// from older encodings or manual edits.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return decimal.Zero, false
	}
	amt, err := decimal.NewFromString(cleaned)
	if err != nil || amt.IsNegative() {
		return decimal.Zero, false
	}
	return amt, true
}

// EncodeLocation joins venue, city and address into the event location.
// A gig with no venue details still gets a placeholder so the event renders
// a location row.
func EncodeLocation(venue, city, address string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{venue, city, address} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "TBD"
	}
	return strings.Join(parts, ", ")
}

// DecodeLocation splits an event location back into venue, city and address.
// Two segments are venue and city; anything further is folded into the
// address. Missing segments decode to the "TBD" placeholder so gigs created
// from sparse events still carry a venue and city.
func DecodeLocation(location string) (venue, city, address string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "TBD", "TBD", ""
	}
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	venue = parts[0]
	city = "TBD"
	if len(parts) > 1 {
		city = parts[1]
	}
	if len(parts) > 2 {
		address = strings.Join(parts[2:], ", ")
	}
	return venue, city, address
}

// EncodeEventTimes builds the start and end blocks for an event. Gigs
// without explicit times get the default evening slot.
func EncodeEventTimes(eventDate, startTime, endTime string) (start, end EventDateTime) {
	startClock := clockOrDefault(startTime, defaultStartClock)
	endClock := clockOrDefault(endTime, defaultEndClock)

	start = EventDateTime{
		DateTime: eventDate + "T" + startClock,
		TimeZone: CalendarTimeZone,
	}
	end = EventDateTime{
		DateTime: eventDate + "T" + endClock,
		TimeZone: CalendarTimeZone,
	}
	return start, end
}

func clockOrDefault(clock, def string) string {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return def
	}
	if len(clock) == 5 { // HH:MM
		return clock + ":00"
	}
	return clock
}

// DecodeEventTimes extracts the gig date and clock times from an event.
// All-day events carry only a date. Clock times matching the defaults are
// dropped so a round trip does not invent times the gig never had.
func DecodeEventTimes(start, end EventDateTime) (date, startTime, endTime string) {
	if start.Date != "" {
		return start.Date, "", ""
	}
	date, startTime = splitDateTime(start.DateTime)
	_, endTime = splitDateTime(end.DateTime)

	if startTime == defaultStartClock && endTime == defaultEndClock {
		return date, "", ""
	}
	return date, startTime, endTime
}

func splitDateTime(value string) (date, clock string) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Some responses omit the offset; fall back to a raw split.
		if d, rest, ok := strings.Cut(value, "T"); ok && len(rest) >= 8 {
			return d, rest[:8]
		}
		return value, ""
	}
	return t.Format("2006-01-02"), t.Format("15:04:05")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
