package icsfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"petgenie/models"
)

const fetchTimeout = 15 * time.Second

// maxOccurrences caps recurrence expansion per event so a malformed feed
// cannot blow up a refresh.
const maxOccurrences = 1000

// Feed reads entries from a subscribed ICS URL. It satisfies the schedule
// service's Source interface.
type Feed struct {
	id     string
	url    string
	client *http.Client
}

// NewFeed creates an ICS feed source.
func NewFeed(id, url string) *Feed {
	return &Feed{
		id:     id,
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// ID identifies this source.
func (f *Feed) ID() string {
	return f.id
}

// Fetch downloads the feed and expands its events, recurring ones included,
// into concrete entries within [from, to].
func (f *Feed) Fetch(ctx context.Context, from, to time.Time) ([]models.CalendarEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ics feed: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ics body: %w", err)
	}

	return f.parse(body, from, to)
}

func (f *Feed) parse(body []byte, from, to time.Time) ([]models.CalendarEntry, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var entries []models.CalendarEntry
	for _, ve := range cal.Events() {
		evs, err := f.expandEvent(ve, from, to)
		if err != nil {
			// A single bad VEVENT should not sink the feed.
			continue
		}
		entries = append(entries, evs...)
	}
	return entries, nil
}

func (f *Feed) expandEvent(ve *ical.VEvent, from, to time.Time) ([]models.CalendarEntry, error) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return nil, fmt.Errorf("missing UID")
	}

	allDay := isAllDay(ve)

	var start, end time.Time
	if allDay {
		var err error
		start, err = parseDateValue(propValue(ve, ical.ComponentPropertyDtStart))
		if err != nil {
			return nil, fmt.Errorf("event start: %w", err)
		}
		end, err = parseDateValue(propValue(ve, ical.ComponentPropertyDtEnd))
		if err != nil {
			end = start.AddDate(0, 0, 1)
		}
	} else {
		var err error
		start, err = ve.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event start: %w", err)
		}
		end, err = ve.GetEndAt()
		if err != nil {
			end = start
		}
	}
	duration := end.Sub(start)

	base := models.CalendarEntry{
		ID:          uid,
		CalendarID:  f.id,
		Title:       propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
		AllDay:      allDay,
		Status:      mapStatus(propValue(ve, ical.ComponentPropertyStatus)),
	}

	rruleValue := propValue(ve, ical.ComponentPropertyRrule)
	if rruleValue == "" {
		if start.Before(to) && end.After(from) {
			base.Start = start
			base.End = end
			return []models.CalendarEntry{base}, nil
		}
		return nil, nil
	}

	rule, err := rrule.StrToRRule(rruleValue)
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}
	rule.DTStart(start)

	occurrences := rule.Between(from.Add(-duration), to, true)
	if len(occurrences) > maxOccurrences {
		occurrences = occurrences[:maxOccurrences]
	}

	entries := make([]models.CalendarEntry, 0, len(occurrences))
	for i, occ := range occurrences {
		entry := base
		entry.ID = fmt.Sprintf("%s/%d", uid, i)
		entry.RecurringSeriesID = uid
		entry.Start = occ
		entry.End = occ.Add(duration)
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseDateValue parses a date-only DTSTART/DTEND value (e.g. 20240305).
func parseDateValue(v string) (time.Time, error) {
	return time.ParseInLocation("20060102", strings.TrimSpace(v), time.UTC)
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// isAllDay detects VALUE=DATE starts the way calendar exports encode
// all-day events.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func mapStatus(status string) models.EntryStatus {
	switch strings.ToUpper(status) {
	case "TENTATIVE":
		return models.StatusTentative
	case "CANCELLED":
		return models.StatusCancelled
	default:
		return models.StatusConfirmed
	}
}
