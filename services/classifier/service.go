package classifier

import (
	"strconv"
	"strings"
	"time"

	"petgenie/models"
)

const (
	// Fixed service durations in minutes.
	housesitMinutes  = 1440
	overnightMinutes = 720
	defaultMinutes   = 30

	// Entries at least this long that cross midnight count as overnight
	// even without an explicit housesit/overnight keyword.
	overnightSpanThreshold = 8 * time.Hour

	// maxMinutesPerDay caps how much of a multi-day stay one calendar day
	// can absorb, so a week-long housesit does not drown every daily total.
	maxMinutesPerDay = 720
)

// Service classifies raw calendar entries. It is stateless beyond the
// compiled pattern tables and safe for concurrent use.
type Service struct{}

// New creates a classifier service.
func New() *Service {
	return &Service{}
}

// Classify enriches a raw entry with the work/personal decision, service
// type, duration and extracted client label. It never fails: malformed or
// ambiguous titles degrade to personal.
func (s *Service) Classify(entry models.CalendarEntry) models.EnrichedEntry {
	enriched := models.EnrichedEntry{CalendarEntry: entry}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return enriched
	}

	// Personal markers are rarer and more specific than work signals, so
	// they are checked first and win outright.
	if matchesAny(strings.ToLower(title), personalTerms) {
		return enriched
	}

	fired := evaluateWorkRules(title)
	if len(fired) == 0 {
		return enriched
	}

	enriched.IsWork = true
	enriched.ServiceType, enriched.ServiceDurationMinutes = extractService(title, fired)
	enriched.IsOvernight = isOvernight(entry, fired)
	enriched.ClientLabel = extractClientLabel(entry, title)
	return enriched
}

// ClassifyAll classifies a batch in input order.
func (s *Service) ClassifyAll(entries []models.CalendarEntry) []models.EnrichedEntry {
	out := make([]models.EnrichedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.Classify(e))
	}
	return out
}

// extractService resolves type and duration from the fired signals using a
// fixed priority: meet-greet > housesit > overnight > nail-trim > walk >
// drop-in > duration-only > other.
func extractService(title string, fired map[workSignal]bool) (models.ServiceType, int) {
	minutes := defaultMinutes
	if fired[signalDuration] {
		if m := durationTokenRe.FindString(title); m != "" {
			if v, err := strconv.Atoi(m); err == nil {
				minutes = v
			}
		}
	}

	switch {
	case fired[signalMeetGreet]:
		return models.ServiceMeetGreet, minutes
	case fired[signalHousesit]:
		return models.ServiceHousesit, housesitMinutes
	case fired[signalOvernight]:
		return models.ServiceOvernight, overnightMinutes
	case fired[signalNailTrim]:
		return models.ServiceNailTrim, minutes
	case fired[signalWalk]:
		return models.ServiceWalk, minutes
	case fired[signalDropIn]:
		return models.ServiceDropIn, minutes
	case fired[signalDuration]:
		// A bare duration token ("Fluffy - 30") implies a drop-in.
		return models.ServiceDropIn, minutes
	default:
		return models.ServiceOther, defaultMinutes
	}
}

// isOvernight is independent of the service type: an explicit stay keyword
// counts, and so does any long entry that crosses midnight.
func isOvernight(entry models.CalendarEntry, fired map[workSignal]bool) bool {
	if fired[signalHousesit] || fired[signalOvernight] {
		return true
	}
	if entry.End.Sub(entry.Start) < overnightSpanThreshold {
		return false
	}
	sy, sm, sd := entry.Start.Date()
	ey, em, ed := entry.End.Date()
	return sy != ey || sm != em || sd != ed
}

// extractClientLabel pulls the leading token before the first separator
// (" - " and its dash/pipe/at variants). Without a separator the full
// trimmed title is used; if even that yields nothing, the first attendee
// display name seeds the label.
func extractClientLabel(entry models.CalendarEntry, title string) string {
	for _, sep := range clientSeparators {
		if idx := strings.Index(title, sep); idx > 0 {
			if label := strings.TrimSpace(title[:idx]); label != "" {
				return label
			}
		}
	}
	if title != "" {
		return title
	}
	for _, a := range entry.Attendees {
		if name := strings.TrimSpace(a.DisplayName); name != "" {
			return name
		}
	}
	return ""
}

// DurationForDay returns how many minutes of the entry fall on the given
// calendar day. The entry is clipped to [startOfDay, endOfDay); days outside
// the span report 0. Overnight entries are capped at 12 hours per day.
func (s *Service) DurationForDay(entry models.EnrichedEntry, date time.Time) int {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	start := entry.Start
	if start.Before(dayStart) {
		start = dayStart
	}
	end := entry.End
	if end.After(dayEnd) {
		end = dayEnd
	}
	if !end.After(start) {
		return 0
	}

	minutes := int(end.Sub(start) / time.Minute)
	if entry.IsOvernight && minutes > maxMinutesPerDay {
		minutes = maxMinutesPerDay
	}
	return minutes
}
