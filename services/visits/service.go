package visits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"petgenie/models"
)

// Service expands recurrence configs into calendar entries and checks them
// against an existing schedule. Pure and safe for concurrent use.
type Service struct{}

// New creates a visit generator service.
func New() *Service {
	return &Service{}
}

// Validate returns every problem with the config as a human-readable list.
// It never fails hard: callers display all violations at once. When a
// template catalogue is supplied, slots referencing unknown template ids
// are reported here (generation still falls back silently).
func (s *Service) Validate(config models.RecurrenceConfig, templates []models.VisitTemplate) []string {
	var problems []string

	if strings.TrimSpace(config.ClientLabel) == "" {
		problems = append(problems, "client label is required")
	}
	if config.EndDate.Before(config.StartDate) {
		problems = append(problems, "start date must be on or before end date")
	}

	switch config.BookingKind {
	case models.BookingDailyVisits:
		if len(allSlots(config)) == 0 {
			problems = append(problems, "daily visit bookings need at least one visit slot")
		}
	case models.BookingOvernightStay:
		if config.Overnight == nil {
			problems = append(problems, "overnight bookings need arrival and departure times")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown booking kind %q", config.BookingKind))
	}

	if templates != nil {
		known := make(map[string]bool, len(templates))
		for _, t := range templates {
			known[t.ID] = true
		}
		reported := make(map[string]bool)
		for _, slot := range allSlots(config) {
			if slot.TemplateID != "" && !known[slot.TemplateID] && !reported[slot.TemplateID] {
				problems = append(problems, fmt.Sprintf("slot references unknown template %q", slot.TemplateID))
				reported[slot.TemplateID] = true
			}
		}
	}

	return problems
}

// Generate expands the config into concrete entries. Daily-visit bookings
// get one entry per slot per day, using weekend override slots on Saturday
// and Sunday when supplied. Overnight bookings get a single spanning entry
// plus an optional same-day drop-in. Unknown template references degrade to
// zero-length entries rather than aborting the batch.
func (s *Service) Generate(config models.RecurrenceConfig, templates []models.VisitTemplate) []models.CalendarEntry {
	if config.EndDate.Before(config.StartDate) {
		return nil
	}

	byID := make(map[string]models.VisitTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	if config.BookingKind == models.BookingOvernightStay {
		return s.generateOvernight(config)
	}

	var entries []models.CalendarEntry
	start := dateOnly(config.StartDate)
	end := dateOnly(config.EndDate)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, slot := range slotsForDay(config, day) {
			entries = append(entries, buildSlotEntry(config, day, slot, byID))
		}
	}
	return entries
}

// DetectConflicts reports every (existing, generated) pair whose [start,end)
// intervals overlap. Touching boundaries do not conflict. Nothing is
// auto-resolved; the caller decides what to do with the pairs.
func (s *Service) DetectConflicts(existing, generated []models.CalendarEntry) []models.Conflict {
	var conflicts []models.Conflict
	for _, ex := range existing {
		if ex.Status == models.StatusCancelled {
			continue
		}
		for _, gen := range generated {
			if overlaps(ex, gen) {
				conflicts = append(conflicts, models.Conflict{Existing: ex, Generated: gen})
			}
		}
	}
	return conflicts
}

func overlaps(a, b models.CalendarEntry) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// slotsForDay picks the slot list for one day: a weekend override applies
// only on the weekend day it is configured for.
func slotsForDay(config models.RecurrenceConfig, day time.Time) []models.VisitSlot {
	if config.Weekend != nil {
		switch day.Weekday() {
		case time.Saturday:
			if len(config.Weekend.Saturday) > 0 {
				return config.Weekend.Saturday
			}
		case time.Sunday:
			if len(config.Weekend.Sunday) > 0 {
				return config.Weekend.Sunday
			}
		}
	}
	return config.WeekdaySlots
}

func allSlots(config models.RecurrenceConfig) []models.VisitSlot {
	slots := append([]models.VisitSlot{}, config.WeekdaySlots...)
	if config.Weekend != nil {
		slots = append(slots, config.Weekend.Saturday...)
		slots = append(slots, config.Weekend.Sunday...)
	}
	return slots
}

func buildSlotEntry(config models.RecurrenceConfig, day time.Time, slot models.VisitSlot, templates map[string]models.VisitTemplate) models.CalendarEntry {
	minutes := slot.DurationMinutes
	label := slot.Label
	if minutes == 0 && slot.TemplateID != "" {
		// Unknown ids fall through with minutes still 0: a zero-length
		// entry beats losing the whole batch.
		if tpl, ok := templates[slot.TemplateID]; ok {
			minutes = tpl.DurationMinutes
			if label == "" {
				label = tpl.Name
			}
		}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), slot.StartHour, slot.StartMinute, 0, 0, day.Location())
	title := config.ClientLabel
	if label != "" {
		title = fmt.Sprintf("%s - %s", config.ClientLabel, label)
	} else if minutes > 0 {
		title = fmt.Sprintf("%s - %d", config.ClientLabel, minutes)
	}

	return models.CalendarEntry{
		ID:         uuid.NewString(),
		CalendarID: config.CalendarID,
		Title:      title,
		Location:   config.Location,
		Start:      start,
		End:        start.Add(time.Duration(minutes) * time.Minute),
		Status:     models.StatusConfirmed,
	}
}

func (s *Service) generateOvernight(config models.RecurrenceConfig) []models.CalendarEntry {
	oc := config.Overnight
	if oc == nil {
		return nil
	}

	startDay := dateOnly(config.StartDate)
	endDay := dateOnly(config.EndDate)
	arrival := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), oc.ArrivalHour, oc.ArrivalMinute, 0, 0, startDay.Location())
	// Departure is on the end date; the stay may legitimately exceed 24h.
	departure := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), oc.DepartureHour, oc.DepartureMinute, 0, 0, endDay.Location())

	entries := []models.CalendarEntry{{
		ID:         uuid.NewString(),
		CalendarID: config.CalendarID,
		Title:      fmt.Sprintf("%s - Overnight", config.ClientLabel),
		Location:   config.Location,
		Start:      arrival,
		End:        departure,
		Status:     models.StatusConfirmed,
	}}

	if oc.DropIn != nil {
		entries = append(entries, buildSlotEntry(config, startDay, *oc.DropIn, nil))
	}
	return entries
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
