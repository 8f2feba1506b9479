package visits

import (
	"testing"
	"time"

	"petgenie/models"
)

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func templates() []models.VisitTemplate {
	return []models.VisitTemplate{
		{ID: "tpl-standard", Name: "Standard Visit", ServiceType: models.ServiceDropIn, DurationMinutes: 30},
		{ID: "tpl-long-walk", Name: "Long Walk", ServiceType: models.ServiceWalk, DurationMinutes: 60},
	}
}

func TestValidate_AccumulatesAllProblems(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "  ",
		StartDate:   date(10),
		EndDate:     date(5),
		BookingKind: models.BookingDailyVisits,
	}

	problems := svc.Validate(config, nil)
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems (label, dates, slots), got %d: %v", len(problems), problems)
	}
}

func TestValidate_UnknownBookingKind(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "Fluffy",
		StartDate:   date(5),
		EndDate:     date(6),
		BookingKind: "weekly-brunch",
	}
	problems := svc.Validate(config, nil)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
}

func TestValidate_OvernightNeedsConfig(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "Fluffy",
		StartDate:   date(5),
		EndDate:     date(6),
		BookingKind: models.BookingOvernightStay,
	}
	problems := svc.Validate(config, nil)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
}

func TestValidate_UnknownTemplateReportedOnce(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "Fluffy",
		StartDate:   date(5),
		EndDate:     date(6),
		BookingKind: models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{
			{StartHour: 8, TemplateID: "tpl-missing"},
			{StartHour: 17, TemplateID: "tpl-missing"},
			{StartHour: 12, TemplateID: "tpl-standard"},
		},
	}

	problems := svc.Validate(config, templates())
	if len(problems) != 1 {
		t.Fatalf("expected the unknown template reported once, got %d: %v", len(problems), problems)
	}

	// Without a catalogue the reference cannot be checked.
	if problems := svc.Validate(config, nil); len(problems) != 0 {
		t.Errorf("expected no problems without a catalogue, got %v", problems)
	}
}

func TestGenerate_OneEntryPerSlotPerDay(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "Fluffy",
		Location:    "12 Oak St",
		CalendarID:  "cal1",
		StartDate:   date(4), // Monday
		EndDate:     date(6), // Wednesday
		BookingKind: models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{
			{StartHour: 8, StartMinute: 0, DurationMinutes: 30},
			{StartHour: 17, StartMinute: 30, DurationMinutes: 45, Label: "evening walk"},
		},
	}

	entries := svc.Generate(config, nil)
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries (2 slots x 3 days), got %d", len(entries))
	}

	first := entries[0]
	if !first.Start.Equal(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first start: %s", first.Start)
	}
	if first.Title != "Fluffy - 30" {
		t.Errorf("expected title 'Fluffy - 30', got %q", first.Title)
	}
	if first.Location != "12 Oak St" || first.CalendarID != "cal1" {
		t.Error("location and calendar id must carry over")
	}

	second := entries[1]
	if second.Title != "Fluffy - evening walk" {
		t.Errorf("expected labelled title, got %q", second.Title)
	}
	if second.End.Sub(second.Start) != 45*time.Minute {
		t.Errorf("expected 45 minute span, got %s", second.End.Sub(second.Start))
	}

	ids := make(map[string]bool)
	for _, e := range entries {
		if ids[e.ID] {
			t.Fatalf("duplicate entry id %q", e.ID)
		}
		ids[e.ID] = true
	}
}

func TestGenerate_WeekendOverridePerDay(t *testing.T) {
	svc := New()

	// 2024-03-09 is a Saturday. The override applies only on Sunday, so
	// Saturday falls back to the weekday slot.
	config := models.RecurrenceConfig{
		ClientLabel: "Fluffy",
		StartDate:   date(9),
		EndDate:     date(10),
		BookingKind: models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{
			{StartHour: 8, TemplateID: "tpl-standard"},
		},
		Weekend: &models.WeekendOverrides{
			Sunday: []models.VisitSlot{{StartHour: 10, DurationMinutes: 45}},
		},
	}

	entries := svc.Generate(config, templates())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	saturday := entries[0]
	if saturday.End.Sub(saturday.Start) != 30*time.Minute {
		t.Errorf("saturday should use the weekday template duration, got %s", saturday.End.Sub(saturday.Start))
	}
	sunday := entries[1]
	if sunday.Start.Hour() != 10 || sunday.End.Sub(sunday.Start) != 45*time.Minute {
		t.Errorf("sunday should use the override slot, got %s at %s", sunday.End.Sub(sunday.Start), sunday.Start)
	}
}

func TestGenerate_TemplateFillsDurationAndLabel(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel:  "Fluffy",
		StartDate:    date(5),
		EndDate:      date(5),
		BookingKind:  models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{{StartHour: 9, TemplateID: "tpl-long-walk"}},
	}

	entries := svc.Generate(config, templates())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].End.Sub(entries[0].Start) != time.Hour {
		t.Errorf("expected the template's 60 minutes, got %s", entries[0].End.Sub(entries[0].Start))
	}
	if entries[0].Title != "Fluffy - Long Walk" {
		t.Errorf("expected the template name in the title, got %q", entries[0].Title)
	}
}

func TestGenerate_UnknownTemplateDegradesToZeroLength(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel:  "Fluffy",
		StartDate:    date(5),
		EndDate:      date(5),
		BookingKind:  models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{{StartHour: 9, TemplateID: "tpl-missing"}},
	}

	entries := svc.Generate(config, templates())
	if len(entries) != 1 {
		t.Fatalf("the batch must survive an unknown template, got %d entries", len(entries))
	}
	if !entries[0].End.Equal(entries[0].Start) {
		t.Errorf("unknown template should yield a zero-length entry, got %s", entries[0].End.Sub(entries[0].Start))
	}
}

func TestGenerate_InvertedRangeYieldsNothing(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel:  "Fluffy",
		StartDate:    date(10),
		EndDate:      date(5),
		BookingKind:  models.BookingDailyVisits,
		WeekdaySlots: []models.VisitSlot{{StartHour: 9, DurationMinutes: 30}},
	}
	if entries := svc.Generate(config, nil); len(entries) != 0 {
		t.Errorf("inverted range must yield nothing, got %d entries", len(entries))
	}
}

func TestGenerate_OvernightStayWithDropIn(t *testing.T) {
	svc := New()

	config := models.RecurrenceConfig{
		ClientLabel: "Tucker",
		Location:    "34 Elm St",
		StartDate:   date(5),
		EndDate:     date(8),
		BookingKind: models.BookingOvernightStay,
		Overnight: &models.OvernightConfig{
			ArrivalHour: 18, ArrivalMinute: 0,
			DepartureHour: 9, DepartureMinute: 30,
			DropIn: &models.VisitSlot{StartHour: 12, DurationMinutes: 20},
		},
	}

	entries := svc.Generate(config, nil)
	if len(entries) != 2 {
		t.Fatalf("expected stay plus drop-in, got %d entries", len(entries))
	}

	stay := entries[0]
	if stay.Title != "Tucker - Overnight" {
		t.Errorf("unexpected stay title %q", stay.Title)
	}
	if !stay.Start.Equal(time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected arrival %s", stay.Start)
	}
	if !stay.End.Equal(time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("departure belongs on the end date, got %s", stay.End)
	}

	dropIn := entries[1]
	if dropIn.Start.Day() != 5 || dropIn.Start.Hour() != 12 {
		t.Errorf("drop-in belongs on the start date at noon, got %s", dropIn.Start)
	}
	if dropIn.End.Sub(dropIn.Start) != 20*time.Minute {
		t.Errorf("expected 20 minute drop-in, got %s", dropIn.End.Sub(dropIn.Start))
	}
}

func TestDetectConflicts_OverlapPairs(t *testing.T) {
	svc := New()

	existing := []models.CalendarEntry{
		{ID: "ex1", Title: "Rex - 30", Start: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC), Status: models.StatusConfirmed},
		{ID: "ex2", Title: "Milo - 30", Start: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC), Status: models.StatusConfirmed},
	}
	generated := []models.CalendarEntry{
		{ID: "g1", Title: "Fluffy - 30", Start: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 11, 30, 0, 0, time.UTC), Status: models.StatusConfirmed},
	}

	conflicts := svc.DetectConflicts(existing, generated)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflicting pair, got %d", len(conflicts))
	}
	if conflicts[0].Existing.ID != "ex1" || conflicts[0].Generated.ID != "g1" {
		t.Error("conflict pair references the wrong entries")
	}
}

func TestDetectConflicts_TouchingBoundariesDoNotConflict(t *testing.T) {
	svc := New()

	existing := []models.CalendarEntry{
		{ID: "ex1", Start: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC), Status: models.StatusConfirmed},
	}
	generated := []models.CalendarEntry{
		{ID: "g1", Start: time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
	}
	if conflicts := svc.DetectConflicts(existing, generated); len(conflicts) != 0 {
		t.Errorf("touching intervals must not conflict, got %d pairs", len(conflicts))
	}
}

func TestDetectConflicts_CancelledExistingIgnored(t *testing.T) {
	svc := New()

	existing := []models.CalendarEntry{
		{ID: "ex1", Start: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC), Status: models.StatusCancelled},
	}
	generated := []models.CalendarEntry{
		{ID: "g1", Start: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC)},
	}
	if conflicts := svc.DetectConflicts(existing, generated); len(conflicts) != 0 {
		t.Errorf("cancelled entries must not conflict, got %d pairs", len(conflicts))
	}
}
