package models

import "time"

// BookingKind selects how a recurrence config expands into entries.
type BookingKind string

const (
	BookingDailyVisits   BookingKind = "daily-visits"
	BookingOvernightStay BookingKind = "overnight-stay"
)

// VisitSlot is one visit within a day: a wall-clock start time plus a
// duration. DurationMinutes of 0 means "use the referenced template's
// duration".
type VisitSlot struct {
	StartHour       int    `json:"startHour"`
	StartMinute     int    `json:"startMinute"`
	DurationMinutes int    `json:"durationMinutes"`
	TemplateID      string `json:"templateId,omitempty"`
	Label           string `json:"label,omitempty"`
}

// OvernightConfig shapes an overnight-stay booking: arrival on the start
// date, departure on the end date, optionally one extra drop-in on the
// start day.
type OvernightConfig struct {
	ArrivalHour     int        `json:"arrivalHour"`
	ArrivalMinute   int        `json:"arrivalMinute"`
	DepartureHour   int        `json:"departureHour"`
	DepartureMinute int        `json:"departureMinute"`
	DropIn          *VisitSlot `json:"dropIn,omitempty"`
}

// WeekendOverrides replaces the default slot list on the weekend days it
// names. A day with no override falls back to the weekday slots.
type WeekendOverrides struct {
	Saturday []VisitSlot `json:"saturday,omitempty"`
	Sunday   []VisitSlot `json:"sunday,omitempty"`
}

// RecurrenceConfig describes a batch of visits for one client over a date
// range. Consumed once by the generator; never mutated.
type RecurrenceConfig struct {
	ClientLabel  string            `json:"clientLabel"`
	Location     string            `json:"location,omitempty"`
	StartDate    time.Time         `json:"startDate"`
	EndDate      time.Time         `json:"endDate"`
	BookingKind  BookingKind       `json:"bookingKind"`
	WeekdaySlots []VisitSlot       `json:"weekdaySlots,omitempty"`
	Weekend      *WeekendOverrides `json:"weekend,omitempty"`
	Overnight    *OvernightConfig  `json:"overnight,omitempty"`
	CalendarID   string            `json:"calendarId,omitempty"`
}

// VisitTemplate is a reusable visit definition slots can reference by id.
type VisitTemplate struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	ServiceType     ServiceType `json:"serviceType"`
	DurationMinutes int         `json:"durationMinutes"`
}

// Conflict is one overlapping (existing, generated) entry pair.
type Conflict struct {
	Existing  CalendarEntry `json:"existing"`
	Generated CalendarEntry `json:"generated"`
}
