package models

import "time"

// EntryStatus mirrors the status field exposed by upstream calendar providers.
type EntryStatus string

const (
	StatusConfirmed EntryStatus = "confirmed"
	StatusTentative EntryStatus = "tentative"
	StatusCancelled EntryStatus = "cancelled"
)

// Attendee is a guest on a calendar entry. The display name can seed client
// extraction when the title itself carries no usable name.
type Attendee struct {
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// CalendarEntry is a raw entry as delivered by a calendar source (Google,
// ICS feed) or produced by the visit generator. Timestamps are assumed to be
// normalized to a single wall-clock zone before they reach this service.
type CalendarEntry struct {
	ID                string      `json:"id"`
	CalendarID        string      `json:"calendarId"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	Location          string      `json:"location,omitempty"`
	Start             time.Time   `json:"start"`
	End               time.Time   `json:"end"`
	AllDay            bool        `json:"allDay"`
	Status            EntryStatus `json:"status"`
	RecurringSeriesID string      `json:"recurringSeriesId,omitempty"`
	Attendees         []Attendee  `json:"attendees,omitempty"`
}

// DurationMinutes returns the total entry length in whole minutes.
func (e CalendarEntry) DurationMinutes() int {
	if e.End.Before(e.Start) {
		return 0
	}
	return int(e.End.Sub(e.Start) / time.Minute)
}

// ServiceType is the closed set of billable visit kinds.
type ServiceType string

const (
	ServiceDropIn    ServiceType = "drop-in"
	ServiceWalk      ServiceType = "walk"
	ServiceOvernight ServiceType = "overnight"
	ServiceHousesit  ServiceType = "housesit"
	ServiceMeetGreet ServiceType = "meet-greet"
	ServiceNailTrim  ServiceType = "nail-trim"
	ServiceOther     ServiceType = "other"
)

// EnrichedEntry is a CalendarEntry plus everything the classifier derives
// from it. ClientLabel and ServiceType are only populated when IsWork is
// true; IsOvernight implies IsWork.
type EnrichedEntry struct {
	CalendarEntry

	IsWork                 bool        `json:"isWork"`
	IsOvernight            bool        `json:"isOvernight"`
	ClientLabel            string      `json:"clientLabel,omitempty"`
	ServiceType            ServiceType `json:"serviceType,omitempty"`
	ServiceDurationMinutes int         `json:"serviceDurationMinutes"`
}
