package models

import (
	"fmt"
	"time"
)

// WorkloadLevel is the discrete bucket a day or period falls into.
type WorkloadLevel string

const (
	LevelNone        WorkloadLevel = "none"
	LevelComfortable WorkloadLevel = "comfortable"
	LevelBusy        WorkloadLevel = "busy"
	LevelHigh        WorkloadLevel = "high"
	LevelBurnout     WorkloadLevel = "burnout"
)

// Period selects the aggregation window for summaries and thresholds.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// PeriodThresholds holds the three ascending hour boundaries for one period.
// Comfortable < Busy < High is a caller responsibility; Validate reports
// violations but nothing reorders the values.
type PeriodThresholds struct {
	ComfortableHours float64 `json:"comfortableHours"`
	BusyHours        float64 `json:"busyHours"`
	HighHours        float64 `json:"highHours"`
}

// ThresholdConfig carries the workload boundaries per period.
type ThresholdConfig struct {
	Daily   PeriodThresholds `json:"daily"`
	Weekly  PeriodThresholds `json:"weekly"`
	Monthly PeriodThresholds `json:"monthly"`
}

// DefaultThresholds returns the stock boundaries used when the caller has
// not configured their own.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		Daily:   PeriodThresholds{ComfortableHours: 4, BusyHours: 6, HighHours: 8},
		Weekly:  PeriodThresholds{ComfortableHours: 25, BusyHours: 35, HighHours: 45},
		Monthly: PeriodThresholds{ComfortableHours: 100, BusyHours: 140, HighHours: 180},
	}
}

// ForPeriod returns the boundary set for the given period, defaulting to
// daily for unknown values.
func (t ThresholdConfig) ForPeriod(p Period) PeriodThresholds {
	switch p {
	case PeriodWeekly:
		return t.Weekly
	case PeriodMonthly:
		return t.Monthly
	default:
		return t.Daily
	}
}

// Validate returns every ordering violation in the config. An empty slice
// means the boundaries are usable.
func (t ThresholdConfig) Validate() []string {
	var problems []string
	check := func(name string, p PeriodThresholds) {
		if p.ComfortableHours >= p.BusyHours {
			problems = append(problems, fmt.Sprintf("%s: comfortable hours (%.1f) must be below busy hours (%.1f)", name, p.ComfortableHours, p.BusyHours))
		}
		if p.BusyHours >= p.HighHours {
			problems = append(problems, fmt.Sprintf("%s: busy hours (%.1f) must be below high hours (%.1f)", name, p.BusyHours, p.HighHours))
		}
	}
	check("daily", t.Daily)
	check("weekly", t.Weekly)
	check("monthly", t.Monthly)
	return problems
}

// WorkloadLimits are the caps the warning pass compares against.
type WorkloadLimits struct {
	DailyVisits int     `json:"dailyVisits"`
	DailyHours  float64 `json:"dailyHours"`
	WeeklyHours float64 `json:"weeklyHours"`
}

// DefaultLimits returns the stock warning caps.
func DefaultLimits() WorkloadLimits {
	return WorkloadLimits{DailyVisits: 10, DailyHours: 10, WeeklyHours: 50}
}

// WorkloadMetric is the computed load for a single calendar day.
type WorkloadMetric struct {
	Date          time.Time     `json:"date"`
	WorkMinutes   int           `json:"workMinutes"`
	TravelMinutes int           `json:"travelMinutes"`
	TotalMinutes  int           `json:"totalMinutes"`
	EventCount    int           `json:"eventCount"`
	Level         WorkloadLevel `json:"level"`
}

// TotalHours is the combined scheduled plus travel time in hours.
func (m WorkloadMetric) TotalHours() float64 {
	return float64(m.TotalMinutes) / 60
}

// PeriodSummary aggregates a week or month of daily metrics.
type PeriodSummary struct {
	Period       Period           `json:"period"`
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Days         []WorkloadMetric `json:"days"`
	TotalMinutes int              `json:"totalMinutes"`
	EventCount   int              `json:"eventCount"`
	MeanMinutes  float64          `json:"meanMinutes"`
	BusiestDay   *WorkloadMetric  `json:"busiestDay,omitempty"`
	Level        WorkloadLevel    `json:"level"`
}

// WarningKind identifies which cap a warning is about.
type WarningKind string

const (
	WarnDailyVisitCount WarningKind = "daily-visit-count"
	WarnDailyHours      WarningKind = "daily-hours"
	WarnWeeklyHours     WarningKind = "weekly-hours"
)

// WarningSeverity grades a warning.
type WarningSeverity string

const (
	SeverityWarning  WarningSeverity = "warning"
	SeverityCritical WarningSeverity = "critical"
)

// WorkloadWarning reports one exceeded (or nearly exceeded) cap.
type WorkloadWarning struct {
	Kind           WarningKind     `json:"kind"`
	Severity       WarningSeverity `json:"severity"`
	Current        float64         `json:"current"`
	Limit          float64         `json:"limit"`
	PercentOfLimit float64         `json:"percentOfLimit"`
}
