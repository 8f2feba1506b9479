package workload

import (
	"sort"
	"time"

	"petgenie/models"
)

const (
	// DefaultTravelLegMinutes is the flat per-leg travel estimate. This is
	// a heuristic, not a routing calculation.
	DefaultTravelLegMinutes = 15

	// DefaultWarningRatio is the fraction of a limit above which a
	// non-critical warning fires.
	DefaultWarningRatio = 0.8
)

// Options controls metric computation. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	Thresholds       models.ThresholdConfig
	Limits           models.WorkloadLimits
	IncludeTravel    bool
	TravelLegMinutes int
	WarningRatio     float64
}

// DefaultOptions returns the stock aggregation options.
func DefaultOptions() Options {
	return Options{
		Thresholds:       models.DefaultThresholds(),
		Limits:           models.DefaultLimits(),
		IncludeTravel:    true,
		TravelLegMinutes: DefaultTravelLegMinutes,
		WarningRatio:     DefaultWarningRatio,
	}
}

// DayClipper clips an entry's duration to a single calendar day. The
// classifier service satisfies this.
type DayClipper interface {
	DurationForDay(entry models.EnrichedEntry, date time.Time) int
}

// Service computes workload metrics over classified entries. Pure and safe
// for concurrent use.
type Service struct {
	clipper DayClipper
}

// New creates a workload service using the given day clipper.
func New(clipper DayClipper) *Service {
	return &Service{clipper: clipper}
}

// DailyMetric computes the load for one calendar day. Only work entries
// overlapping the day contribute.
func (s *Service) DailyMetric(date time.Time, entries []models.EnrichedEntry, opts Options) models.WorkloadMetric {
	dayEntries := s.entriesForDay(date, entries)

	metric := models.WorkloadMetric{Date: startOfDay(date), EventCount: len(dayEntries)}
	for _, e := range dayEntries {
		metric.WorkMinutes += s.clipper.DurationForDay(e, date)
	}
	if opts.IncludeTravel {
		metric.TravelMinutes = estimateTravel(dayEntries, opts.TravelLegMinutes)
	}
	metric.TotalMinutes = metric.WorkMinutes + metric.TravelMinutes
	metric.Level = Level(metric.TotalHours(), opts.Thresholds.Daily)
	return metric
}

// RangeMetrics computes one metric per day in [start, end]. An inverted
// range yields an empty slice rather than negative-length output.
func (s *Service) RangeMetrics(start, end time.Time, entries []models.EnrichedEntry, opts Options) []models.WorkloadMetric {
	from := startOfDay(start)
	to := startOfDay(end)
	if to.Before(from) {
		return nil
	}

	var metrics []models.WorkloadMetric
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		metrics = append(metrics, s.DailyMetric(day, entries, opts))
	}
	return metrics
}

// PeriodSummary aggregates the week or month containing anchor. The weekly
// window runs Monday through Sunday; the monthly window covers the whole
// calendar month. The mean divides by the days actually in the period.
func (s *Service) PeriodSummary(period models.Period, anchor time.Time, entries []models.EnrichedEntry, opts Options) models.PeriodSummary {
	start, end := periodBounds(period, anchor)
	days := s.RangeMetrics(start, end, entries, opts)

	summary := models.PeriodSummary{
		Period: period,
		Start:  start,
		End:    end,
		Days:   days,
	}
	for i, d := range days {
		summary.TotalMinutes += d.TotalMinutes
		summary.EventCount += d.EventCount
		// Ties go to the earlier day.
		if summary.BusiestDay == nil || d.TotalMinutes > summary.BusiestDay.TotalMinutes {
			summary.BusiestDay = &days[i]
		}
	}
	if len(days) > 0 {
		summary.MeanMinutes = float64(summary.TotalMinutes) / float64(len(days))
	}
	summary.Level = Level(float64(summary.TotalMinutes)/60, opts.Thresholds.ForPeriod(period))
	return summary
}

// Warnings compares the day (and its surrounding week) against the
// configured caps. All three kinds fire independently.
func (s *Service) Warnings(date time.Time, entries []models.EnrichedEntry, opts Options) []models.WorkloadWarning {
	ratio := opts.WarningRatio
	if ratio <= 0 {
		ratio = DefaultWarningRatio
	}

	daily := s.DailyMetric(date, entries, opts)
	weekStart, weekEnd := periodBounds(models.PeriodWeekly, date)
	weekMinutes := 0
	for _, m := range s.RangeMetrics(weekStart, weekEnd, entries, opts) {
		weekMinutes += m.TotalMinutes
	}

	var warnings []models.WorkloadWarning
	add := func(kind models.WarningKind, current, limit float64) {
		if limit <= 0 {
			return
		}
		pct := current / limit * 100
		switch {
		case pct > 100:
			warnings = append(warnings, models.WorkloadWarning{Kind: kind, Severity: models.SeverityCritical, Current: current, Limit: limit, PercentOfLimit: pct})
		case pct > ratio*100:
			warnings = append(warnings, models.WorkloadWarning{Kind: kind, Severity: models.SeverityWarning, Current: current, Limit: limit, PercentOfLimit: pct})
		}
	}

	add(models.WarnDailyVisitCount, float64(daily.EventCount), float64(opts.Limits.DailyVisits))
	add(models.WarnDailyHours, daily.TotalHours(), opts.Limits.DailyHours)
	add(models.WarnWeeklyHours, float64(weekMinutes)/60, opts.Limits.WeeklyHours)
	return warnings
}

// Level buckets total hours against the boundaries. Buckets are closed at
// the upper bound: exactly comfortable hours is still comfortable.
func Level(hours float64, t models.PeriodThresholds) models.WorkloadLevel {
	switch {
	case hours <= 0:
		return models.LevelNone
	case hours <= t.ComfortableHours:
		return models.LevelComfortable
	case hours <= t.BusyHours:
		return models.LevelBusy
	case hours <= t.HighHours:
		return models.LevelHigh
	default:
		return models.LevelBurnout
	}
}

// entriesForDay filters to work entries overlapping the day, sorted by
// start time for the travel pass.
func (s *Service) entriesForDay(date time.Time, entries []models.EnrichedEntry) []models.EnrichedEntry {
	dayStart := startOfDay(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []models.EnrichedEntry
	for _, e := range entries {
		if !e.IsWork || e.Status == models.StatusCancelled {
			continue
		}
		if e.Start.Before(dayEnd) && e.End.After(dayStart) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// estimateTravel charges two legs per visit, or one when the visit is at
// the same location as the one immediately before it (the return trip is
// reused).
func estimateTravel(sorted []models.EnrichedEntry, legMinutes int) int {
	if legMinutes <= 0 {
		legMinutes = DefaultTravelLegMinutes
	}
	legs := 0
	for i, e := range sorted {
		if i > 0 && e.Location == sorted[i-1].Location {
			legs++
			continue
		}
		legs += 2
	}
	return legs * legMinutes
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// periodBounds returns the inclusive day range for the period containing
// anchor. Daily periods collapse to the anchor day itself.
func periodBounds(period models.Period, anchor time.Time) (time.Time, time.Time) {
	day := startOfDay(anchor)
	switch period {
	case models.PeriodWeekly:
		// Monday-based week.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case models.PeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, -1)
	default:
		return day, day
	}
}
