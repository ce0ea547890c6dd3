// Package recurrence evaluates recurring_config rules into the calendar
// dates on which a concrete event should exist. Evaluation is pure: the same
// rule, horizon and reference date always produce the same ordered dates,
// which is what makes the diff-based dedup in the generator correct.
package recurrence

import (
	"fmt"
	"sort"
	"time"

	"nox/internal/models"
)

// InvalidRuleError marks a recurring_config that cannot be evaluated. The
// generator skips the offending template and keeps going.
type InvalidRuleError struct {
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return "invalid recurrence rule: " + e.Reason
}

// ClockTime is a wall-clock time of day parsed from an "HH:MM" rule field.
type ClockTime struct {
	Hour   int
	Minute int
}

// Before compares two times of day.
func (c ClockTime) Before(o ClockTime) bool {
	return c.Hour < o.Hour || (c.Hour == o.Hour && c.Minute < o.Minute)
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, &InvalidRuleError{Reason: fmt.Sprintf("unparseable time %q", s)}
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Times parses and returns the rule's start and end of day.
func Times(cfg *models.RecurringConfig) (start, end ClockTime, err error) {
	if start, err = ParseClock(cfg.StartTime); err != nil {
		return
	}
	end, err = ParseClock(cfg.EndTime)
	return
}

// Span combines a calendar day with the rule's times of day into absolute
// start and end timestamps in loc. When the end time is earlier than the
// start time the occurrence crosses midnight and the end rolls to the next
// calendar day.
func Span(day time.Time, start, end ClockTime, loc *time.Location) (time.Time, time.Time) {
	s := time.Date(day.Year(), day.Month(), day.Day(), start.Hour, start.Minute, 0, 0, loc)
	e := time.Date(day.Year(), day.Month(), day.Day(), end.Hour, end.Minute, 0, 0, loc)
	if end.Before(start) {
		e = e.AddDate(0, 0, 1)
	}
	return s, e
}

// ruleWeekday maps the rule convention (0=Monday) onto time.Weekday
// (0=Sunday).
func ruleWeekday(wd int) time.Weekday {
	return time.Weekday((wd + 1) % 7)
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Dates returns the ordered, duplicate-free calendar dates on which an
// instance of the rule should exist, starting at ref (inclusive, never in
// the past) and looking weeksAhead weeks forward. The caller is expected to
// filter inactive rules before evaluating.
func Dates(cfg *models.RecurringConfig, weeksAhead int, ref time.Time, loc *time.Location) ([]time.Time, error) {
	if cfg == nil {
		return nil, &InvalidRuleError{Reason: "missing recurring_config"}
	}
	if _, _, err := Times(cfg); err != nil {
		return nil, err
	}
	if weeksAhead < 0 {
		weeksAhead = 0
	}
	refDay := Day(ref, loc)

	switch cfg.Type {
	case models.FrequencyWeekly:
		return weeklyDates(cfg, weeksAhead, refDay)
	case models.FrequencyMonthly:
		return monthlyDates(cfg, weeksAhead, refDay, loc)
	default:
		return nil, &InvalidRuleError{Reason: fmt.Sprintf("unknown type %q", cfg.Type)}
	}
}

func weeklyDates(cfg *models.RecurringConfig, weeksAhead int, refDay time.Time) ([]time.Time, error) {
	if cfg.Weekday == nil {
		return nil, &InvalidRuleError{Reason: "weekly rule without weekday"}
	}
	wd := *cfg.Weekday
	if wd < 0 || wd > 6 {
		return nil, &InvalidRuleError{Reason: fmt.Sprintf("weekday %d out of range", wd)}
	}

	target := ruleWeekday(wd)
	daysUntil := (int(target) - int(refDay.Weekday()) + 7) % 7
	first := refDay.AddDate(0, 0, daysUntil)

	// A zero-week horizon covers today only.
	if weeksAhead == 0 {
		if daysUntil == 0 {
			return []time.Time{first}, nil
		}
		return nil, nil
	}

	dates := make([]time.Time, 0, weeksAhead)
	for i := 0; i < weeksAhead; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i))
	}
	return dates, nil
}

func monthlyDates(cfg *models.RecurringConfig, weeksAhead int, refDay time.Time, loc *time.Location) ([]time.Time, error) {
	monthDay := cfg.MonthDay
	if monthDay == 0 {
		monthDay = 1
	}
	if monthDay < 1 || monthDay > 31 {
		return nil, &InvalidRuleError{Reason: fmt.Sprintf("month_day %d out of range", monthDay)}
	}
	if cfg.Weekday != nil && (*cfg.Weekday < 0 || *cfg.Weekday > 6) {
		return nil, &InvalidRuleError{Reason: fmt.Sprintf("weekday %d out of range", *cfg.Weekday)}
	}

	months := weeksAhead/4 + 1
	seen := make(map[time.Time]struct{}, months)
	dates := make([]time.Time, 0, months)

	for i := 0; i < months; i++ {
		candidate := time.Date(refDay.Year(), refDay.Month()+time.Month(i), monthDay, 0, 0, 0, 0, loc)
		// time.Date normalizes overflow (Jun 31 -> Jul 1); such months have
		// no valid anchor and are skipped rather than rolled forward.
		if candidate.Day() != monthDay {
			continue
		}
		if cfg.Weekday != nil {
			target := ruleWeekday(*cfg.Weekday)
			for candidate.Weekday() != target {
				candidate = candidate.AddDate(0, 0, 1)
			}
		}
		if candidate.Before(refDay) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		dates = append(dates, candidate)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
