package recurrence

import (
	"errors"
	"testing"
	"time"

	"nox/internal/models"
)

func intp(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyRule(weekday int) *models.RecurringConfig {
	return &models.RecurringConfig{
		Type:      models.FrequencyWeekly,
		Weekday:   intp(weekday),
		StartTime: "22:00",
		EndTime:   "02:00",
		Active:    true,
	}
}

func TestWeeklyDatesFromMonday(t *testing.T) {
	// 2024-01-01 is a Monday; weekday 4 is Friday.
	got, err := Dates(weeklyRule(4), 2, date(2024, time.January, 1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Time{date(2024, time.January, 5), date(2024, time.January, 12)}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("date %d: expected %v got %v", i, want[i], got[i])
		}
	}
}

func TestWeeklyReferenceDayMatches(t *testing.T) {
	// Reference is itself a Friday; the first occurrence is today.
	got, err := Dates(weeklyRule(4), 1, date(2024, time.January, 5), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.January, 5)) {
		t.Fatalf("expected [2024-01-05] got %v", got)
	}
}

func TestWeeklyZeroWeeks(t *testing.T) {
	// Zero horizon covers today only.
	got, err := Dates(weeklyRule(4), 0, date(2024, time.January, 5), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.January, 5)) {
		t.Fatalf("expected [2024-01-05] got %v", got)
	}

	got, err = Dates(weeklyRule(4), 0, date(2024, time.January, 4), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no dates got %v", got)
	}
}

func TestWeeklyNeverInPast(t *testing.T) {
	got, err := Dates(weeklyRule(0), 8, date(2024, time.March, 14), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref := date(2024, time.March, 14)
	for _, d := range got {
		if d.Before(ref) {
			t.Fatalf("date %v is before reference %v", d, ref)
		}
		if d.Weekday() != time.Monday {
			t.Fatalf("date %v is not a Monday", d)
		}
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 dates got %d", len(got))
	}
}

func TestWeeklyDeterministic(t *testing.T) {
	a, err := Dates(weeklyRule(2), 4, date(2024, time.June, 10), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Dates(weeklyRule(2), 4, date(2024, time.June, 10), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("non-deterministic date %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMonthlySkipsShortMonths(t *testing.T) {
	cfg := &models.RecurringConfig{
		Type:      models.FrequencyMonthly,
		MonthDay:  31,
		StartTime: "21:00",
		EndTime:   "23:00",
		Active:    true,
	}
	// Horizon of 8 weeks covers April, May and June from April 1st; April
	// and June have 30 days and must be skipped.
	got, err := Dates(cfg, 8, date(2024, time.April, 1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.May, 31)) {
		t.Fatalf("expected [2024-05-31] got %v", got)
	}
}

func TestMonthlyAdvancesToWeekday(t *testing.T) {
	cfg := &models.RecurringConfig{
		Type:      models.FrequencyMonthly,
		MonthDay:  1,
		Weekday:   intp(5), // Saturday
		StartTime: "21:00",
		EndTime:   "23:00",
		Active:    true,
	}
	// 2024-02-01 is a Thursday; the first Saturday on or after it is Feb 3.
	got, err := Dates(cfg, 0, date(2024, time.February, 1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.February, 3)) {
		t.Fatalf("expected [2024-02-03] got %v", got)
	}
}

func TestMonthlyDiscardsPastAnchor(t *testing.T) {
	cfg := &models.RecurringConfig{
		Type:      models.FrequencyMonthly,
		MonthDay:  5,
		StartTime: "21:00",
		EndTime:   "23:00",
		Active:    true,
	}
	// Reference past the anchor day; the current month's occurrence is gone.
	got, err := Dates(cfg, 4, date(2024, time.March, 10), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range got {
		if d.Before(date(2024, time.March, 10)) {
			t.Fatalf("date %v is before reference", d)
		}
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.April, 5)) {
		t.Fatalf("expected [2024-04-05] got %v", got)
	}
}

func TestMonthlyDefaultsMonthDay(t *testing.T) {
	cfg := &models.RecurringConfig{
		Type:      models.FrequencyMonthly,
		StartTime: "21:00",
		EndTime:   "23:00",
		Active:    true,
	}
	got, err := Dates(cfg, 0, date(2024, time.July, 1), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, time.July, 1)) {
		t.Fatalf("expected [2024-07-01] got %v", got)
	}
}

func TestInvalidRules(t *testing.T) {
	cases := []struct {
		name string
		cfg  *models.RecurringConfig
	}{
		{"nil config", nil},
		{"unknown type", &models.RecurringConfig{Type: "daily", StartTime: "20:00", EndTime: "23:00"}},
		{"weekly without weekday", &models.RecurringConfig{Type: models.FrequencyWeekly, StartTime: "20:00", EndTime: "23:00"}},
		{"weekday out of range", &models.RecurringConfig{Type: models.FrequencyWeekly, Weekday: intp(7), StartTime: "20:00", EndTime: "23:00"}},
		{"month_day out of range", &models.RecurringConfig{Type: models.FrequencyMonthly, MonthDay: 32, StartTime: "20:00", EndTime: "23:00"}},
		{"bad start time", &models.RecurringConfig{Type: models.FrequencyWeekly, Weekday: intp(0), StartTime: "25:99", EndTime: "23:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Dates(tc.cfg, 2, date(2024, time.January, 1), time.UTC)
			var invalid *InvalidRuleError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidRuleError got %v", err)
			}
		})
	}
}

func TestSpanCrossesMidnight(t *testing.T) {
	start := ClockTime{Hour: 22, Minute: 0}
	end := ClockTime{Hour: 2, Minute: 0}
	s, e := Span(date(2024, time.January, 5), start, end, time.UTC)
	if !s.Equal(time.Date(2024, time.January, 5, 22, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", s)
	}
	if !e.Equal(time.Date(2024, time.January, 6, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end on the next day, got %v", e)
	}
}

func TestSpanSameDay(t *testing.T) {
	s, e := Span(date(2024, time.January, 5), ClockTime{Hour: 18, Minute: 30}, ClockTime{Hour: 23, Minute: 0}, time.UTC)
	if !s.Equal(time.Date(2024, time.January, 5, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", s)
	}
	if !e.Equal(time.Date(2024, time.January, 5, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", e)
	}
}

func TestSpanRespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	day := time.Date(2024, time.January, 5, 0, 0, 0, 0, loc)
	s, _ := Span(day, ClockTime{Hour: 22, Minute: 0}, ClockTime{Hour: 2, Minute: 0}, loc)
	if s.Location() != loc {
		t.Fatalf("expected location %v got %v", loc, s.Location())
	}
	if s.Hour() != 22 {
		t.Fatalf("expected local hour 22 got %d", s.Hour())
	}
}
