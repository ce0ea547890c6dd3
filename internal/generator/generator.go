// Package generator runs the periodic recurring-event pass: it expands every
// active template into the calendar dates that should exist within the
// horizon, diffs them against the instances already persisted, and inserts
// only the missing ones. The persisted instances themselves are the memory
// of previous runs; no separate ledger is kept.
package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"nox/internal/models"
	"nox/internal/recurrence"
)

// EventStore is the slice of the event repository the generator needs.
type EventStore interface {
	// ListTemplates returns all rows with a non-null recurring_config.
	ListTemplates(ctx context.Context) ([]*models.Event, error)
	// ListInstancesByTitle returns rows with a null recurring_config and an
	// exact title match.
	ListInstancesByTitle(ctx context.Context, title string) ([]*models.Event, error)
	// InsertInstances bulk-inserts a batch atomically and returns the rows
	// that were actually persisted.
	InsertInstances(ctx context.Context, events []*models.Event) ([]*models.Event, error)
}

// Report summarizes a generation pass.
type Report struct {
	TemplatesProcessed int             `json:"templates_processed"`
	InstancesCreated   int             `json:"instances_created"`
	Instances          []*models.Event `json:"instances"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// LoadError means the template listing itself failed; nothing was generated.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load templates: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// WriteError means the batch insert failed. Unpersisted counts the instances
// that were materialized but not written.
type WriteError struct {
	Unpersisted int
	Err         error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("insert %d instances: %v", e.Unpersisted, e.Err)
}
func (e *WriteError) Unwrap() error { return e.Err }

type Generator struct {
	store EventStore
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the wall clock, fixing the reference date in tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New builds a Generator over the given store. All wall-clock rule fields
// are interpreted in loc; pass the venue region's timezone, never UTC.
func New(store EventStore, loc *time.Location, opts ...Option) *Generator {
	g := &Generator{store: store, loc: loc, now: time.Now}
	if g.loc == nil {
		g.loc = time.UTC
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one pass over all templates. When dryRun is set, steps run
// up to materialization and nothing is written; the report then describes
// what would have been created. A malformed template is skipped with a
// warning; a failed template listing or batch insert aborts the run.
func (g *Generator) Generate(ctx context.Context, weeksAhead int, dryRun bool) (*Report, error) {
	templates, err := g.store.ListTemplates(ctx)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	ref := recurrence.Day(g.now(), g.loc)
	report := &Report{Instances: []*models.Event{}}

	// Templates sharing a title are duplicate definitions; the first row
	// encountered is the authoritative rule source, the rest only count as
	// processed.
	byTitle := make(map[string]*models.Event, len(templates))
	var order []string
	for _, tmpl := range templates {
		report.TemplatesProcessed++
		if _, ok := byTitle[tmpl.Title]; ok {
			continue
		}
		byTitle[tmpl.Title] = tmpl
		order = append(order, tmpl.Title)
	}

	var batch []*models.Event
	for _, title := range order {
		tmpl := byTitle[title]
		cfg := tmpl.RecurringConfig
		if cfg == nil || !cfg.Active {
			continue
		}

		needed, err := recurrence.Dates(cfg, weeksAhead, ref, g.loc)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("skipping template %q: %v", title, err))
			continue
		}
		if len(needed) == 0 {
			continue
		}
		startClock, endClock, err := recurrence.Times(cfg)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("skipping template %q: %v", title, err))
			continue
		}

		existing, warn := g.resolveExistingDates(ctx, title)
		if warn != "" {
			report.Warnings = append(report.Warnings, warn)
		}

		for _, day := range needed {
			if _, ok := existing[day]; ok {
				continue
			}
			batch = append(batch, g.materialize(tmpl, day, startClock, endClock))
		}
	}

	sort.Slice(batch, func(i, j int) bool {
		if batch[i].StartDate.Equal(batch[j].StartDate) {
			return batch[i].Title < batch[j].Title
		}
		return batch[i].StartDate.Before(batch[j].StartDate)
	})

	if dryRun || len(batch) == 0 {
		report.Instances = batch
		report.InstancesCreated = len(batch)
		return report, nil
	}

	inserted, err := g.store.InsertInstances(ctx, batch)
	if err != nil {
		return nil, &WriteError{Unpersisted: len(batch), Err: err}
	}
	report.Instances = inserted
	report.InstancesCreated = len(inserted)
	return report, nil
}

// resolveExistingDates returns the calendar dates already covered by
// persisted instances of the template. A read failure degrades to an empty
// set: over-generating beats blocking the whole pass on a transient error,
// and the store-side unique index keeps duplicates out.
func (g *Generator) resolveExistingDates(ctx context.Context, title string) (map[time.Time]struct{}, string) {
	rows, err := g.store.ListInstancesByTitle(ctx, title)
	if err != nil {
		return map[time.Time]struct{}{}, fmt.Sprintf("resolver for %q failed, assuming no existing instances: %v", title, err)
	}
	existing := make(map[time.Time]struct{}, len(rows))
	for _, row := range rows {
		existing[recurrence.Day(row.StartDate, g.loc)] = struct{}{}
	}
	return existing, ""
}

func (g *Generator) materialize(tmpl *models.Event, day time.Time, start, end recurrence.ClockTime) *models.Event {
	startAt, endAt := recurrence.Span(day, start, end, g.loc)
	return &models.Event{
		ID:          uuid.NewString(),
		ClubID:      tmpl.ClubID,
		Title:       tmpl.Title,
		Caption:     tmpl.Caption,
		PosterURL:   tmpl.PosterURL,
		TicketLink:  tmpl.TicketLink,
		StartDate:   startAt,
		EndDate:     endAt,
		MusicGenres: tmpl.MusicGenres,
		CreatedBy:   tmpl.CreatedBy,
	}
}
