// Package planner wires the pipeline together: load events, filter,
// resolve, write notes, merge the daily note.
package planner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailyplan/internal/attach"
	"dailyplan/internal/config"
	"dailyplan/internal/daily"
	"dailyplan/internal/events"
	"dailyplan/internal/gog"
	"dailyplan/internal/ics"
	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
	"dailyplan/internal/note"
	"dailyplan/internal/people"
	"dailyplan/internal/vault"
)

type Planner struct {
	cfg    *config.Config
	vault  *vault.Vault
	writer *note.Writer
	merger *daily.Merger
	loc    *time.Location
}

// New builds a planner for one vault, including the external gog-backed
// lookups.
func New(cfg *config.Config, vaultRoot string) *Planner {
	g := gog.NewClient(cfg.GogBinary, cfg.DirectoryTimeout(), cfg.DriveTimeout())
	return newPlanner(cfg, vaultRoot, g, g)
}

// newPlanner lets tests substitute the lookup capabilities.
func newPlanner(cfg *config.Config, vaultRoot string, dir people.DirectoryLookup, meta attach.MetaLookup) *Planner {
	v := vault.Open(vaultRoot, cfg)
	resolver := people.NewResolver(people.LoadDirectory(v.PeopleDir()), dir)
	classifier := attach.NewClassifier(meta)

	return &Planner{
		cfg:    cfg,
		vault:  v,
		writer: note.NewWriter(v, resolver, classifier, cfg.SelfEmail),
		merger: daily.NewMerger(v, cfg.SectionHeader),
		loc:    time.Local,
	}
}

// Run processes one event batch against the vault. Per-event failures are
// logged and do not abort the batch; only an unreadable event source is an
// error.
func (p *Planner) Run(ctx context.Context, eventsSource string, targetDate time.Time) error {
	runID := uuid.NewString()
	appLog.Info("run starting", "run_id", runID,
		"source", eventsSource, "date", targetDate.Format("2006-01-02"))

	evs, err := p.load(eventsSource, targetDate)
	if err != nil {
		return err
	}
	events.SortChronological(evs)
	appLog.Info("events loaded", "run_id", runID, "count", len(evs))

	var (
		entries []daily.Entry
		skipped int
		failed  int
	)

	for _, e := range evs {
		if events.ShouldSkip(e, p.cfg.SelfEmail) {
			appLog.Debug("event skipped", "run_id", runID, "event", e.Title())
			skipped++
			continue
		}

		res, err := p.writer.Write(ctx, e)
		if err != nil {
			appLog.Error("meeting note failed", err, "run_id", runID, "event", e.Title())
			failed++
			continue
		}
		entries = append(entries, daily.Entry{Start: res.StartKey, Stem: res.Stem})
	}

	if len(entries) > 0 {
		if err := p.merger.Merge(targetDate, entries); err != nil {
			appLog.Error("daily note merge failed", err, "run_id", runID)
			failed++
		}
	} else {
		appLog.Info("no meetings to add to daily note", "run_id", runID)
	}

	appLog.Info("run complete", "run_id", runID,
		"meetings", len(entries), "skipped", skipped, "failed", failed)
	return nil
}

// load dispatches on the source's extension: .ics exports go through the
// ICS adapter, everything else is the JSON batch format.
func (p *Planner) load(source string, targetDate time.Time) ([]model.CalendarEvent, error) {
	if strings.EqualFold(filepath.Ext(source), ".ics") {
		return ics.LoadFile(source, targetDate, p.loc)
	}
	return events.LoadBatch(source)
}
