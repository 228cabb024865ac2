// Package note renders calendar events into meeting note documents.
package note

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"dailyplan/internal/attach"
	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
	"dailyplan/internal/people"
	"dailyplan/internal/vault"
)

// Result reports a written (or already existing) meeting note back to the
// daily-note merge step.
type Result struct {
	// StartKey is the precise start timestamp, or "" for all-day events;
	// the merger sorts empty keys first.
	StartKey string
	// Stem is the note's link identity (filename without extension).
	Stem string
	// Created is false when the note already existed and was left alone.
	Created bool
}

type Writer struct {
	vault      *vault.Vault
	resolver   *people.Resolver
	classifier *attach.Classifier
	selfEmail  string
	loc        *time.Location
	now        func() time.Time
}

func NewWriter(v *vault.Vault, r *people.Resolver, c *attach.Classifier, selfEmail string) *Writer {
	return &Writer{
		vault:      v,
		resolver:   r,
		classifier: c,
		selfEmail:  selfEmail,
		loc:        time.Local,
		now:        time.Now,
	}
}

// Write renders one event into its deterministic note path. An existing
// note is never touched: its identity is reported as-is so reruns stay
// idempotent. A missing or malformed start date is a hard error for this
// one event.
func (w *Writer) Write(ctx context.Context, e model.CalendarEvent) (Result, error) {
	day, err := e.Start.Time(w.loc)
	if err != nil {
		return Result{}, fmt.Errorf("event %q: %w", e.Title(), err)
	}

	path := w.vault.MeetingPath(day, e.Title())
	res := Result{StartKey: e.Start.DateTime, Stem: vault.Stem(path)}

	if _, err := os.Stat(path); err == nil {
		appLog.Info("meeting note already exists", "note", filepath.Base(path))
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, fmt.Errorf("event %q: %w", e.Title(), err)
	}

	header := w.renderFrontmatter(ctx, e)
	body := injectDescription(w.vault.MeetingTemplate(), stripHTML(e.Description))

	content := strings.Join(header, "\n") + "\n\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Result{}, fmt.Errorf("event %q: %w", e.Title(), err)
	}

	appLog.Info("created meeting note", "note", filepath.Base(path))
	res.Created = true
	return res, nil
}

// renderFrontmatter builds the metadata header line by line. The wikilink
// quoting ("[[Name]]" vs "Name") must survive exactly, so this does not go
// through a YAML marshaller.
func (w *Writer) renderFrontmatter(ctx context.Context, e model.CalendarEvent) []string {
	lines := []string{"---"}

	var attendees []string
	for _, a := range e.Attendees {
		if a.Self || (w.selfEmail != "" && a.Email == w.selfEmail) {
			continue
		}
		id := w.resolver.Resolve(ctx, a.Email, a.DisplayName)
		if id.Linked() {
			attendees = append(attendees, fmt.Sprintf("%q", "[["+id.Name+"]]"))
		} else {
			attendees = append(attendees, fmt.Sprintf("%q", id.Name))
		}
	}
	if len(attendees) > 0 {
		lines = append(lines, "attendees:")
		for _, a := range attendees {
			lines = append(lines, "  - "+a)
		}
	}

	lines = append(lines, "tags:", "  - Meetings")
	lines = append(lines, "created: "+w.now().Format("2006-01-02 15:04"))

	if e.Start.DateTime != "" {
		lines = append(lines, "start: "+e.Start.DateTime)
	}
	if e.End.DateTime != "" {
		lines = append(lines, "end: "+e.End.DateTime)
	}
	if e.HangoutLink != "" {
		lines = append(lines, "gmeet: "+e.HangoutLink)
	}

	byCategory := w.classifier.Collect(ctx, e.Attachments)
	for _, cat := range model.CategoryOrder {
		urls := byCategory[cat]
		if len(urls) == 0 {
			continue
		}
		key := string(cat)
		if cat == model.CategoryOther {
			key = "attachments"
		}
		if len(urls) == 1 {
			lines = append(lines, key+": "+urls[0])
		} else {
			lines = append(lines, key+":")
			for _, u := range urls {
				lines = append(lines, "  - "+u)
			}
		}
	}

	if e.HTMLLink != "" {
		lines = append(lines, "URL: "+e.HTMLLink)
	}

	return append(lines, "---")
}

var (
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
	agendaHeading = regexp.MustCompile(`^#+\s+.*Agenda\s*$`)
)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}

// injectDescription places the event description inside the template's
// agenda section, right after the heading and before the next one. A
// template without an agenda heading gets the description appended as a
// new section.
func injectDescription(body, desc string) string {
	if desc == "" {
		return body
	}

	lines := strings.Split(body, "\n")
	agendaIdx := -1
	for i, line := range lines {
		if agendaHeading.MatchString(line) {
			agendaIdx = i
			break
		}
	}

	if agendaIdx == -1 {
		return strings.TrimRight(body, "\n") + "\n\n## Agenda\n\n" + desc + "\n"
	}

	insertAt := len(lines)
	for i := agendaIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "#") {
			insertAt = i
			break
		}
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:agendaIdx+1]...)
	out = append(out, "", desc)
	if insertAt < len(lines) {
		out = append(out, "")
	}
	out = append(out, lines[insertAt:]...)
	return strings.Join(out, "\n")
}
