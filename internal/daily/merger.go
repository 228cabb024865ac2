// Package daily maintains the machine-owned meetings section of daily
// notes. Everything outside that one section is user-owned and preserved
// byte-for-byte.
package daily

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appLog "dailyplan/internal/log"
	"dailyplan/internal/vault"
)

// Entry is one meeting link to merge: the note's link identity plus its
// start timestamp ("" for all-day or unknown, which sorts first).
type Entry struct {
	Start string
	Stem  string
}

type Merger struct {
	vault  *vault.Vault
	header string
	now    func() time.Time
}

func NewMerger(v *vault.Vault, sectionHeader string) *Merger {
	return &Merger{vault: v, header: sectionHeader, now: time.Now}
}

// Merge folds the given entries into the daily note for day. The meetings
// section ends up deduplicated by stem and sorted ascending by start time;
// applying the same entries twice leaves the document unchanged.
func (m *Merger) Merge(day time.Time, entries []Entry) error {
	path := m.vault.DailyPath(day)

	content, err := m.readOrSynthesize(path)
	if err != nil {
		return err
	}

	merged := m.mergeContent(content, entries)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("daily note: %w", err)
	}
	if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
		return fmt.Errorf("daily note: %w", err)
	}

	appLog.Info("updated daily note", "note", filepath.Base(path), "links", len(entries))
	return nil
}

// readOrSynthesize returns the existing document, or a fresh one built
// from the daily template with a pre-populated metadata header.
func (m *Merger) readOrSynthesize(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("daily note: %w", err)
	}

	created := m.now().Format("2006-01-02 15:04")
	header := "---\ncreated: " + created + "\ntags:\n  - Daily_Notes\n---\n\n"
	return header + m.vault.DailyTemplate(), nil
}

// mergeContent rewrites the meetings section inside content. When the
// section header is absent entirely, a new section is appended at the end.
func (m *Merger) mergeContent(content string, entries []Entry) string {
	idx := strings.Index(content, m.header)
	if idx == -1 {
		links := m.renderLinks(nil, entries)
		return strings.TrimRight(content, "\n") + "\n\n" + m.header + "\n\n" +
			strings.Join(links, "\n") + "\n"
	}

	// The section spans from its header to the next heading line (or EOF).
	end := len(content)
	if rel := strings.Index(content[idx+1:], "\n#"); rel != -1 {
		end = idx + 1 + rel
	}

	section := content[idx:end]
	before, stems, after := scanSection(section)

	links := m.renderLinks(stems, entries)

	rebuilt := []string{m.header}
	if len(before) > 0 {
		rebuilt = append(rebuilt, before...)
	} else {
		rebuilt = append(rebuilt, "")
	}
	rebuilt = append(rebuilt, links...)
	rebuilt = append(rebuilt, after...)

	return content[:idx] + strings.Join(rebuilt, "\n") + content[end:]
}

// scanSection splits a section's lines into the three zones: content
// before the link list (preserved), the list itself (collected as stems
// and regenerated), and everything after the list's single contiguous run
// (preserved, even blank or list-shaped lines).
func scanSection(section string) (before []string, stems []string, after []string) {
	lines := strings.Split(section, "\n")

	const (
		stBefore = iota
		stInList
		stAfter
	)
	state := stBefore

	for _, line := range lines[1:] {
		item, ok := parseListItem(line)
		switch state {
		case stBefore:
			if ok {
				state = stInList
				stems = append(stems, item)
			} else {
				before = append(before, line)
			}
		case stInList:
			if ok {
				stems = append(stems, item)
			} else {
				state = stAfter
				after = append(after, line)
			}
		case stAfter:
			after = append(after, line)
		}
	}
	return before, stems, after
}

// parseListItem recognizes a meeting-link list item ("- [[stem]]") and
// extracts its stem.
func parseListItem(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "- [[") || !strings.HasSuffix(s, "]]") {
		return "", false
	}
	return s[len("- [[") : len(s)-len("]]")], true
}

// renderLinks unions previously recorded stems with new entries, dedupes
// by stem, resolves each stem's start time, and renders the sorted list.
// The start time is recovered from the note file itself; an entry's own
// start only backs up an unreadable note. Empty starts sort first, stem is
// the tiebreak.
func (m *Merger) renderLinks(existing []string, entries []Entry) []string {
	starts := make(map[string]string)

	for _, stem := range existing {
		if _, seen := starts[stem]; !seen {
			starts[stem] = m.vault.NoteStartTime(stem)
		}
	}
	for _, e := range entries {
		if _, seen := starts[e.Stem]; seen {
			continue
		}
		start := m.vault.NoteStartTime(e.Stem)
		if start == "" {
			start = e.Start
		}
		starts[e.Stem] = start
	}

	merged := make([]Entry, 0, len(starts))
	for stem, start := range starts {
		merged = append(merged, Entry{Start: start, Stem: stem})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Start != merged[j].Start {
			return merged[i].Start < merged[j].Start
		}
		return merged[i].Stem < merged[j].Stem
	})

	links := make([]string, 0, len(merged))
	for _, e := range merged {
		links = append(links, "- [["+e.Stem+"]]")
	}
	return links
}
