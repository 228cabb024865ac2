package daily

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dailyplan/internal/config"
	"dailyplan/internal/vault"
)

var day = time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)

func newTestMerger(t *testing.T) (*Merger, *vault.Vault) {
	t.Helper()
	v := vault.Open(t.TempDir(), config.DefaultConfig())
	m := NewMerger(v, "# 📅 Meetings")
	m.now = func() time.Time { return time.Date(2026, 2, 26, 7, 0, 0, 0, time.UTC) }
	return m, v
}

// writeMeetingNote drops a minimal note into the meetings tree so the
// merger can recover its start time.
func writeMeetingNote(t *testing.T, v *vault.Vault, stem, start string) {
	t.Helper()
	dir := filepath.Join(v.MeetingsDir(), "2026", "02-February")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "---\n"
	if start != "" {
		content += "start: " + start + "\n"
	}
	content += "tags:\n  - Meetings\n---\n"
	if err := os.WriteFile(filepath.Join(dir, stem+".md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readDaily(t *testing.T, v *vault.Vault) string {
	t.Helper()
	data, err := os.ReadFile(v.DailyPath(day))
	if err != nil {
		t.Fatalf("daily note: %v", err)
	}
	return string(data)
}

func TestMergeSynthesizesMissingDailyNote(t *testing.T) {
	m, v := newTestMerger(t)
	writeMeetingNote(t, v, "2026-02-26 - Standup", "09:00")

	err := m.Merge(day, []Entry{{Start: "09:00", Stem: "2026-02-26 - Standup"}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	content := readDaily(t, v)
	if !strings.HasPrefix(content, "---\ncreated: 2026-02-26 07:00\ntags:\n  - Daily_Notes\n---\n") {
		t.Errorf("frontmatter missing:\n%s", content)
	}
	if !strings.Contains(content, "# 📅 Meetings") {
		t.Error("meetings header missing")
	}
	if !strings.Contains(content, "- [[2026-02-26 - Standup]]") {
		t.Errorf("link missing:\n%s", content)
	}
}

func TestMergeAppendsSectionWhenHeaderAbsent(t *testing.T) {
	m, v := newTestMerger(t)
	path := v.DailyPath(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "---\ntags:\n  - Daily_Notes\n---\n\n# Journal\n\nwrote some thoughts\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Merge(day, []Entry{{Stem: "2026-02-26 - Sync"}}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	content := readDaily(t, v)
	if !strings.Contains(content, "wrote some thoughts") {
		t.Error("user content lost")
	}
	if !strings.HasSuffix(content, "# 📅 Meetings\n\n- [[2026-02-26 - Sync]]\n") {
		t.Errorf("section not appended:\n%s", content)
	}
}

func TestMergeSortsByStartTimeEmptyFirst(t *testing.T) {
	m, v := newTestMerger(t)
	writeMeetingNote(t, v, "A", "10:00")
	writeMeetingNote(t, v, "B", "")
	writeMeetingNote(t, v, "C", "09:00")
	writeMeetingNote(t, v, "D", "08:30")

	path := v.DailyPath(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "# 📅 Meetings\n\n- [[A]]\n- [[B]]\n- [[C]]\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Merge(day, []Entry{{Start: "08:30", Stem: "D"}}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	content := readDaily(t, v)
	want := "- [[B]]\n- [[D]]\n- [[C]]\n- [[A]]"
	if !strings.Contains(content, want) {
		t.Errorf("link order wrong:\n%s\nwant block:\n%s", content, want)
	}
}

func TestMergeDeduplicates(t *testing.T) {
	m, v := newTestMerger(t)
	writeMeetingNote(t, v, "2026-02-26 - Sync", "09:00")

	entries := []Entry{{Start: "09:00", Stem: "2026-02-26 - Sync"}}
	if err := m.Merge(day, entries); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if err := m.Merge(day, entries); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	content := readDaily(t, v)
	if n := strings.Count(content, "- [[2026-02-26 - Sync]]"); n != 1 {
		t.Errorf("link appears %d times, want 1:\n%s", n, content)
	}
}

func TestMergePreservesSurroundingContent(t *testing.T) {
	m, v := newTestMerger(t)
	writeMeetingNote(t, v, "A", "09:00")

	path := v.DailyPath(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "intro paragraph\n\n" +
		"# 📅 Meetings\n\n" +
		"- [[A]]\n" +
		"remember to follow up with legal\n" +
		"even this second line\n" +
		"\n" +
		"# Notes\n\nuser notes here\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Merge(day, []Entry{{Start: "10:00", Stem: "Z"}}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	content := readDaily(t, v)
	for _, want := range []string{
		"intro paragraph",
		"remember to follow up with legal\neven this second line",
		"# Notes\n\nuser notes here",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("content %q lost:\n%s", want, content)
		}
	}

	// The trailing user text stays attached right after the regenerated list.
	if !strings.Contains(content, "- [[Z]]\nremember to follow up with legal") {
		t.Errorf("after-list zone not directly after list:\n%s", content)
	}
}

func TestMergeIdempotentByteForByte(t *testing.T) {
	m, v := newTestMerger(t)
	writeMeetingNote(t, v, "2026-02-26 - Standup", "2026-02-26T09:00:00Z")
	writeMeetingNote(t, v, "2026-02-26 - Retro", "2026-02-26T15:00:00Z")

	entries := []Entry{
		{Start: "2026-02-26T15:00:00Z", Stem: "2026-02-26 - Retro"},
		{Start: "2026-02-26T09:00:00Z", Stem: "2026-02-26 - Standup"},
	}

	if err := m.Merge(day, entries); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	first := readDaily(t, v)

	if err := m.Merge(day, entries); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	second := readDaily(t, v)

	if first != second {
		t.Errorf("merge not idempotent:\nfirst:\n%q\nsecond:\n%q", first, second)
	}
}

func TestScanSectionZones(t *testing.T) {
	section := "# 📅 Meetings\nlead-in\n\n- [[A]]\n- [[B]]\ntrailing\n\n- [[C]]"
	before, stems, after := scanSection(section)

	if len(before) != 2 || before[0] != "lead-in" {
		t.Errorf("before = %q", before)
	}
	if len(stems) != 2 || stems[0] != "A" || stems[1] != "B" {
		t.Errorf("stems = %q", stems)
	}
	// The list is one contiguous run: once it ends, even list-shaped lines
	// stay in the after zone.
	joined := strings.Join(after, "\n")
	if joined != "trailing\n\n- [[C]]" {
		t.Errorf("after = %q", joined)
	}
}
