// Package vault knows the Obsidian vault's layout: where people, meeting
// and daily notes live, how dates map to paths, and how templates are
// resolved.
package vault

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"dailyplan/internal/config"
	"dailyplan/internal/dateformat"
	appLog "dailyplan/internal/log"
)

// dailyNotesConfig mirrors .obsidian/daily-notes.json.
type dailyNotesConfig struct {
	Folder string `json:"folder"`
	Format string `json:"format"`
}

// templatesConfig mirrors .obsidian/templates.json.
type templatesConfig struct {
	Folder string `json:"folder"`
}

type Vault struct {
	Root string

	peopleFolder    string
	meetingsFolder  string
	dailyFolder     string
	templatesFolder string
	meetingFormat   string
	dailyFormat     string
}

// Open binds a vault root to the pipeline configuration. Vault-local
// .obsidian settings override the configured folder and format defaults.
func Open(root string, cfg *config.Config) *Vault {
	v := &Vault{
		Root:            root,
		peopleFolder:    cfg.PeopleFolder,
		meetingsFolder:  cfg.MeetingsFolder,
		dailyFolder:     cfg.DailyNotesFolder,
		templatesFolder: cfg.TemplatesFolder,
		meetingFormat:   cfg.MeetingFormat,
		dailyFormat:     cfg.DailyFormat,
	}

	var daily dailyNotesConfig
	if readObsidianJSON(root, "daily-notes.json", &daily) {
		if daily.Folder != "" {
			v.dailyFolder = daily.Folder
		}
		if daily.Format != "" {
			v.dailyFormat = daily.Format
		}
	}

	var tmpl templatesConfig
	if readObsidianJSON(root, "templates.json", &tmpl) {
		if tmpl.Folder != "" {
			v.templatesFolder = tmpl.Folder
		}
	}

	return v
}

// readObsidianJSON loads one .obsidian config file. Malformed files are
// logged and ignored so a broken vault config never stops a run.
func readObsidianJSON(root, name string, out any) bool {
	path := filepath.Join(root, ".obsidian", name)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		appLog.Warn("obsidian config unparseable", "file", path, "err", err)
		return false
	}
	return true
}

// PeopleDir returns the absolute people directory.
func (v *Vault) PeopleDir() string {
	return filepath.Join(v.Root, v.peopleFolder)
}

// MeetingsDir returns the absolute meetings root.
func (v *Vault) MeetingsDir() string {
	return filepath.Join(v.Root, v.meetingsFolder)
}

var (
	invalidChars = regexp.MustCompile(`[<>:"\\|?*]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeTitle makes an event title safe for a filename: path-hostile
// separators become " - ", remaining forbidden characters are stripped,
// whitespace is collapsed and trimmed.
func SanitizeTitle(title string) string {
	title = strings.ReplaceAll(title, "/", " - ")
	title = strings.ReplaceAll(title, ":", " - ")
	title = strings.ReplaceAll(title, "|", " - ")
	title = invalidChars.ReplaceAllString(title, "")
	title = multiSpace.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// MeetingPath builds the deterministic note path for an event: the
// meetings root, a date-formatted subdirectory, and
// "YYYY-MM-DD - Title.md".
func (v *Vault) MeetingPath(day time.Time, title string) string {
	subdir := day.Format(dateformat.ToGoLayout(v.meetingFormat))
	name := day.Format("2006-01-02") + " - " + SanitizeTitle(title) + ".md"
	return filepath.Join(v.MeetingsDir(), filepath.FromSlash(subdir), name)
}

// DailyPath builds the daily note path for a date from the vault's daily
// note format. Slashes inside the formatted value become subdirectories;
// the last element is the filename.
func (v *Vault) DailyPath(day time.Time) string {
	formatted := day.Format(dateformat.ToGoLayout(v.dailyFormat))
	if !strings.HasSuffix(formatted, ".md") {
		formatted += ".md"
	}
	return filepath.Join(v.Root, v.dailyFolder, filepath.FromSlash(formatted))
}

// Stem returns a note path's link identity: the filename without .md.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

// noteHeader is the slice of meeting-note frontmatter the merger reads.
type noteHeader struct {
	Start string `yaml:"start"`
}

// NoteStartTime finds the meeting note with the given stem anywhere under
// the meetings root and returns its frontmatter start value. Missing or
// unreadable notes yield "", which sorts before any timestamp.
func (v *Vault) NoteStartTime(stem string) string {
	target := stem + ".md"
	found := ""

	err := filepath.WalkDir(v.MeetingsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking elsewhere
		}
		if d.IsDir() || d.Name() != target {
			return nil
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			appLog.Warn("meeting note not readable", "file", path, "err", rerr)
			return nil
		}
		var hdr noteHeader
		if _, perr := frontmatter.Parse(strings.NewReader(string(data)), &hdr); perr != nil {
			appLog.Warn("meeting note frontmatter unparseable", "file", path, "err", perr)
			return nil
		}
		found = strings.TrimSpace(hdr.Start)
		return fs.SkipAll
	})
	if err != nil {
		return ""
	}
	return found
}
