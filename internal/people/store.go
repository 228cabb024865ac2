// Package people matches calendar attendees to the vault's person files.
package people

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	appLog "dailyplan/internal/log"
)

// personMeta is the subset of a person file's frontmatter the pipeline
// reads. Older files use "email", newer ones "mail".
type personMeta struct {
	Mail  string `yaml:"mail"`
	Email string `yaml:"email"`
}

// Directory is the immutable known-identity mapping, built once per run by
// scanning the people folder. Keys are declared emails and lower-cased
// canonical names; values are canonical names (file stems).
type Directory struct {
	byEmail map[string]string
	byName  map[string]string
}

// LoadDirectory scans peopleDir for *.md person files and indexes them by
// declared email and by name. Unreadable or frontmatter-less files are
// logged and skipped; a missing directory yields an empty Directory.
func LoadDirectory(peopleDir string) *Directory {
	d := &Directory{
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}

	entries, err := os.ReadDir(peopleDir)
	if err != nil {
		appLog.Warn("people folder not readable", "dir", peopleDir, "err", err)
		return d
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		d.byName[strings.ToLower(name)] = name

		path := filepath.Join(peopleDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			appLog.Warn("person file not readable", "file", path, "err", err)
			continue
		}

		var meta personMeta
		if _, err := frontmatter.Parse(strings.NewReader(string(data)), &meta); err != nil {
			appLog.Warn("person frontmatter unparseable", "file", path, "err", err)
			continue
		}

		email := strings.TrimSpace(meta.Mail)
		if email == "" {
			email = strings.TrimSpace(meta.Email)
		}
		if email != "" {
			d.byEmail[email] = name
		}
	}

	appLog.Info("people directory loaded", "dir", peopleDir,
		"people", len(d.byName), "emails", len(d.byEmail))
	return d
}

// ByEmail returns the canonical name declared for an email.
func (d *Directory) ByEmail(email string) (string, bool) {
	name, ok := d.byEmail[email]
	return name, ok
}

// ByName returns the canonical name for a case-insensitive name match.
func (d *Directory) ByName(name string) (string, bool) {
	canonical, ok := d.byName[strings.ToLower(name)]
	return canonical, ok
}

// Size returns the number of indexed people.
func (d *Directory) Size() int {
	return len(d.byName)
}
