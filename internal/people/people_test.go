package people

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dailyplan/internal/model"
)

func writePerson(t *testing.T, dir, name, frontmatter string) {
	t.Helper()
	content := "---\n" + frontmatter + "---\n\n# " + name + "\n"
	if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	dir := t.TempDir()
	writePerson(t, dir, "Ada Lovelace", "mail: ada@example.com\ntitle: Engineer\n")
	writePerson(t, dir, "Grace Hopper", "email: grace@example.com\n")
	writePerson(t, dir, "No Mail", "title: Manager\n")
	return LoadDirectory(dir)
}

type fakeLookup struct {
	name string
	err  error
}

func (f fakeLookup) LookupPerson(ctx context.Context, query string) (string, error) {
	return f.name, f.err
}

func TestLoadDirectoryIndexes(t *testing.T) {
	d := testDirectory(t)

	if d.Size() != 3 {
		t.Errorf("Size = %d, want 3", d.Size())
	}
	if name, ok := d.ByEmail("ada@example.com"); !ok || name != "Ada Lovelace" {
		t.Errorf("ByEmail(ada) = %q, %v", name, ok)
	}
	// Legacy "email" key still counts.
	if name, ok := d.ByEmail("grace@example.com"); !ok || name != "Grace Hopper" {
		t.Errorf("ByEmail(grace) = %q, %v", name, ok)
	}
	if name, ok := d.ByName("grace hopper"); !ok || name != "Grace Hopper" {
		t.Errorf("ByName(grace hopper) = %q, %v", name, ok)
	}
}

func TestLoadDirectoryMissingDir(t *testing.T) {
	d := LoadDirectory(filepath.Join(t.TempDir(), "absent"))
	if d.Size() != 0 {
		t.Errorf("Size = %d, want 0", d.Size())
	}
}

func TestResolveKnownEmail(t *testing.T) {
	r := NewResolver(testDirectory(t), nil)

	got := r.Resolve(context.Background(), "ada@example.com", "A. Lovelace")
	if got.Name != "Ada Lovelace" || !got.Linked() {
		t.Errorf("got %+v, want linked Ada Lovelace", got)
	}
}

func TestResolveNameMatch(t *testing.T) {
	r := NewResolver(testDirectory(t), nil)

	got := r.Resolve(context.Background(), "other@nowhere.com", "grace HOPPER")
	if got.Name != "Grace Hopper" || !got.Linked() {
		t.Errorf("got %+v, want linked Grace Hopper", got)
	}
}

func TestResolveExternalRecheckedAgainstVault(t *testing.T) {
	r := NewResolver(testDirectory(t), fakeLookup{name: "Ada Lovelace"})

	got := r.Resolve(context.Background(), "ada.l@corp.example.com", "")
	if got.Name != "Ada Lovelace" || got.Provenance != model.ProvenanceDirectory {
		t.Errorf("got %+v, want directory-linked Ada Lovelace", got)
	}
}

func TestResolveExternalUnlinked(t *testing.T) {
	r := NewResolver(testDirectory(t), fakeLookup{name: "Katherine Johnson"})

	got := r.Resolve(context.Background(), "kj@corp.example.com", "")
	if got.Name != "Katherine Johnson" || got.Provenance != model.ProvenanceExternal {
		t.Errorf("got %+v, want unlinked external name", got)
	}
	if got.Linked() {
		t.Error("external result must not render as a wikilink")
	}
}

func TestResolveLookupFailureContinuesCascade(t *testing.T) {
	r := NewResolver(testDirectory(t), fakeLookup{err: errors.New("timeout")})

	got := r.Resolve(context.Background(), "x@y.com", "Literal Name")
	if got.Name != "Literal Name" || got.Provenance != model.ProvenanceLiteral {
		t.Errorf("got %+v, want literal display name", got)
	}
}

func TestResolveEmailLocalPart(t *testing.T) {
	r := NewResolver(testDirectory(t), nil)

	got := r.Resolve(context.Background(), "jdoe@corp.example.com", "")
	if got.Name != "jdoe" || got.Provenance != model.ProvenanceEmailLocal {
		t.Errorf("got %+v, want email local-part jdoe", got)
	}
}

func TestResolvePlaceholder(t *testing.T) {
	r := NewResolver(testDirectory(t), nil)

	got := r.Resolve(context.Background(), "", "")
	if got.Name != "Unknown" || got.Provenance != model.ProvenancePlaceholder {
		t.Errorf("got %+v, want placeholder", got)
	}
}
