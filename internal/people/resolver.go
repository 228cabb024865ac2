package people

import (
	"context"
	"strings"

	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
)

// unknownName is emitted only when an attendee carries no signal at all.
const unknownName = "Unknown"

// DirectoryLookup is the capability for querying an external identity
// directory. Implementations must bound their own work with ctx; an empty
// name means no match.
type DirectoryLookup interface {
	LookupPerson(ctx context.Context, query string) (name string, err error)
}

// Resolver maps an attendee record to a display identity. It never fails:
// a missing identity must not block note creation.
type Resolver struct {
	dir    *Directory
	lookup DirectoryLookup // may be nil
}

func NewResolver(dir *Directory, lookup DirectoryLookup) *Resolver {
	return &Resolver{dir: dir, lookup: lookup}
}

// Resolve runs the resolution cascade, short-circuiting on the first hit:
//
//  1. exact email match in the vault directory
//  2. case-insensitive name match in the vault directory
//  3. one external directory lookup by email; its result is re-checked
//     against the vault before being used as an unlinked name
//  4. literal display name
//  5. email local-part
//  6. a fixed placeholder
//
// External lookup failures are swallowed and treated as no result.
func (r *Resolver) Resolve(ctx context.Context, email, displayName string) model.ResolvedIdentity {
	if email != "" {
		if name, ok := r.dir.ByEmail(email); ok {
			return model.ResolvedIdentity{Name: name, Provenance: model.ProvenanceDirectory}
		}
	}

	if displayName != "" {
		if name, ok := r.dir.ByName(displayName); ok {
			return model.ResolvedIdentity{Name: name, Provenance: model.ProvenanceDirectory}
		}
	}

	if email != "" && r.lookup != nil {
		name, err := r.lookup.LookupPerson(ctx, email)
		if err != nil {
			appLog.Warn("directory lookup failed", "email", email, "err", err)
		} else if name != "" {
			if canonical, ok := r.dir.ByName(name); ok {
				return model.ResolvedIdentity{Name: canonical, Provenance: model.ProvenanceDirectory}
			}
			return model.ResolvedIdentity{Name: name, Provenance: model.ProvenanceExternal}
		}
	}

	if displayName != "" {
		return model.ResolvedIdentity{Name: displayName, Provenance: model.ProvenanceLiteral}
	}

	if email != "" {
		local := email
		if at := strings.Index(email, "@"); at > 0 {
			local = email[:at]
		}
		return model.ResolvedIdentity{Name: local, Provenance: model.ProvenanceEmailLocal}
	}

	return model.ResolvedIdentity{Name: unknownName, Provenance: model.ProvenancePlaceholder}
}
