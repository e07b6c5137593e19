// Package mirror turns the configured mappings into transfer entries and
// runs backups and restores against the mirror directory.
package mirror

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotback/pkg/config"
	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/transfer"
)

// Direction of a run
type Direction int

const (
	// Backup copies real locations into the mirror
	Backup Direction = iota
	// Restore copies the mirror back into real locations
	Restore
)

func (d Direction) String() string {
	if d == Restore {
		return "restore"
	}
	return "backup"
}

// Planner builds entry lists for this host
type Planner struct {
	resolver      *paths.Resolver
	platform      paths.Platform
	remoteEnabled bool
}

// NewPlanner creates a planner. Remote mappings are skipped unless
// remoteEnabled is set.
func NewPlanner(resolver *paths.Resolver, platform paths.Platform, remoteEnabled bool) *Planner {
	return &Planner{resolver: resolver, platform: platform, remoteEnabled: remoteEnabled}
}

// Plan returns one entry per applicable mapping, in configuration order.
// Resolution errors are returned as is; they are fatal for the run, as are
// two entries sharing (or nesting) a mirror path on this host.
func (p *Planner) Plan(dir Direction, mappings []config.Mapping) ([]transfer.Entry, error) {
	logger := logging.GetLogger("mirror.plan")

	entries := make([]transfer.Entry, 0, len(mappings))
	for _, m := range mappings {
		if !p.platform.Matches(m.Platforms) {
			logger.Debug().Str("name", m.Name).Strs("platforms", m.Platforms).Msg("Skipping mapping for other platform")
			continue
		}
		if m.Remote && !p.remoteEnabled {
			logger.Debug().Str("name", m.Name).Msg("Skipping remote mapping, no remote configured")
			continue
		}

		entry, err := p.entry(dir, m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := checkMirrorPaths(dir, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// mirrorSide is the entry's path inside the mirror
func mirrorSide(dir Direction, e transfer.Entry) string {
	if dir == Backup {
		return e.Target
	}
	return e.Source
}

func checkMirrorPaths(dir Direction, entries []transfer.Entry) error {
	for i := range entries {
		for j := 0; j < i; j++ {
			a, b := mirrorSide(dir, entries[j]), mirrorSide(dir, entries[i])
			if !overlaps(a, b) {
				continue
			}
			return errors.Newf(errors.ErrConfigValid,
				"mappings %s and %s both use mirror path %s on this host", entries[j].Name, entries[i].Name, b).
				WithDetail("first", entries[j].Name).
				WithDetail("second", entries[i].Name)
		}
	}
	return nil
}

// overlaps reports whether a and b are the same path or one contains the other
func overlaps(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, b+sep) || strings.HasPrefix(b, a+sep)
}

func (p *Planner) entry(dir Direction, m config.Mapping) (transfer.Entry, error) {
	mirrorPath, err := p.resolver.Resolve(paths.MirrorRoot, m.Mirror)
	if err != nil {
		return transfer.Entry{}, err
	}

	if m.Remote {
		if dir == Backup {
			return transfer.Entry{Name: m.Name, Kind: transfer.KindRemoteDownload, Source: m.Path, Target: mirrorPath}, nil
		}
		return transfer.Entry{Name: m.Name, Kind: transfer.KindRemoteUpload, Source: mirrorPath, Target: m.Path}, nil
	}

	loc, err := paths.ParseLocation(m.Location)
	if err != nil {
		return transfer.Entry{}, errors.Wrapf(err, errors.ErrConfigValid, "mapping %s", m.Name)
	}
	realPath, err := p.resolver.Resolve(loc, m.Path)
	if err != nil {
		return transfer.Entry{}, err
	}

	kind := localKind(m.Kind)
	if dir == Backup {
		return transfer.Entry{Name: m.Name, Kind: kind, Source: realPath, Target: mirrorPath}, nil
	}
	return transfer.Entry{Name: m.Name, Kind: kind, Source: mirrorPath, Target: realPath}, nil
}

func localKind(kind string) transfer.Kind {
	switch kind {
	case config.KindFile:
		return transfer.KindFile
	case config.KindDir:
		return transfer.KindDirectory
	}
	return transfer.KindLocal
}
