package mirror

import (
	"context"

	"github.com/arthur-debert/dotback/pkg/config"
	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/transfer"
)

// Mirror runs backups and restores for a fixed mapping list
type Mirror struct {
	fs       filesystem.FS
	engine   *transfer.Engine
	planner  *Planner
	resolver *paths.Resolver
	mappings []config.Mapping
}

// New creates a Mirror
func New(fsys filesystem.FS, engine *transfer.Engine, planner *Planner, resolver *paths.Resolver, mappings []config.Mapping) *Mirror {
	return &Mirror{
		fs:       fsys,
		engine:   engine,
		planner:  planner,
		resolver: resolver,
		mappings: mappings,
	}
}

// Root returns the resolved mirror directory
func (m *Mirror) Root() (string, error) {
	return m.resolver.Resolve(paths.MirrorRoot, "")
}

// Plan returns the entries a run in dir would process
func (m *Mirror) Plan(dir Direction) ([]transfer.Entry, error) {
	return m.planner.Plan(dir, m.mappings)
}

// Backup deletes and recreates the mirror, then copies every mapping into
// it. The returned error is fatal; per-entry failures are in the Report.
func (m *Mirror) Backup(ctx context.Context) (transfer.Report, error) {
	logger := logging.GetLogger("mirror")

	entries, err := m.Plan(Backup)
	if err != nil {
		return transfer.Report{}, err
	}

	root, err := m.Root()
	if err != nil {
		return transfer.Report{}, err
	}
	if err := m.reset(root); err != nil {
		return transfer.Report{}, err
	}

	logger.Info().Str("mirror", root).Int("entries", len(entries)).Msg("Starting backup")
	return m.engine.Run(ctx, entries), nil
}

// Restore copies the mirror back into the real locations. The mirror is
// left untouched.
func (m *Mirror) Restore(ctx context.Context) (transfer.Report, error) {
	logger := logging.GetLogger("mirror")

	entries, err := m.Plan(Restore)
	if err != nil {
		return transfer.Report{}, err
	}

	root, err := m.Root()
	if err != nil {
		return transfer.Report{}, err
	}
	if _, err := m.fs.Stat(root); err != nil {
		logger.Warn().Str("mirror", root).Msg("Mirror directory not found, every entry will fail")
	}

	logger.Info().Str("mirror", root).Int("entries", len(entries)).Msg("Starting restore")
	return m.engine.Run(ctx, entries), nil
}

// reset removes the whole mirror tree and recreates an empty root
func (m *Mirror) reset(root string) error {
	if err := m.fs.RemoveAll(root); err != nil {
		return errors.Wrapf(err, errors.ErrMirrorReset, "failed to remove %s", root)
	}
	if err := m.fs.MkdirAll(root, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrMirrorReset, "failed to create %s", root)
	}
	return nil
}
