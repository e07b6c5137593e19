package transfer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/remote"
)

const (
	dirPerm  fs.FileMode = 0755
	filePerm fs.FileMode = 0644
)

// Reporter receives the console lines of a run
type Reporter interface {
	Transfer(kind, source, target string)
	Failure(kind, source, target string, err error)
}

type nopReporter struct{}

func (nopReporter) Transfer(string, string, string)        {}
func (nopReporter) Failure(string, string, string, error) {}

// Engine performs transfers against a filesystem and an optional remote
type Engine struct {
	fs       filesystem.FS
	remote   remote.Remote
	reporter Reporter
}

// Option configures an Engine
type Option func(*Engine)

// WithRemote sets the remote used by upload and download entries
func WithRemote(r remote.Remote) Option {
	return func(e *Engine) { e.remote = r }
}

// WithReporter sets where transfer and failure lines go
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// New creates an engine over fsys
func New(fsys filesystem.FS, opts ...Option) *Engine {
	e := &Engine{fs: fsys, reporter: nopReporter{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies every entry in order. Failures are reported and collected;
// the run only stops early when ctx is cancelled.
func (e *Engine) Run(ctx context.Context, entries []Entry) Report {
	logger := logging.GetLogger("transfer")
	done := logging.LogOperationStart(logger, "run")
	defer done()

	var report Report
	for _, entry := range entries {
		if ctx.Err() != nil {
			logger.Warn().Int("remaining", len(entries)-len(report.Succeeded)-len(report.Failed)).
				Msg("Run interrupted")
			break
		}
		if err := e.Apply(ctx, entry); err != nil {
			if _, ok := err.(reportedError); !ok {
				e.reporter.Failure(e.label(entry), entry.Source, entry.Target, err)
			}
			logger.Warn().Err(err).
				Str("name", entry.Name).
				Str("source", entry.Source).
				Str("target", entry.Target).
				Msg("Transfer failed")
			report.Failed = append(report.Failed, Failure{Entry: entry, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, entry)
	}

	logger.Info().
		Int("succeeded", len(report.Succeeded)).
		Int("failed", len(report.Failed)).
		Msg("Run finished")
	return report
}

// Apply performs a single entry
func (e *Engine) Apply(ctx context.Context, entry Entry) error {
	switch entry.Kind {
	case KindLocal, KindFile, KindDirectory:
		return e.copy(entry.Kind, entry.Source, entry.Target)
	case KindRemoteUpload:
		return e.Upload(ctx, entry.Source, entry.Target)
	case KindRemoteDownload:
		return e.Download(ctx, entry.Source, entry.Target)
	}
	return errors.Newf(errors.ErrInvalidInput, "unknown transfer kind %d", int(entry.Kind))
}

// reportedError carries an error whose parts already have failure lines
type reportedError struct{ error }

func (r reportedError) Unwrap() error { return r.error }

// label is the kind printed for entry. Local copies are shown as the file
// or directory copy their source turns out to be, matching the transfer line.
func (e *Engine) label(entry Entry) string {
	switch entry.Kind {
	case KindLocal, KindFile, KindDirectory:
	default:
		return entry.Kind.String()
	}
	if info, err := e.fs.Stat(entry.Source); err == nil && info.IsDir() {
		return KindDirectory.String()
	}
	return KindFile.String()
}

// Transfer copies source to target, as a file or a directory tree
// depending on what source is
func (e *Engine) Transfer(_ context.Context, source, target string) error {
	return e.copy(KindLocal, source, target)
}

func (e *Engine) copy(want Kind, source, target string) error {
	info, statErr := e.fs.Stat(source)
	kind := KindFile
	if statErr == nil && info.IsDir() {
		kind = KindDirectory
	}
	e.reporter.Transfer(kind.String(), source, target)

	if statErr != nil {
		return sourceError(statErr, source)
	}
	if want != KindLocal && want != kind {
		return errors.Newf(errors.ErrKindMismatch, "%s is not a %s source", source, want).
			WithDetail("source", source)
	}
	if kind == KindDirectory {
		if within(target, source) {
			return errors.Newf(errors.ErrFileCopy, "cannot copy %s into itself (%s)", source, target).
				WithDetail("source", source)
		}
		return e.copyDir(source, target)
	}
	return e.copyFile(source, target)
}

// copyFile streams source into target, creating target's parents and
// overwriting any existing target
func (e *Engine) copyFile(source, target string) error {
	if e.sameFile(source, target) {
		return errors.Newf(errors.ErrFileCopy, "%s and %s are the same file", source, target).
			WithDetail("source", source)
	}
	if err := e.fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", target)
	}

	in, err := e.fs.Open(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to open %s", source)
	}
	defer in.Close()

	out, err := e.fs.Create(target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to create %s", target)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s to %s", source, target)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", target)
	}
	return nil
}

// copyDir merges the source tree into target. Files only present in
// target are left alone. A failing child does not stop its siblings; the
// failures come back joined.
func (e *Engine) copyDir(source, target string) error {
	if err := e.fs.MkdirAll(target, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", target)
	}

	entries, err := e.fs.ReadDir(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", source)
	}

	var errs []error
	for _, entry := range entries {
		from := filepath.Join(source, entry.Name())
		to := filepath.Join(target, entry.Name())

		isDir, err := e.isDir(entry, from)
		if err == nil {
			if isDir {
				err = e.copyDir(from, to)
			} else {
				err = e.copyFile(from, to)
			}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs, errors.ErrFileCopy, "failed to copy %d entries under %s", len(errs), source)
}

// sameFile reports whether a and b name the same file, by path or by
// identity (hard links, symlinked parents)
func (e *Engine) sameFile(a, b string) bool {
	if absPath(a) == absPath(b) {
		return true
	}
	ai, err := e.fs.Stat(a)
	if err != nil {
		return false
	}
	bi, err := e.fs.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// within reports whether path is root or lies under it
func within(path, root string) bool {
	rel, err := filepath.Rel(absPath(root), absPath(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// isDir follows symlinks so a linked directory is copied as a tree
func (e *Engine) isDir(entry fs.DirEntry, path string) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := e.fs.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileCopy, "dangling link %s", path)
	}
	return info.IsDir(), nil
}

// files lists every file under root as slash-separated relative paths.
// Unreadable directories and dangling links are returned as errors while
// the walk goes on.
func (e *Engine) files(root, prefix string) ([]string, []error) {
	entries, err := e.fs.ReadDir(root)
	if err != nil {
		return nil, []error{errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", root)}
	}
	var out []string
	var errs []error
	for _, entry := range entries {
		rel := entry.Name()
		if prefix != "" {
			rel = prefix + "/" + rel
		}
		full := filepath.Join(root, entry.Name())
		isDir, err := e.isDir(entry, full)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !isDir {
			out = append(out, rel)
			continue
		}
		nested, nestedErrs := e.files(full, rel)
		out = append(out, nested...)
		errs = append(errs, nestedErrs...)
	}
	return out, errs
}

func sourceError(err error, source string) error {
	if os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrSourceMissing, "source %s does not exist", source).
			WithDetail("source", source)
	}
	return errors.Wrapf(err, errors.ErrFileCopy, "cannot stat %s", source)
}
