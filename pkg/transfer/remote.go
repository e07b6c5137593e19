package transfer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
)

// Upload sends a file, or every file under a directory, to remotePath.
// Directory uploads keep each file's relative path under remotePath.
func (e *Engine) Upload(ctx context.Context, source, remotePath string) error {
	e.reporter.Transfer(KindRemoteUpload.String(), source, remotePath)
	if e.remote == nil {
		return errors.New(errors.ErrRemote, "no remote configured")
	}

	info, err := e.fs.Stat(source)
	if err != nil {
		return sourceError(err, source)
	}
	if !info.IsDir() {
		return e.uploadFile(ctx, source, remotePath)
	}

	files, walkErrs := e.files(source, "")

	logger := logging.GetLogger("transfer.remote")
	errs := make([]error, 0, len(walkErrs))
	for _, err := range walkErrs {
		e.reporter.Failure(KindRemoteUpload.String(), source, remotePath, err)
		logger.Warn().Err(err).Str("source", source).Msg("Skipping unreadable path")
		errs = append(errs, err)
	}
	for _, rel := range files {
		local := filepath.Join(source, filepath.FromSlash(rel))
		dest := joinRemote(remotePath, rel)
		e.reporter.Transfer(KindRemoteUpload.String(), local, dest)
		if err := e.uploadFile(ctx, local, dest); err != nil {
			e.reporter.Failure(KindRemoteUpload.String(), local, dest, err)
			logger.Warn().Err(err).Str("source", local).Msg("Upload failed")
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs, errors.GetErrorCode(errs[len(errs)-1]),
		"%d of %d uploads under %s failed", len(errs), len(files)+len(walkErrs), source)
	return reportedError{joined}
}

func (e *Engine) uploadFile(ctx context.Context, source, remotePath string) error {
	data, err := e.fs.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", source)
	}
	return e.remote.Upload(ctx, remotePath, string(data))
}

// Download fetches remotePath and writes it to target, creating parents
func (e *Engine) Download(ctx context.Context, remotePath, target string) error {
	e.reporter.Transfer(KindRemoteDownload.String(), remotePath, target)
	if e.remote == nil {
		return errors.New(errors.ErrRemote, "no remote configured")
	}

	content, err := e.remote.Download(ctx, remotePath)
	if err != nil {
		return err
	}
	if err := e.fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", target)
	}
	if err := e.fs.WriteFile(target, []byte(content), filePerm); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", target)
	}
	return nil
}

func joinRemote(base, rel string) string {
	if base == "" {
		return rel
	}
	return strings.TrimRight(base, "/") + "/" + rel
}
