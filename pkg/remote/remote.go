// Package remote implements the two remote transports: an HTTP client
// speaking the upload/download JSON contract, and a wrapper around the scp
// command.
package remote

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
	"time"

	"github.com/arthur-debert/dotback/pkg/errors"
)

// DefaultTimeout bounds every remote call
const DefaultTimeout = 2 * time.Second

// Modes accepted by New
const (
	ModeNone = "none"
	ModeHTTP = "http"
	ModeSCP  = "scp"
)

// Remote moves one file's content to or from a remote host.
// Paths are relative to the remote user's home.
type Remote interface {
	Upload(ctx context.Context, path, content string) error
	Download(ctx context.Context, path string) (string, error)
	// Close releases transient resources held for the run.
	Close() error
	String() string
}

// Options configures New
type Options struct {
	Mode    string
	Host    string
	User    string
	Timeout time.Duration
}

// New builds the remote selected by opts.Mode. ModeNone yields a nil
// Remote. A missing host (or user, for scp) is an ENV_MISSING error.
func New(opts Options) (Remote, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	switch strings.ToLower(opts.Mode) {
	case "", ModeNone:
		return nil, nil
	case ModeHTTP:
		if opts.Host == "" {
			return nil, errors.New(errors.ErrEnvMissing, "remote host is not set (DOTBACK_REMOTE_HOST)")
		}
		return NewHTTP(opts.Host, opts.Timeout), nil
	case ModeSCP:
		if opts.Host == "" {
			return nil, errors.New(errors.ErrEnvMissing, "remote host is not set (DOTBACK_REMOTE_HOST)")
		}
		if opts.User == "" {
			return nil, errors.New(errors.ErrEnvMissing, "remote user is not set (DOTBACK_REMOTE_USER)")
		}
		return NewSCP(opts.User, opts.Host, opts.Timeout, nil)
	}
	return nil, errors.Newf(errors.ErrConfigValid, "unknown remote mode %q", opts.Mode)
}

// classify wraps a transport error, separating timeouts from other failures
func classify(err error, op, path string) error {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrapf(err, errors.ErrRemoteTimeout, "%s %s timed out", op, path).
			WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrRemote, "%s %s failed", op, path).
		WithDetail("path", path)
}
