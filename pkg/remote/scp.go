package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
)

// Runner runs a command, sending its combined output to out
type Runner func(ctx context.Context, out io.Writer, name string, args ...string) error

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, out io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// SCPRemote copies files with the scp command. Command output is
// collected in a transient log file that Close removes.
type SCPRemote struct {
	user    string
	host    string
	timeout time.Duration
	run     Runner

	workDir string
	output  *os.File
	seq     int
}

// NewSCP creates an scp remote for user@host. A nil run uses ExecRunner.
func NewSCP(user, host string, timeout time.Duration, run Runner) (*SCPRemote, error) {
	if run == nil {
		run = ExecRunner
	}
	workDir, err := os.MkdirTemp("", "dotback-scp-")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create scp work directory")
	}
	output, err := os.Create(filepath.Join(workDir, "scp-output.log"))
	if err != nil {
		_ = os.RemoveAll(workDir)
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create scp output file")
	}
	return &SCPRemote{
		user:    user,
		host:    host,
		timeout: timeout,
		run:     run,
		workDir: workDir,
		output:  output,
	}, nil
}

// target returns user@host:~/path
func (s *SCPRemote) target(path string) string {
	return fmt.Sprintf("%s@%s:~/%s", s.user, s.host, strings.TrimLeft(path, "/"))
}

func (s *SCPRemote) scratch() string {
	s.seq++
	return filepath.Join(s.workDir, fmt.Sprintf("transfer-%d", s.seq))
}

func (s *SCPRemote) scp(ctx context.Context, op, path, from, to string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.GetLogger("remote.scp")
	logger.Debug().
		Str("from", from).
		Str("to", to).
		Msg("Running scp")

	if err := s.run(ctx, s.output, "scp", "-q", from, to); err != nil {
		if ctx.Err() != nil {
			return classify(ctx.Err(), op, path)
		}
		return classify(err, op, path)
	}
	return nil
}

// Upload stages content in a scratch file and copies it to the remote path
func (s *SCPRemote) Upload(ctx context.Context, path, content string) error {
	local := s.scratch()
	if err := os.WriteFile(local, []byte(content), 0600); err != nil {
		return errors.Wrap(err, errors.ErrFileCopy, "failed to stage upload")
	}
	defer os.Remove(local)

	return s.scp(ctx, "upload", path, local, s.target(path))
}

// Download fetches the remote path into a scratch file and returns its content
func (s *SCPRemote) Download(ctx context.Context, path string) (string, error) {
	local := s.scratch()
	defer os.Remove(local)

	if err := s.scp(ctx, "download", path, s.target(path), local); err != nil {
		return "", err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRemote, "scp produced no file for %s", path)
	}
	return string(data), nil
}

// Close deletes the transient output file and scratch directory
func (s *SCPRemote) Close() error {
	if s.output != nil {
		_ = s.output.Close()
		s.output = nil
	}
	return os.RemoveAll(s.workDir)
}

func (s *SCPRemote) String() string {
	return fmt.Sprintf("scp://%s@%s", s.user, s.host)
}
