package paths

import (
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
)

// CommandRunner runs a command and returns its standard output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CurrentUser asks the OS who the current user is. It is meant to be
// called once at start; the result is carried in Environment.User.
func CurrentUser(ctx context.Context, run CommandRunner) (string, error) {
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, "whoami")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrUserLookup, "whoami failed")
	}
	name := strings.TrimSpace(string(out))
	// Windows reports DOMAIN\user
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "", errors.New(errors.ErrUserLookup, "whoami returned an empty user name")
	}
	return name, nil
}
