package paths

import (
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
)

// Resolver maps a Location and a relative path to an absolute path.
// It performs no I/O.
type Resolver struct {
	env Environment
}

// NewResolver creates a resolver over a captured environment
func NewResolver(env Environment) *Resolver {
	return &Resolver{env: env}
}

// Environment returns the environment the resolver was built with
func (r *Resolver) Environment() Environment {
	return r.env
}

// Resolve returns root(loc) joined with rel. An empty rel yields the root.
// The only error is a missing variable or user name, which callers treat
// as fatal.
func (r *Resolver) Resolve(loc Location, rel string) (string, error) {
	root, err := r.Root(loc)
	if err != nil {
		return "", err
	}
	return join(root, rel), nil
}

// Root returns the root directory of a location
func (r *Resolver) Root(loc Location) (string, error) {
	switch loc {
	case UnixHome:
		return r.variable(EnvHome)
	case MacLibraryAppSupport:
		home, err := r.variable(EnvHome)
		if err != nil {
			return "", err
		}
		return join(home, "Library/Application Support"), nil
	case MirrorRoot:
		if r.env.MirrorRoot == "" {
			return DefaultMirrorRoot, nil
		}
		return strings.TrimRight(r.env.MirrorRoot, "/"), nil
	case WindowsRoot:
		return r.windowsRoot()
	case WindowsUserHome:
		return r.windowsUserHome()
	case WindowsDocuments:
		return r.underUserHome("Documents")
	case WindowsAppDataRoaming:
		if r.env.WindowsMount == "" {
			return r.variable(EnvAppData)
		}
		return r.underUserHome("AppData/Roaming")
	case WindowsAppDataLocal:
		if r.env.WindowsMount == "" {
			return r.variable(EnvLocalAppData)
		}
		return r.underUserHome("AppData/Local")
	case WindowsProgramFilesX86:
		return r.underWindowsRoot("Program Files (x86)")
	case WindowsProgramFilesX64:
		return r.underWindowsRoot("Program Files")
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown location %q", string(loc))
}

func (r *Resolver) windowsRoot() (string, error) {
	if r.env.WindowsMount != "" {
		return strings.TrimRight(r.env.WindowsMount, "/"), nil
	}
	if drive, ok := r.env.Vars[EnvSystemDrive]; ok {
		return drive, nil
	}
	return DefaultSystemDrive, nil
}

func (r *Resolver) windowsUserHome() (string, error) {
	if r.env.WindowsMount == "" {
		return r.variable(EnvUserProfile)
	}
	if r.env.User == "" {
		return "", errors.New(errors.ErrUserLookup, "current user is not known").
			WithDetail("mount", r.env.WindowsMount)
	}
	return join(strings.TrimRight(r.env.WindowsMount, "/"), "Users/"+r.env.User), nil
}

func (r *Resolver) underUserHome(rel string) (string, error) {
	home, err := r.windowsUserHome()
	if err != nil {
		return "", err
	}
	return join(home, rel), nil
}

func (r *Resolver) underWindowsRoot(rel string) (string, error) {
	root, err := r.windowsRoot()
	if err != nil {
		return "", err
	}
	return join(root, rel), nil
}

func (r *Resolver) variable(name string) (string, error) {
	v, ok := r.env.Vars[name]
	if !ok {
		return "", errors.Newf(errors.ErrEnvMissing, "environment variable %s is not set", name).
			WithDetail("var", name)
	}
	return v, nil
}

// join concatenates root and rel with exactly one separator between them
func join(root, rel string) string {
	if rel == "" {
		return root
	}
	rel = strings.TrimLeft(rel, "/")
	if strings.HasSuffix(root, "/") {
		return root + rel
	}
	return root + "/" + rel
}
