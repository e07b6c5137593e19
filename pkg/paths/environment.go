package paths

import (
	"os"
)

// Environment variable names read by the resolver
const (
	EnvHome         = "HOME"
	EnvUserProfile  = "USERPROFILE"
	EnvAppData      = "APPDATA"
	EnvLocalAppData = "LOCALAPPDATA"
	EnvSystemDrive  = "SystemDrive"
)

// DefaultMirrorRoot is where backups land unless configured otherwise
const DefaultMirrorRoot = "./dotfiles"

// DefaultSystemDrive is used on native Windows when SystemDrive is unset
const DefaultSystemDrive = "C:"

var resolverVars = []string{EnvHome, EnvUserProfile, EnvAppData, EnvLocalAppData, EnvSystemDrive}

// LookupFunc reads an environment variable
type LookupFunc func(key string) (string, bool)

// Environment holds everything the resolver needs, captured once at start.
type Environment struct {
	// Vars holds the resolver variables that were set (and non-empty).
	Vars map[string]string

	// User is the current user name. Only needed when Windows is reached
	// through a mount point.
	User string

	// WindowsMount is the mount point Windows paths are reached through,
	// empty when running natively or when Windows is not reachable.
	WindowsMount string

	// MirrorRoot is the root of the mirror directory.
	MirrorRoot string
}

// CaptureEnvironment snapshots the resolver variables through lookup.
// A nil lookup reads the process environment.
func CaptureEnvironment(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := Environment{
		Vars:       make(map[string]string),
		MirrorRoot: DefaultMirrorRoot,
	}
	for _, name := range resolverVars {
		if v, ok := lookup(name); ok && v != "" {
			env.Vars[name] = v
		}
	}
	return env
}

// WithUser returns a copy of env with the current user set
func (e Environment) WithUser(user string) Environment {
	e.Vars = copyVars(e.Vars)
	e.User = user
	return e
}

// WithWindowsMount returns a copy of env reaching Windows through mount
func (e Environment) WithWindowsMount(mount string) Environment {
	e.Vars = copyVars(e.Vars)
	e.WindowsMount = mount
	return e
}

// WithMirrorRoot returns a copy of env with a different mirror root
func (e Environment) WithMirrorRoot(root string) Environment {
	e.Vars = copyVars(e.Vars)
	e.MirrorRoot = root
	return e
}

func copyVars(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
