package config

import (
	"path"
	"strings"
	"time"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/remote"
)

// Config is the effective configuration of a run
type Config struct {
	Mirror   string        `koanf:"mirror" toml:"mirror" yaml:"mirror"`
	Windows  WindowsConfig `koanf:"windows" toml:"windows" yaml:"windows"`
	Remote   RemoteConfig  `koanf:"remote" toml:"remote" yaml:"remote"`
	Output   OutputConfig  `koanf:"output" toml:"output" yaml:"output"`
	Mappings []Mapping     `koanf:"mappings" toml:"mappings" yaml:"mappings"`
}

// WindowsConfig controls how Windows locations are reached
type WindowsConfig struct {
	Mount string `koanf:"mount" toml:"mount" yaml:"mount"`
	User  string `koanf:"user" toml:"user" yaml:"user"`
}

// RemoteConfig selects and addresses the remote transport
type RemoteConfig struct {
	Mode    string   `koanf:"mode" toml:"mode" yaml:"mode"`
	Host    string   `koanf:"host" toml:"host" yaml:"host"`
	User    string   `koanf:"user" toml:"user" yaml:"user"`
	Timeout Duration `koanf:"timeout" toml:"timeout" yaml:"timeout"`
}

// OutputConfig controls console rendering
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"`
}

// Mapping ties a real location to a path inside the mirror
type Mapping struct {
	Name     string `koanf:"name" toml:"name" yaml:"name"`
	Location string `koanf:"location" toml:"location,omitempty" yaml:"location,omitempty"`
	Path     string `koanf:"path" toml:"path" yaml:"path"`
	Mirror   string `koanf:"mirror" toml:"mirror" yaml:"mirror"`
	// Kind is "file", "dir" or empty to decide at transfer time
	Kind      string   `koanf:"kind" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Platforms []string `koanf:"platforms" toml:"platforms,omitempty" yaml:"platforms,omitempty"`
	// Remote mappings live on the remote host, Path relative to its home
	Remote bool `koanf:"remote" toml:"remote,omitempty" yaml:"remote,omitempty"`
}

// Mapping kinds
const (
	KindAuto = ""
	KindFile = "file"
	KindDir  = "dir"
)

// Duration is a time.Duration that reads and writes as "2s"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Validate checks the configuration for errors that make a run impossible
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mirror) == "" {
		return errors.New(errors.ErrConfigValid, "mirror must not be empty")
	}

	switch strings.ToLower(c.Remote.Mode) {
	case "", remote.ModeNone, remote.ModeHTTP, remote.ModeSCP:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown remote mode %q", c.Remote.Mode).
			WithDetail("mode", c.Remote.Mode)
	}
	if c.Remote.Timeout < 0 {
		return errors.New(errors.ErrConfigValid, "remote timeout must not be negative")
	}

	names := make(map[string]bool, len(c.Mappings))
	for i, m := range c.Mappings {
		if err := m.validate(); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "mapping %d (%s)", i, m.Name)
		}
		if names[m.Name] {
			return errors.Newf(errors.ErrConfigValid, "duplicate mapping name %q", m.Name)
		}
		names[m.Name] = true
	}
	return nil
}

func (m Mapping) validate() error {
	if m.Name == "" {
		return errors.New(errors.ErrConfigValid, "name is required")
	}
	if m.Remote {
		if m.Path == "" {
			return errors.New(errors.ErrConfigValid, "remote mappings need a path")
		}
	} else if _, err := paths.ParseLocation(m.Location); err != nil {
		return err
	}

	if m.Mirror == "" {
		return errors.New(errors.ErrConfigValid, "mirror path is required")
	}
	clean := path.Clean(m.Mirror)
	if path.IsAbs(m.Mirror) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Newf(errors.ErrConfigValid, "mirror path %q must stay inside the mirror", m.Mirror)
	}

	switch m.Kind {
	case KindAuto, KindFile, KindDir:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown kind %q", m.Kind)
	}
	return nil
}
