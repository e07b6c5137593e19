package config

import (
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dump renders cfg as "toml" or "yaml"
func Dump(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "toml":
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render TOML")
		}
		return out, nil
	case "yaml", "yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render YAML")
		}
		return out, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown config format %q", format)
}
