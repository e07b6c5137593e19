package dotback

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dotback/pkg/config"
	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/mirror"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/remote"
	"github.com/arthur-debert/dotback/pkg/transfer"
	"github.com/arthur-debert/dotback/pkg/ui"
)

// deps are the process-level collaborators, replaced in tests
type deps struct {
	fs     filesystem.FS
	lookup paths.LookupFunc
	whoami paths.CommandRunner
	goos   string
}

func defaultDeps() deps {
	return deps{
		fs:     filesystem.NewOS(),
		lookup: os.LookupEnv,
		whoami: paths.ExecRunner,
	}
}

// globalOptions are the persistent flags
type globalOptions struct {
	verbosity  int
	configFile string
	mirror     string
	remote     string
	format     string

	changed map[string]bool
}

func (o *globalOptions) overrides() map[string]interface{} {
	out := map[string]interface{}{}
	if o.changed["mirror"] {
		out["mirror"] = o.mirror
	}
	if o.changed["remote"] {
		out["remote.mode"] = o.remote
	}
	if o.changed["format"] {
		out["output.format"] = o.format
	}
	return out
}

// runtime is everything a command needs, built once per invocation
type runtime struct {
	cfg      *config.Config
	platform paths.Platform
	resolver *paths.Resolver
	remote   remote.Remote
	reporter *ui.Reporter
	mirror   *mirror.Mirror
}

func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  opts.overrides(),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

func newRuntime(ctx context.Context, out io.Writer, opts *globalOptions, d deps) (*runtime, error) {
	logger := logging.GetLogger("cmd.runtime")

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "output.format")
	}
	reporter := ui.NewReporter(out, format)

	platform := paths.DetectPlatform(d.fs, d.goos, cfg.Windows.Mount)
	env := paths.CaptureEnvironment(d.lookup).WithMirrorRoot(cfg.Mirror)
	if platform.Mount != "" {
		user := cfg.Windows.User
		if user == "" {
			user, err = paths.CurrentUser(ctx, d.whoami)
			if err != nil {
				return nil, err
			}
		}
		env = env.WithWindowsMount(platform.Mount).WithUser(user)
	}
	logger.Debug().
		Strs("platforms", platform.Names()).
		Str("windowsMount", env.WindowsMount).
		Str("user", env.User).
		Msg("Environment captured")

	rem, err := remote.New(remote.Options{
		Mode:    cfg.Remote.Mode,
		Host:    cfg.Remote.Host,
		User:    cfg.Remote.User,
		Timeout: cfg.Remote.Timeout.Std(),
	})
	if err != nil {
		return nil, err
	}

	engineOpts := []transfer.Option{transfer.WithReporter(reporter)}
	if rem != nil {
		engineOpts = append(engineOpts, transfer.WithRemote(rem))
	}
	engine := transfer.New(d.fs, engineOpts...)

	resolver := paths.NewResolver(env)
	planner := mirror.NewPlanner(resolver, platform, rem != nil)

	return &runtime{
		cfg:      cfg,
		platform: platform,
		resolver: resolver,
		remote:   rem,
		reporter: reporter,
		mirror:   mirror.New(d.fs, engine, planner, resolver, cfg.Mappings),
	}, nil
}

// Close releases the remote's transient resources
func (r *runtime) Close() error {
	if r.remote == nil {
		return nil
	}
	return r.remote.Close()
}
