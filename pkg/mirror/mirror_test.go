package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotback/pkg/config"
	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs       filesystem.FS
	resolver *paths.Resolver
	remote   *memoryRemote
}

func newFixture(t *testing.T, vars map[string]string) *fixture {
	t.Helper()
	env := paths.CaptureEnvironment(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}).WithMirrorRoot("/work/dotfiles")
	return &fixture{
		fs:       filesystem.NewMemory(),
		resolver: paths.NewResolver(env),
		remote:   &memoryRemote{files: map[string]string{}},
	}
}

func (f *fixture) mirror(platform paths.Platform, remote bool, mappings []config.Mapping) *Mirror {
	opts := []transfer.Option{}
	if remote {
		opts = append(opts, transfer.WithRemote(f.remote))
	}
	engine := transfer.New(f.fs, opts...)
	return New(f.fs, engine, NewPlanner(f.resolver, platform, remote), f.resolver, mappings)
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, f.fs.WriteFile(path, []byte(content), 0644))
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := f.fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// tree maps every file under root to its content
func (f *fixture) tree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	var walk func(dir, prefix string)
	walk = func(dir, prefix string) {
		entries, err := f.fs.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			rel := prefix + e.Name()
			if e.IsDir() {
				walk(full, rel+"/")
				continue
			}
			out[rel] = f.read(t, full)
		}
	}
	walk(root, "")
	return out
}

var linux = paths.Platform{Linux: true}

var homeMappings = []config.Mapping{
	{Name: "vim", Location: "unix-home", Path: ".vimrc", Mirror: ".vimrc", Platforms: []string{"linux", "macos"}},
	{Name: "helix", Location: "unix-home", Path: ".config/helix/config.toml", Mirror: "helix/config.toml"},
	{Name: "nvim", Location: "unix-home", Path: ".config/nvim", Mirror: "nvim", Kind: config.KindDir},
	{Name: "terminal", Location: "windows-appdata-local", Path: "wt/settings.json", Mirror: "wt/settings.json", Platforms: []string{"windows"}},
}

func TestBackupThenRestore(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	f.write(t, "/home/alice/.vimrc", "set number")
	f.write(t, "/home/alice/.config/helix/config.toml", "theme = 'onedark'")
	f.write(t, "/home/alice/.config/nvim/init.lua", "require('plugins')")
	m := f.mirror(linux, false, homeMappings)

	report, err := m.Backup(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, map[string]string{
		".vimrc":            "set number",
		"helix/config.toml": "theme = 'onedark'",
		"nvim/init.lua":     "require('plugins')",
	}, f.tree(t, "/work/dotfiles"))

	// lose the real file, then restore it
	require.NoError(t, f.fs.RemoveAll("/home/alice/.vimrc"))
	report, err = m.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, "set number", f.read(t, "/home/alice/.vimrc"))
}

func TestBackupRemovesStaleMirrorContent(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	f.write(t, "/home/alice/.vimrc", "set number")
	f.write(t, "/work/dotfiles/old-tool/config", "stale")
	f.write(t, "/work/dotfiles/.vimrc", "outdated")

	m := f.mirror(linux, false, homeMappings[:1])
	_, err := m.Backup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{".vimrc": "set number"}, f.tree(t, "/work/dotfiles"))
}

func TestBackupIsIdempotent(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	f.write(t, "/home/alice/.vimrc", "set number")
	f.write(t, "/home/alice/.config/nvim/lua/a.lua", "a")
	m := f.mirror(linux, false, homeMappings)

	_, err := m.Backup(context.Background())
	require.NoError(t, err)
	first := f.tree(t, "/work/dotfiles")

	_, err = m.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, f.tree(t, "/work/dotfiles"))
}

func TestBackupContinuesPastMissingSources(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	f.write(t, "/home/alice/.config/helix/config.toml", "theme = 'onedark'")
	m := f.mirror(linux, false, homeMappings)

	report, err := m.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Failed, 2, "vim and nvim are missing")
	assert.True(t, errors.IsErrorCode(report.Failed[0].Err, errors.ErrSourceMissing))
	assert.Equal(t, "theme = 'onedark'", f.read(t, "/work/dotfiles/helix/config.toml"))
}

func TestRestoreMergesDirectories(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	f.write(t, "/work/dotfiles/nvim/init.lua", "from mirror")
	f.write(t, "/home/alice/.config/nvim/init.lua", "local edit")
	f.write(t, "/home/alice/.config/nvim/lazy-lock.json", "{}")
	m := f.mirror(linux, false, homeMappings[2:3])

	report, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, "from mirror", f.read(t, "/home/alice/.config/nvim/init.lua"))
	assert.Equal(t, "{}", f.read(t, "/home/alice/.config/nvim/lazy-lock.json"))
}

func TestFatalResolutionLeavesMirrorAlone(t *testing.T) {
	f := newFixture(t, nil) // HOME unset
	f.write(t, "/work/dotfiles/.vimrc", "previous backup")
	m := f.mirror(linux, false, homeMappings)

	_, err := m.Backup(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEnvMissing))
	assert.Equal(t, "previous backup", f.read(t, "/work/dotfiles/.vimrc"))
}

func TestPlanFiltersByPlatform(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	wsl := paths.Platform{Linux: true, Mount: "/mnt/c"}
	env := f.resolver.Environment().WithWindowsMount("/mnt/c").WithUser("alice")
	planner := NewPlanner(paths.NewResolver(env), wsl, false)

	entries, err := planner.Plan(Backup, homeMappings)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, transfer.Entry{
		Name:   "terminal",
		Kind:   transfer.KindLocal,
		Source: "/mnt/c/Users/alice/AppData/Local/wt/settings.json",
		Target: "/work/dotfiles/wt/settings.json",
	}, entries[3])
	assert.Equal(t, transfer.KindDirectory, entries[2].Kind)

	mac := NewPlanner(f.resolver, paths.Platform{MacOS: true}, false)
	entries, err = mac.Plan(Restore, homeMappings)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "/work/dotfiles/.vimrc", entries[0].Source)
	assert.Equal(t, "/home/alice/.vimrc", entries[0].Target)
}

func TestRemoteMappings(t *testing.T) {
	mappings := []config.Mapping{
		{Name: "server-vim", Remote: true, Path: ".vimrc", Mirror: "server/.vimrc"},
	}

	t.Run("skipped without remote", func(t *testing.T) {
		f := newFixture(t, nil)
		entries, err := f.mirror(linux, false, mappings).Plan(Backup)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("backup downloads and restore uploads", func(t *testing.T) {
		f := newFixture(t, nil)
		f.remote.files[".vimrc"] = "set number"
		m := f.mirror(linux, true, mappings)

		report, err := m.Backup(context.Background())
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, "set number", f.read(t, "/work/dotfiles/server/.vimrc"))

		f.write(t, "/work/dotfiles/server/.vimrc", "set relativenumber")
		report, err = m.Restore(context.Background())
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, "set relativenumber", f.remote.files[".vimrc"])
	})
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "backup", Backup.String())
	assert.Equal(t, "restore", Restore.String())
}

type memoryRemote struct {
	files map[string]string
}

func (r *memoryRemote) Upload(_ context.Context, path, content string) error {
	r.files[path] = content
	return nil
}

func (r *memoryRemote) Download(_ context.Context, path string) (string, error) {
	content, ok := r.files[path]
	if !ok {
		return "", errors.New(errors.ErrRemote, "not found")
	}
	return content, nil
}

func (r *memoryRemote) Close() error   { return nil }
func (r *memoryRemote) String() string { return "memory" }

func TestPlanDefaultsOnWSLKeepsMirrorPathsApart(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)

	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	env := f.resolver.Environment().WithWindowsMount("/mnt/c").WithUser("alice")
	planner := NewPlanner(paths.NewResolver(env), paths.Platform{Linux: true, Mount: "/mnt/c"}, false)

	for _, dir := range []Direction{Backup, Restore} {
		entries, err := planner.Plan(dir, cfg.Mappings)
		require.NoError(t, err, dir.String())

		seen := map[string]string{}
		for _, e := range entries {
			mirrorPath := mirrorSide(dir, e)
			prev, dup := seen[mirrorPath]
			assert.False(t, dup, "%s: %s and %s share %s", dir, prev, e.Name, mirrorPath)
			seen[mirrorPath] = e.Name
		}
		assert.Contains(t, seen, "/work/dotfiles/helix/config.toml")
		assert.Contains(t, seen, "/work/dotfiles/helix-windows/config.toml")
		assert.Contains(t, seen, "/work/dotfiles/nvim-windows")
	}
}

func TestPlanRejectsSharedMirrorPaths(t *testing.T) {
	f := newFixture(t, map[string]string{paths.EnvHome: "/home/alice"})
	env := f.resolver.Environment().WithWindowsMount("/mnt/c").WithUser("alice")
	wsl := NewPlanner(paths.NewResolver(env), paths.Platform{Linux: true, Mount: "/mnt/c"}, false)

	tests := []struct {
		name     string
		mappings []config.Mapping
	}{
		{
			name: "same file",
			mappings: []config.Mapping{
				{Name: "helix", Location: "unix-home", Path: ".config/helix/config.toml", Mirror: "helix/config.toml", Platforms: []string{"linux"}},
				{Name: "helix-windows", Location: "windows-appdata-roaming", Path: "helix/config.toml", Mirror: "helix/config.toml", Platforms: []string{"windows"}},
			},
		},
		{
			name: "nested",
			mappings: []config.Mapping{
				{Name: "nvim", Location: "unix-home", Path: ".config/nvim", Mirror: "nvim", Kind: config.KindDir},
				{Name: "nvim-init", Location: "unix-home", Path: ".config/nvim/init.lua", Mirror: "nvim/init.lua"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wsl.Plan(Backup, tt.mappings)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}

	t.Run("backup leaves the mirror alone", func(t *testing.T) {
		f.write(t, "/work/dotfiles/.vimrc", "previous backup")
		engine := transfer.New(f.fs)
		m := New(f.fs, engine, wsl, f.resolver, tests[0].mappings)

		_, err := m.Backup(context.Background())
		require.Error(t, err)
		assert.Equal(t, "previous backup", f.read(t, "/work/dotfiles/.vimrc"))
	})

	t.Run("platforms that never meet may share", func(t *testing.T) {
		linuxOnly := NewPlanner(f.resolver, linux, false)
		entries, err := linuxOnly.Plan(Backup, tests[0].mappings)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
