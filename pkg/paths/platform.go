package paths

import (
	"runtime"
	"strings"

	"github.com/arthur-debert/dotback/pkg/filesystem"
)

// DefaultWindowsMount is where WSL exposes the Windows system drive
const DefaultWindowsMount = "/mnt/c"

// Platform names used by mapping filters
const (
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
	PlatformWindows = "windows"
)

// Platform answers the three questions mappings are filtered on.
type Platform struct {
	Linux  bool
	MacOS  bool
	Native bool // running on Windows itself

	// Mount is set when Windows paths are reachable through a mount point
	Mount string
}

// DetectPlatform classifies the host. Windows reachability is decided by
// probing mountPoint, not by the reported OS name, except when running on
// Windows natively.
func DetectPlatform(fsys filesystem.FS, goos, mountPoint string) Platform {
	if goos == "" {
		goos = runtime.GOOS
	}
	p := Platform{
		Linux:  goos == "linux",
		MacOS:  goos == "darwin",
		Native: goos == "windows",
	}
	if p.Native || mountPoint == "" {
		return p
	}
	if info, err := fsys.Stat(mountPoint); err == nil && info.IsDir() {
		p.Mount = mountPoint
	}
	return p
}

// IsLinux reports a Linux host, WSL included
func (p Platform) IsLinux() bool { return p.Linux }

// IsMacOS reports a macOS host
func (p Platform) IsMacOS() bool { return p.MacOS }

// CanAccessWindowsPaths reports whether Windows locations can be reached
// from this process
func (p Platform) CanAccessWindowsPaths() bool { return p.Native || p.Mount != "" }

// Matches reports whether a mapping restricted to platforms applies here.
// An empty list applies everywhere.
func (p Platform) Matches(platforms []string) bool {
	if len(platforms) == 0 {
		return true
	}
	for _, name := range platforms {
		switch strings.ToLower(name) {
		case PlatformLinux:
			if p.IsLinux() {
				return true
			}
		case PlatformMacOS, "darwin", "mac":
			if p.IsMacOS() {
				return true
			}
		case PlatformWindows:
			if p.CanAccessWindowsPaths() {
				return true
			}
		}
	}
	return false
}

// Names lists the platform names that match this host
func (p Platform) Names() []string {
	var names []string
	if p.IsLinux() {
		names = append(names, PlatformLinux)
	}
	if p.IsMacOS() {
		names = append(names, PlatformMacOS)
	}
	if p.CanAccessWindowsPaths() {
		names = append(names, PlatformWindows)
	}
	return names
}
