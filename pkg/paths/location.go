package paths

import (
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
)

// Location is a named root directory category
type Location string

const (
	UnixHome               Location = "unix-home"
	WindowsRoot            Location = "windows-root"
	WindowsUserHome        Location = "windows-user-home"
	WindowsDocuments       Location = "windows-documents"
	WindowsAppDataRoaming  Location = "windows-appdata-roaming"
	WindowsAppDataLocal    Location = "windows-appdata-local"
	WindowsProgramFilesX86 Location = "windows-program-files-x86"
	WindowsProgramFilesX64 Location = "windows-program-files-x64"
	MacLibraryAppSupport   Location = "mac-library-app-support"
	MirrorRoot             Location = "mirror-root"
)

// Locations lists every location in a stable order
var Locations = []Location{
	UnixHome,
	WindowsRoot,
	WindowsUserHome,
	WindowsDocuments,
	WindowsAppDataRoaming,
	WindowsAppDataLocal,
	WindowsProgramFilesX86,
	WindowsProgramFilesX64,
	MacLibraryAppSupport,
	MirrorRoot,
}

// ParseLocation parses a location tag, case-insensitively
func ParseLocation(s string) (Location, error) {
	want := Location(strings.ToLower(strings.TrimSpace(s)))
	for _, loc := range Locations {
		if loc == want {
			return loc, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown location %q", s).
		WithDetail("location", s)
}

// IsWindows reports whether the location lives on the Windows side
func (l Location) IsWindows() bool {
	return strings.HasPrefix(string(l), "windows-")
}

func (l Location) String() string {
	return string(l)
}
