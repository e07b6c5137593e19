// Package paths resolves logical configuration locations into concrete
// paths.
//
// A Location names a root directory category (the unix home, the Windows
// roaming app-data folder, the mirror root, ...). The Resolver turns a
// Location and a relative path into an absolute path by plain string
// concatenation, using an Environment captured once at process start.
//
// Windows locations are resolved in one of two ways. When the process runs
// on Windows itself the standard variables (USERPROFILE, APPDATA,
// LOCALAPPDATA, SystemDrive) are used. When Windows is only reachable
// through a mount point (WSL's /mnt/c) the roots are built under that mount
// as <mount>/Users/<user>/..., where <user> is the current user name.
package paths
