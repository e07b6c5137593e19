// Package filesystem provides the filesystem abstraction used by the
// transfer engine and the mirror planner.
//
// NewOS talks to the real filesystem; NewAferoFS wraps any afero.Fs, which
// the tests use with an in-memory filesystem.
package filesystem
