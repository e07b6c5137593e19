// Package transfer copies files and directory trees between resolved
// paths, and moves single files to and from a remote host.
//
// Every operation reports a human-readable line before it starts. Local
// copies are overwrite-based and directory copies merge into the target:
// files that only exist at the target are never removed, so repeated runs
// converge on the same bytes.
//
// Engine.Run processes entries one at a time. A failed entry is reported
// and recorded in the returned Report; it never stops the run.
package transfer
