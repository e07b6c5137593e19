package transfer

// Kind tags a transfer entry
type Kind int

const (
	// KindLocal is a local copy whose file-or-directory nature is decided
	// when the transfer runs
	KindLocal Kind = iota
	KindFile
	KindDirectory
	KindRemoteUpload
	KindRemoteDownload
)

// String returns the label used in transfer lines
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "copy"
	case KindFile:
		return "file-to-file"
	case KindDirectory:
		return "dir-to-dir"
	case KindRemoteUpload:
		return "file-to-remote"
	case KindRemoteDownload:
		return "remote-to-file"
	default:
		return "unknown"
	}
}

// Entry is one (source, target) pair. For KindRemoteUpload the target is
// a path on the remote host; for KindRemoteDownload the source is.
type Entry struct {
	Name   string
	Kind   Kind
	Source string
	Target string
}

// Failure records an entry that did not complete
type Failure struct {
	Entry Entry
	Err   error
}

// Report summarizes a run
type Report struct {
	Succeeded []Entry
	Failed    []Failure
}

// OK reports whether every entry completed
func (r Report) OK() bool {
	return len(r.Failed) == 0
}
