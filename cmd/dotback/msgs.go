package dotback

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Back up and restore dotfiles through a mirror directory"
	MsgBackupShort     = "Copy configured files into the mirror directory"
	MsgRestoreShort    = "Copy the mirror directory back into place"
	MsgMappingsShort   = "Show what a backup or restore would copy on this machine"
	MsgGenConfigShort  = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgNoMappings     = "No mappings apply to this platform (%s)."
	MsgMappingFormat  = "%-18s %-14s %s -> %s\n"
	MsgMirrorLocation = "mirror: %s"
	MsgRemoteLocation = "remote: %s"
	MsgVersionFormat  = "dotback version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten     = "Man pages written to %s\n"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file to load after the user config"
	MsgFlagMirror    = "Mirror directory (default ./dotfiles)"
	MsgFlagRemote    = "Remote transport: none, http or scp"
	MsgFlagFormat    = "Output format: auto, term or text"
	MsgFlagDirection = "Plan direction: backup or restore"
	MsgFlagDumpAs    = "Output format: toml or yaml"
	MsgFlagManDir    = "Directory to write man pages into"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrDirection  = "unknown direction %q (want backup or restore)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/backup-long.txt
	msgBackupLongRaw string
	MsgBackupLong    = strings.TrimSpace(msgBackupLongRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
