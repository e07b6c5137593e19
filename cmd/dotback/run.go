package dotback

import (
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/mirror"
	"github.com/spf13/cobra"
)

func newBackupCmd(opts *globalOptions, d deps) *cobra.Command {
	return &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		Long:    MsgBackupLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirection(cmd, opts, d, mirror.Backup)
		},
	}
}

func newRestoreCmd(opts *globalOptions, d deps) *cobra.Command {
	return &cobra.Command{
		Use:     "restore",
		Short:   MsgRestoreShort,
		Long:    MsgRestoreLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirection(cmd, opts, d, mirror.Restore)
		},
	}
}

// runDirection runs a backup or restore. Only fatal errors are returned;
// failed entries are reported and the command still succeeds.
func runDirection(cmd *cobra.Command, opts *globalOptions, d deps, dir mirror.Direction) error {
	logger := logging.GetLogger("cmd." + dir.String())
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, cmd.OutOrStdout(), opts, d)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to clean up remote")
		}
	}()

	run := rt.mirror.Backup
	if dir == mirror.Restore {
		run = rt.mirror.Restore
	}

	report, err := run(ctx)
	if err != nil {
		return err
	}

	rt.reporter.Summary(dir.String(), len(report.Succeeded), len(report.Failed))
	logger.Info().
		Int("succeeded", len(report.Succeeded)).
		Int("failed", len(report.Failed)).
		Msg("Command finished")
	return nil
}
