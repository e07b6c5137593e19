package dotback

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dotback/pkg/mirror"
	"github.com/spf13/cobra"
)

func newMappingsCmd(opts *globalOptions, d deps) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:     "mappings",
		Short:   MsgMappingsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), cmd.OutOrStdout(), opts, d)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			entries, err := rt.mirror.Plan(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			root, err := rt.mirror.Root()
			if err != nil {
				return err
			}
			rt.reporter.Message(MsgMirrorLocation, root)
			if rt.remote != nil {
				rt.reporter.Message(MsgRemoteLocation, rt.remote.String())
			}
			if len(entries) == 0 {
				rt.reporter.Message(MsgNoMappings, strings.Join(rt.platform.Names(), ", "))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, MsgMappingFormat, e.Name, e.Kind, e.Source, e.Target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", mirror.Backup.String(), MsgFlagDirection)
	return cmd
}

func parseDirection(s string) (mirror.Direction, error) {
	switch strings.ToLower(s) {
	case mirror.Backup.String():
		return mirror.Backup, nil
	case mirror.Restore.String():
		return mirror.Restore, nil
	default:
		return mirror.Backup, fmt.Errorf(MsgErrDirection, s)
	}
}
