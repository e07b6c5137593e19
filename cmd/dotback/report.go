package dotback

import (
	"fmt"
	"io"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/ui"
	"github.com/spf13/cobra"
)

// ReportError prints err in the error style. Usage mistakes (unknown
// commands, bad flags) are followed by the help text; fatal run errors
// such as a missing HOME are not, since help would not fix them.
func ReportError(rootCmd *cobra.Command, err error, w io.Writer) {
	ui.NewReporter(w, ui.FormatAuto).Error(err)
	if errors.IsFatal(err) {
		return
	}

	fmt.Fprintln(w)
	rootCmd.SetOut(w)
	_ = rootCmd.Help()
}
