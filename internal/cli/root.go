package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the dompet command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dompet",
		Short:         "Personal expense dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newCalcCommand(),
		newLocaleCommand(),
		newBundlesCommand(),
	)
	return root
}
