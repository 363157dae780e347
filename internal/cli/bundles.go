package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dompet/internal/i18n"
)

func newBundlesCommand() *cobra.Command {
	bundles := &cobra.Command{
		Use:   "bundles",
		Short: "Inspect the embedded message bundles",
	}
	bundles.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify every supported locale has a complete bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkBundles(cmd, i18n.DefaultCatalog())
		},
	})
	return bundles
}

func checkBundles(cmd *cobra.Command, catalog *i18n.Catalog) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	for _, l := range i18n.Supported() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d keys)\n", l, len(i18n.Keys()))
	}
	return nil
}
