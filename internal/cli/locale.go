package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dompet/internal/i18n"
)

// ErrLocaleNotFound is returned by "dompet locale" for an unsupported
// locale segment; main maps it to exit status 1.
var ErrLocaleNotFound = errors.New("locale not found")

func newLocaleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locale <path>",
		Short: "Show how a request path resolves to a locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := i18n.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrLocaleNotFound, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "locale:    %s\n", res.Locale)
			fmt.Fprintf(out, "path:      %s\n", res.Path)
			fmt.Fprintf(out, "prefixed:  %t\n", res.Prefixed)
			if !res.Canonical() {
				fmt.Fprintf(out, "redirect:  %s\n", res.Path)
			}
			return nil
		},
	}
}
