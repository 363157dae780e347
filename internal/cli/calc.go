package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dompet/internal/finance"
)

func newCalcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <operation> <args...>",
		Short: "Evaluate one finance formula",
		Long:  "Evaluate one finance formula and print the result.\n\nOperations:\n" + operationList(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := finance.Lookup(args[0])
			if err != nil {
				return err
			}
			values := make([]float64, 0, len(args)-1)
			for i, raw := range args[1:] {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("argument %d (%s): %q is not a number", i+1, paramName(op, i), raw)
				}
				values = append(values, v)
			}
			result, err := op.Eval(values...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'f', -1, 64))
			return err
		},
	}
	// Negative amounts after the operation name are arguments, not flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func paramName(op finance.Operation, i int) string {
	if i < len(op.Params) {
		return op.Params[i]
	}
	return "extra"
}

func operationList() string {
	var b strings.Builder
	for _, op := range finance.Operations() {
		fmt.Fprintf(&b, "  %-18s %s\n", op.Name, strings.Join(op.Params, " "))
	}
	return b.String()
}
