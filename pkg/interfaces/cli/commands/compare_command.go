package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/mrplog/pkg/application/services/orchestration"
	"github.com/vsinha/mrplog/pkg/interfaces/cli/output"
)

func newCompareCommand(root *RootCommand) *cobra.Command {
	var noExplain bool

	cmd := &cobra.Command{
		Use:   "compare <run-a-log> <run-b-log>",
		Short: "Compare two MRP runs and explain the differences",
		Long: `Compare an earlier run (A) with a later run (B). Jobs that disappeared,
appeared, moved or changed quantity and parts whose errors appeared or
resolved are reported in a stable order, each with an explanation unless
--no-explain is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := root.orchestrator.CompareFiles(cmd.Context(), args[0], args[1],
				orchestration.CompareOptions{Explain: !noExplain})
			if err != nil {
				return err
			}
			return output.WriteAnalysis(result, root.outputConfig(cmd))
		},
	}

	cmd.Flags().BoolVar(&noExplain, "no-explain", false, "List differences without explanations")
	return cmd
}
