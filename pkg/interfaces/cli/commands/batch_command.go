package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrplog/pkg/application/services/orchestration"
	"github.com/vsinha/mrplog/pkg/interfaces/cli/output"
)

func newBatchCommand(root *RootCommand) *cobra.Command {
	var (
		noExplain bool
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.csv>",
		Short: "Compare every run pair listed in a CSV manifest",
		Long: `Compare run pairs listed in a CSV manifest with the header name,run_a,run_b.
Relative log paths are resolved against the manifest's directory. A pair
that cannot be compared is reported and the remaining pairs still run;
--strict turns any failed pair into a non-zero exit status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := root.orchestrator.RunBatch(cmd.Context(), args[0],
				orchestration.CompareOptions{Explain: !noExplain})
			if err != nil {
				return err
			}
			if err := output.WriteBatch(result, root.outputConfig(cmd)); err != nil {
				return err
			}
			if strict && result.Failed() > 0 {
				return fmt.Errorf("%d of %d comparisons failed", result.Failed(), len(result.Items))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noExplain, "no-explain", false, "List differences without explanations")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any pair fails")
	return cmd
}
