package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/mrplog/pkg/interfaces/cli/output"
)

func newParseCommand(root *RootCommand) *cobra.Command {
	var includeEntries bool

	cmd := &cobra.Command{
		Use:   "parse <log-file>",
		Short: "Summarize a single MRP run log",
		Long: `Parse an MRP run log and print its site, start and end times, run type,
health flags and status. Use --entries to include every classified line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := root.orchestrator.ParseFile(cmd.Context(), args[0], includeEntries)
			if err != nil {
				return err
			}
			return output.WriteParseResult(result, root.outputConfig(cmd))
		},
	}

	cmd.Flags().BoolVar(&includeEntries, "entries", false, "Include classified log entries")
	return cmd
}
