package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vsinha/mrplog/pkg/application/services/orchestration"
	"github.com/vsinha/mrplog/pkg/domain/services/logparser"
	"github.com/vsinha/mrplog/pkg/infrastructure/config"
	"github.com/vsinha/mrplog/pkg/infrastructure/events"
	"github.com/vsinha/mrplog/pkg/infrastructure/logging"
	"github.com/vsinha/mrplog/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrplog/pkg/interfaces/cli/output"
)

// Config holds the global flags shared by every subcommand. Flags that are
// set override the config file and environment.
type Config struct {
	ConfigFile string
	Format     string
	OutputDir  string
	LogLevel   string
	LogFormat  string
	Timezone   string
	Trace      bool
}

// RootCommand wires configuration, logging and the analysis pipeline for
// the parse, compare and batch subcommands
type RootCommand struct {
	flags        Config
	settings     *config.Config
	logger       *logrus.Logger
	eventStore   *events.InMemoryEventStore
	orchestrator *orchestration.AnalysisOrchestrator
}

// NewRootCommand creates the mrplog command tree
func NewRootCommand() *cobra.Command {
	root := &RootCommand{}

	cmd := &cobra.Command{
		Use:   "mrplog",
		Short: "Parse, compare and explain MRP run logs",
		Long: `mrplog reads the free-text logs written by MRP planning runs.

It extracts run metadata (site, timing, run type, health flags and status),
compares two runs to find jobs that disappeared, appeared, moved or changed
quantity and parts whose errors appeared or resolved, and explains every
difference with log evidence, scored inferences and next steps in Epicor.

Examples:
  # Summarize one run
  mrplog parse logs/mrp_0304.log

  # Compare two runs with explanations
  mrplog compare logs/mrp_0304.log logs/mrp_0305.log

  # Compare every pair listed in a manifest and export a workbook
  mrplog batch runs.csv --format xlsx --output reports`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: root.setup,
		PersistentPostRun: root.printTrace,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&root.flags.ConfigFile, "config", "", "Path to a YAML config file (default $MRPLOG_CONFIG)")
	flags.StringVar(&root.flags.Format, "format", "", "Output format: text, json, yaml, xlsx")
	flags.StringVar(&root.flags.OutputDir, "output", "", "Directory for result files (required for xlsx)")
	flags.StringVar(&root.flags.LogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	flags.StringVar(&root.flags.LogFormat, "log-format", "", "Diagnostic log format: text, json")
	flags.StringVar(&root.flags.Timezone, "timezone", "", "IANA time zone for log timestamps")
	flags.BoolVar(&root.flags.Trace, "trace", false, "Print pipeline events to stderr")

	cmd.AddCommand(
		newParseCommand(root),
		newCompareCommand(root),
		newBatchCommand(root),
	)
	return cmd
}

// Execute runs the command tree with the given arguments
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (r *RootCommand) setup(cmd *cobra.Command, _ []string) error {
	settings, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	r.settings = settings

	r.logger = logging.New(logging.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	loc, err := settings.Location()
	if err != nil {
		return err
	}

	r.eventStore = events.NewInMemoryEventStore(r.logger)
	r.orchestrator = orchestration.NewAnalysisOrchestrator(
		memory.NewRunRepository(2),
		r.eventStore,
		r.logger,
		logparser.WithLocation(loc),
		logparser.WithCompletionMarkers(settings.CompletionMarkers...),
	)

	r.logger.WithFields(logrus.Fields{
		"format":   settings.Format,
		"timezone": loc.String(),
		"command":  cmd.Name(),
	}).Debug("configuration resolved")
	return nil
}

// resolveConfig applies defaults, .env, config file, environment and flags in that order
func (r *RootCommand) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	settings, err := config.Load(r.flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides := []struct {
		flag   string
		value  string
		target *string
	}{
		{"format", r.flags.Format, &settings.Format},
		{"output", r.flags.OutputDir, &settings.OutputDir},
		{"log-level", r.flags.LogLevel, &settings.Log.Level},
		{"log-format", r.flags.LogFormat, &settings.Log.Format},
		{"timezone", r.flags.Timezone, &settings.Timezone},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.target = o.value
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *RootCommand) outputConfig(cmd *cobra.Command) output.Config {
	return output.Config{
		Format:    r.settings.Format,
		OutputDir: r.settings.OutputDir,
		Out:       cmd.OutOrStdout(),
	}
}

func (r *RootCommand) printTrace(cmd *cobra.Command, _ []string) {
	if !r.flags.Trace || r.eventStore == nil {
		return
	}
	r.eventStore.Flush()
	recorded, err := r.eventStore.ReadAllEvents(0)
	if err != nil {
		r.logger.WithError(err).Warn("failed to read pipeline events")
		return
	}
	output.WriteTrace(cmd.ErrOrStderr(), recorded)
}
