package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentstation/vertexscout/internal/cmd/emoji"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Execute runs the vertexscout CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	flags := &sweepFlags{}
	rootCmd := &cobra.Command{
		Use:     "vertexscout",
		Short:   "Discover which Vertex AI publisher models your project can call",
		Version: a.version,
		Long: heredoc.Doc(`
			vertexscout probes Vertex AI publisher models (Google, Anthropic,
			Mistral and other partners) and reports which ones the current
			project can invoke, which need a license agreement accepted, and
			which are missing permissions.

			By default the global endpoint is checked. Use --continent to
			check the regional endpoints of a continent instead.

			Candidates come from the Model Garden listing (gcloud alpha) and
			fall back to a built-in list when it is unavailable.
		`),
		Example: heredoc.Doc(`
			# Discover models on the global endpoint
			vertexscout

			# Check United States regional endpoints
			vertexscout --continent us

			# Only Anthropic models, from the built-in list, as JSON
			vertexscout --static --filter 'anthropic/*' --json

			# Test one model on the global endpoint
			vertexscout test google/gemini-2.5-flash
		`),
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.test != "" {
				return a.runTest(cmd.Context(), flags.test)
			}
			return a.runSweep(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/vertexscout/vertexscout.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "only log errors (shortcut for --log-level=error)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVarP(&a.config.Project, "project", "p", a.config.Project, "Google Cloud project (default: gcloud config)")

	addSweepFlags(rootCmd, flags)
	rootCmd.Flags().StringVarP(&flags.test, "test", "t", "", "test a model on the global endpoint (PUBLISHER/MODEL)")

	rootCmd.SetVersionTemplate("vertexscout {{.Version}}\n")

	rootCmd.AddCommand(
		a.newDiscoverCommand(),
		a.newTestCommand(),
		a.newRegionsCommand(),
		a.newCatalogCommand(),
		a.newVersionCommand(),
	)
	return rootCmd
}

// setupCommand reloads configuration when --config is given, applies the
// global flags and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")
	project := mustGetString(cmd, "project")

	if file := mustGetString(cmd, "config"); file != "" {
		cfg, err := LoadConfig(file)
		if err != nil {
			return err
		}
		a.config = cfg
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel, project)

	if a.config.NoColor {
		color.NoColor = true
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

// WriteError prints err, followed by a hint when the user can fix it.
func WriteError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errorHint(err); hint != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", emoji.Hint, hint)
	}
}

func errorHint(err error) string {
	switch {
	case errors.IsCredentialError(err):
		return "Authenticate with: gcloud auth login"
	case errors.IsValidationError(err):
		return "Run 'vertexscout --help' for usage"
	}
	return ""
}

// mustGetBool retrieves a flag defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a flag defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
