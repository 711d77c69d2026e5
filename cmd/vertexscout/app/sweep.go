package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/vertexscout/internal/catalog"
	"github.com/agentstation/vertexscout/internal/cmd/alerts"
	"github.com/agentstation/vertexscout/internal/cmd/output"
	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// sweepFlags are shared by the root and discover commands.
type sweepFlags struct {
	continent string
	static    bool
	json      bool
	filter    string
	test      string
}

func addSweepFlags(cmd *cobra.Command, flags *sweepFlags) {
	cmd.Flags().StringVarP(&flags.continent, "continent", "c", "",
		fmt.Sprintf("check regional endpoints instead of global (%s)", strings.Join(discovery.ContinentKeys(), ", ")))
	cmd.Flags().BoolVarP(&flags.static, "static", "s", false, "use the built-in model list instead of the Model Garden listing")
	cmd.Flags().BoolVarP(&flags.json, "json", "j", false, "JSON output (shortcut for --format json)")
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "only probe models matching a PUBLISHER/MODEL glob, e.g. 'anthropic/claude-*'")
	_ = cmd.RegisterFlagCompletionFunc("continent", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return discovery.ContinentKeys(), cobra.ShellCompDirectiveNoFileComp
	})
}

func (a *App) newDiscoverCommand() *cobra.Command {
	flags := &sweepFlags{}
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Probe candidate models and report their availability",
		Long: `Probe every candidate model once per endpoint and report the models
that are available, need a license agreement, or need permissions.
Running vertexscout without a subcommand does the same.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSweep(cmd.Context(), flags)
		},
	}
	addSweepFlags(cmd, flags)
	return cmd
}

// resolveFormat applies --json, then --format, then terminal detection.
func (a *App) resolveFormat(jsonFlag bool) (output.Format, error) {
	if jsonFlag {
		return output.FormatJSON, nil
	}
	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	return format, nil
}

// requireProject resolves the project or fails with setup instructions.
func (a *App) requireProject(ctx context.Context) (string, error) {
	if project, ok := a.Credentials().CurrentProject(ctx); ok {
		return project, nil
	}
	return "", errors.NewConfigError("project",
		"project ID required; set with: gcloud config set project YOUR_PROJECT_ID", errors.ErrInvalidInput)
}

func (a *App) runSweep(ctx context.Context, flags *sweepFlags) error {
	format, err := a.resolveFormat(flags.json)
	if err != nil {
		return err
	}
	human := format == output.FormatTable

	view := output.SweepReport{}
	var regions []string
	if flags.continent != "" {
		continent, err := discovery.LookupContinent(flags.continent)
		if err != nil {
			return err
		}
		view.Continent = &continent
		regions = continent.Regions
	}

	project, err := a.requireProject(ctx)
	if err != nil {
		return err
	}
	token, err := a.Credentials().AccessToken(ctx)
	if err != nil {
		return err
	}

	if human {
		view.WriteHeader(a.stdout, project, regions)
		if !flags.static {
			fmt.Fprintln(a.stdout, "Fetching models from Model Garden API...")
		}
	}

	candidates, origin, err := a.Catalog().Candidates(ctx, !flags.static)
	if err != nil {
		return err
	}
	view.Origin = string(origin)
	if origin == catalog.OriginFallback && human {
		_ = alerts.NewWriter(a.stdout, !a.config.NoColor).
			Write(alerts.NewWarning("No models found from API, using static fallback list"))
	}

	candidates, err = catalog.Filter(candidates, flags.filter)
	if err != nil {
		return err
	}

	var opts []discovery.SweeperOption
	if human {
		if len(regions) > 0 {
			fmt.Fprintf(a.stdout, "Scanning %d models across %d regions...\n\n", len(candidates), len(regions))
		} else {
			fmt.Fprintf(a.stdout, "Scanning %d models...\n\n", len(candidates))
		}
		opts = append(opts, discovery.WithProgress(a.printProgress))
	}

	result, err := discovery.NewSweeper(a.Prober(), opts...).Sweep(ctx, discovery.Request{
		Project:    project,
		Candidates: candidates,
		Token:      token,
		Regions:    regions,
	})
	if human {
		fmt.Fprintf(a.stderr, "\r%s\r", strings.Repeat(" ", 60))
	}
	if err != nil {
		return err
	}
	view.Result = result

	a.logger.Debug().
		Str("run_id", result.RunID).
		Int("reports", len(result.Reports)).
		Dur("duration", result.Duration).
		Msg("Sweep rendered")

	switch {
	case format == output.FormatTable:
		return view.WriteText(a.stdout, !a.config.NoColor)
	case format.Structured():
		return output.NewFormatter(format).Format(a.stdout, result)
	default:
		return output.NewFormatter(format).Format(a.stdout, view)
	}
}

// printProgress is called from the sweep's single collector goroutine.
func (a *App) printProgress(p discovery.Progress) {
	fmt.Fprintf(a.stderr, "\r  [%d/%d] probing models...", p.Done, p.Total)
}
