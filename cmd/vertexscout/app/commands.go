package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/agentstation/vertexscout/internal/catalog"
	"github.com/agentstation/vertexscout/internal/cmd/alerts"
	"github.com/agentstation/vertexscout/internal/cmd/output"
	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/internal/vertex"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

func (a *App) newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test PUBLISHER/MODEL",
		Short: "Send a short prompt to one model on the global endpoint",
		Long: heredoc.Doc(`
			Send "Say hello in one word!" to a single model through the global
			endpoint and print the reply, or the error returned by Vertex AI.
			When the error mentions a license agreement, the command to review
			and accept it is printed.
		`),
		Example: "  vertexscout test anthropic/claude-sonnet-4-5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTest(cmd.Context(), args[0])
		},
	}
}

// ParseModelRef splits "publisher/model".
func ParseModelRef(ref string) (discovery.Candidate, error) {
	publisher, model, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || publisher == "" || model == "" {
		return discovery.Candidate{}, errors.NewValidationError("model", ref, "format must be publisher/model-id")
	}
	return discovery.Candidate{Publisher: publisher, Model: model}, nil
}

func (a *App) runTest(ctx context.Context, ref string) error {
	candidate, err := ParseModelRef(ref)
	if err != nil {
		return err
	}
	project, err := a.requireProject(ctx)
	if err != nil {
		return err
	}
	token, err := a.Credentials().AccessToken(ctx)
	if err != nil {
		return err
	}

	w := a.stdout
	fmt.Fprintf(w, "Testing model: %s\n", candidate)
	fmt.Fprintf(w, "Project: %s\n", project)
	fmt.Fprintln(w, strings.Repeat("-", 50))

	ctx = logging.WithModel(logging.WithPublisher(ctx, candidate.Publisher), candidate.Model)
	target := vertex.Target{
		Project:   project,
		Location:  vertex.Global,
		Publisher: candidate.Publisher,
		Model:     candidate.Model,
	}
	aw := alerts.NewWriter(w, !a.config.NoColor)
	result, err := a.Vertex().Test(ctx, target, token, a.config.TestTimeout)
	if err != nil {
		// a failed call is a test outcome, not a command failure
		return aw.Write(alerts.NewError("Error").WithError(err))
	}

	if result.OK() {
		if err := aw.Write(alerts.NewSuccess("Model works on global endpoint!")); err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Response: %s\n", result.Text)
		return nil
	}

	if err := aw.Write(alerts.NewError(fmt.Sprintf("Model returned status %d", result.StatusCode))); err != nil {
		return err
	}
	if result.Message == "" {
		fmt.Fprintf(w, "Response: %s\n", result.Body)
		return nil
	}
	fmt.Fprintf(w, "Error: %s\n", result.Message)
	if result.NeedsEula {
		fmt.Fprintln(w)
		return aw.Write(alerts.NewHint("Accept EULA with:").
			WithDetails(output.EulaCommand(candidate.Publisher, candidate.Model, project)))
	}
	return nil
}

func (a *App) newRegionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the continents and regions that can be scanned",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			format, err := a.resolveFormat(false)
			if err != nil {
				return err
			}
			return output.NewFormatter(format).Format(a.stdout, discovery.Continents())
		},
	}
}

func (a *App) newCatalogCommand() *cobra.Command {
	var (
		static bool
		filter string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the candidate models a sweep would probe",
		Long: heredoc.Doc(`
			Print the (publisher, model) candidates a sweep would probe, from
			the Model Garden listing or, with --static or when the listing is
			unavailable, from the built-in list.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.resolveFormat(false)
			if err != nil {
				return err
			}
			candidates, origin, err := a.Catalog().Candidates(cmd.Context(), !static)
			if err != nil {
				return err
			}
			candidates, err = catalog.Filter(candidates, filter)
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				fmt.Fprintf(a.stderr, "%d models from %s\n", len(candidates), origin)
			}
			return output.NewFormatter(format).Format(a.stdout, candidates)
		},
	}
	cmd.Flags().BoolVarP(&static, "static", "s", false, "use the built-in model list")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list models matching a PUBLISHER/MODEL glob")
	return cmd
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "vertexscout %s\n", a.version)
			fmt.Fprintf(a.stdout, "  commit:   %s\n", a.commit)
			fmt.Fprintf(a.stdout, "  built:    %s\n", a.date)
			fmt.Fprintf(a.stdout, "  built by: %s\n", a.builtBy)
		},
	}
}
