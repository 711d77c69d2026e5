package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentstation/vertexscout/internal/gemini"
	"github.com/agentstation/vertexscout/internal/transport"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

type flags struct {
	prompt         string
	stdin          bool
	model          string
	apiKey         string
	maxTokens      int
	thinkingLevel  string
	thinkingBudget int
	noThoughts     bool
	noSearch       bool
	showPayload    bool
	raw            bool
}

// Execute runs the deepthink CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	cmd := a.createRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:     "deepthink",
		Short:   "Ask a Gemini thinking model a question, grounded with Google Search",
		Version: a.version,
		Long: heredoc.Doc(`
			deepthink sends one prompt to a Gemini thinking model and prints the
			model's thought summaries, the Google Search sources it used and
			the final answer.

			The thinking configuration carries either a token budget
			(--thinking-budget) or a level (--thinking-level), never both; a
			positive budget overrides the level.

			The API key is read from --api-key, GEMINI_API_KEY, a .env file or
			gemini_api_key in the config file.
		`),
		Example: heredoc.Doc(`
			deepthink -p "What changed in the latest Go release?"
			git diff | deepthink --stdin --no-search -t medium
			deepthink -p "Prove there are infinitely many primes" -b 8000 --no-thoughts
		`),
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options(cmd, f)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), opts, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.prompt, "prompt", "p", "", "the prompt to send")
	fs.BoolVarP(&f.stdin, "stdin", "s", false, "read the prompt from stdin")
	fs.StringVar(&f.model, "model", a.config.Model, "model ID")
	fs.StringVar(&f.apiKey, "api-key", "", "API key (overrides GEMINI_API_KEY)")
	fs.IntVarP(&f.maxTokens, "max-tokens", "m", a.config.MaxTokens, "max output tokens")
	fs.StringVarP(&f.thinkingLevel, "thinking-level", "t", a.config.ThinkingLevel,
		"thinking level: "+strings.Join(gemini.ThinkingLevels, ", "))
	fs.IntVarP(&f.thinkingBudget, "thinking-budget", "b", 0, "thinking token budget; overrides --thinking-level when > 0")
	fs.BoolVar(&f.noThoughts, "no-thoughts", false, "hide the thinking process")
	fs.BoolVar(&f.noSearch, "no-search", false, "disable Google Search grounding")
	fs.BoolVar(&f.showPayload, "show-payload", false, "print the request JSON before sending")
	fs.BoolVarP(&f.raw, "raw", "r", false, "print the raw response JSON only")
	_ = cmd.RegisterFlagCompletionFunc("thinking-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return gemini.ThinkingLevels, cobra.ShellCompDirectiveNoFileComp
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.config.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/vertexscout/deepthink.yaml)")
	pf.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose logging (shortcut for --log-level=debug)")
	pf.BoolVarP(&a.config.Quiet, "quiet", "q", false, "only log errors")
	pf.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	pf.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	cmd.SetVersionTemplate("deepthink {{.Version}}\n")
	return cmd
}

// setupCommand reloads configuration when --config is given and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.config.ConfigFile != "" && cmd.Flags().Changed("config") {
		cfg, err := LoadConfig(a.config.ConfigFile)
		if err != nil {
			return err
		}
		cfg.Verbose, cfg.Quiet, cfg.LogLevel = a.config.Verbose, a.config.Quiet, a.config.LogLevel
		cfg.NoColor = cfg.NoColor || a.config.NoColor
		a.config = cfg
	}
	if a.config.NoColor {
		color.NoColor = true
	}
	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// options merges flags over configuration. Unset flags take the
// configured value.
func (a *App) options(cmd *cobra.Command, f *flags) (gemini.Options, error) {
	opts := gemini.Options{
		Model:          a.config.Model,
		MaxTokens:      a.config.MaxTokens,
		ThinkingLevel:  a.config.ThinkingLevel,
		ThinkingBudget: f.thinkingBudget,
		HideThoughts:   f.noThoughts,
		NoSearch:       f.noSearch,
	}
	fs := cmd.Flags()
	if fs.Changed("model") {
		opts.Model = f.model
	}
	if fs.Changed("max-tokens") {
		opts.MaxTokens = f.maxTokens
	}
	if fs.Changed("thinking-level") {
		opts.ThinkingLevel = f.thinkingLevel
	}

	prompt, err := a.readPrompt(f)
	if err != nil {
		return opts, err
	}
	opts.Prompt = prompt
	return opts, opts.Validate()
}

// readPrompt returns --prompt, or stdin when --stdin is set and stdin is
// not a terminal.
func (a *App) readPrompt(f *flags) (string, error) {
	prompt := f.prompt
	if f.stdin && !a.stdinIsTerminal() {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", errors.WrapIO("read", "stdin", err)
		}
		prompt = string(data)
	}
	return strings.TrimSpace(prompt), nil
}

func (a *App) run(ctx context.Context, opts gemini.Options, f *flags) error {
	apiKey := a.config.APIKey
	if f.apiKey != "" {
		apiKey = f.apiKey
	}
	client, err := gemini.NewClient(apiKey, a.config.APIBaseURL, a.config.RequestTimeout)
	if err != nil {
		return err
	}
	req, err := gemini.BuildRequest(opts)
	if err != nil {
		return err
	}

	out := newRenderer(a.stdout)
	if !f.raw {
		out.info(opts)
	}
	if f.showPayload {
		if err := out.payload(req); err != nil {
			return err
		}
	}

	resp, elapsed, err := client.Generate(ctx, opts.Model, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		newRenderer(a.stderr).httpError(resp.StatusCode, resp.Body)
		return errors.NewAPIError("gemini", resp.StatusCode, transport.ErrorMessage(resp.Body))
	}

	if f.raw {
		_, err := fmt.Fprintln(a.stdout, string(resp.Body))
		return err
	}

	result, err := gemini.ParseResult(resp.Body)
	if err != nil {
		return err
	}
	if result.Empty {
		out.yellow.Fprintln(out.w, "No candidates returned.")
		return nil
	}

	a.logger.Debug().
		Int("thoughts", len(result.Thoughts)).
		Int("sources", len(result.Sources)).
		Dur("elapsed", elapsed).
		Msg("Response parsed")

	out.result(result, opts, elapsed)
	return nil
}
