package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/agentstation/vertexscout/internal/gemini"
	"github.com/agentstation/vertexscout/pkg/errors"
)

const (
	promptPreviewLimit = 60
	ruleWidth          = 60
)

type renderer struct {
	w      io.Writer
	header *color.Color
	bold   *color.Color
	cyan   *color.Color
	yellow *color.Color
	red    *color.Color
	green  *color.Color
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:      w,
		header: color.New(color.FgHiMagenta, color.Bold),
		bold:   color.New(color.Bold),
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
	}
}

// previewPrompt truncates prompt to the first 60 runes.
func previewPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= promptPreviewLimit {
		return prompt
	}
	return string(runes[:promptPreviewLimit]) + "..."
}

func (r *renderer) info(opts gemini.Options) {
	grounding := r.red.Sprint("DISABLED")
	if !opts.NoSearch {
		grounding = r.green.Sprint("ENABLED (Google Search)")
	}

	fmt.Fprintln(r.w, strings.Repeat("-", ruleWidth))
	fmt.Fprintf(r.w, "%s %s\n", r.bold.Sprint("Model:"), opts.Model)
	fmt.Fprintf(r.w, "%s %s\n", r.bold.Sprint("Thinking:"), opts.ThinkingSummary())
	fmt.Fprintf(r.w, "%s %s\n", r.bold.Sprint("Grounding:"), grounding)
	fmt.Fprintf(r.w, "%s \"%s\"\n", r.bold.Sprint("Prompt:"), previewPrompt(opts.Prompt))
	fmt.Fprintln(r.w, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(r.w, "Sending query... (Deep Thinking + Search takes time)")
}

func (r *renderer) payload(req *gemini.Request) error {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return errors.WrapParse("json", "request payload", err)
	}
	fmt.Fprintf(r.w, "%s\n%s\n", r.yellow.Sprint("[DEBUG] Payload:"), data)
	return nil
}

func (r *renderer) httpError(status int, body []byte) {
	fmt.Fprintf(r.w, "%s HTTP %d\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), status)
	r.red.Fprintln(r.w, gemini.PrettyJSON(body))
}

func (r *renderer) section(title string) {
	r.header.Fprintf(r.w, "\n--- %s ---\n", title)
}

func (r *renderer) result(res *gemini.Result, opts gemini.Options, elapsed time.Duration) {
	if !opts.HideThoughts {
		r.section("🧠 DEEP THINKING PROCESS")
		if len(res.Thoughts) == 0 {
			fmt.Fprintln(r.w, "(No distinct thought blocks returned)")
		}
		for _, t := range res.Thoughts {
			r.cyan.Fprintln(r.w, t)
		}
	}

	if len(res.Sources) > 0 {
		r.section("🌍 SEARCH SOURCES")
		for i, s := range res.Sources {
			fmt.Fprintf(r.w, "[%d] %s (%s)\n", i+1, s.Title, s.URI)
		}
	}

	r.section("📝 FINAL ANSWER")
	for _, text := range res.Answer {
		fmt.Fprintln(r.w, text)
	}

	fmt.Fprintln(r.w)
	r.bold.Fprintf(r.w, "Query completed in: %.2f seconds\n", elapsed.Seconds())
}
