// Package gcloud runs the Google Cloud CLI for the few operations that have
// no stable API equivalent: printing an access token, reading the active
// configuration, and listing Model Garden models.
package gcloud

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/agentstation/vertexscout/pkg/constants"
	pkgerrors "github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// Runner executes a gcloud invocation and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// CLI runs the real gcloud binary.
type CLI struct {
	// Path is the executable name or path. Empty means "gcloud" on PATH.
	Path string
}

// NewCLI returns a CLI runner for the given executable path.
func NewCLI(path string) *CLI {
	if path == "" {
		path = constants.DefaultGcloudPath
	}
	return &CLI{Path: path}
}

// Run executes gcloud with args, returning stdout.
// Failures carry stderr in a ProcessError; an expired context yields a TimeoutError.
func (c *CLI) Run(ctx context.Context, args ...string) ([]byte, error) {
	path := c.Path
	if path == "" {
		path = constants.DefaultGcloudPath
	}

	cmd := exec.CommandContext(ctx, path, args...) //nolint:gosec // args are built internally
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Debug().
		Str("command", path).
		Strs("args", args).
		Msg("Running gcloud")

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, pkgerrors.NewTimeoutError("gcloud "+firstArgs(args), "", "command did not finish in time")
		}
		perr := pkgerrors.NewProcessError(firstArgs(args), path+" "+strings.Join(args, " "),
			strings.TrimSpace(stderr.String()), err)
		perr.ExitCode = exitCode(err)
		return nil, perr
	}
	return out, nil
}

// PrintAccessToken returns the caller's current OAuth access token.
func PrintAccessToken(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "auth", "print-access-token")
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", pkgerrors.NewCredentialError("gcloud", "print-access-token returned an empty token", nil)
	}
	return token, nil
}

// ConfigValue reads a property from the active gcloud configuration.
// Unset properties return an empty string.
func ConfigValue(ctx context.Context, r Runner, property string) string {
	out, err := r.Run(ctx, "config", "get-value", property)
	if err != nil {
		return ""
	}
	value := strings.TrimSpace(string(out))
	// gcloud prints "(unset)" for properties that have no value
	if value == "(unset)" {
		return ""
	}
	return value
}

// ListModelGarden lists full Model Garden resource names, one per line.
func ListModelGarden(ctx context.Context, r Runner) ([]string, error) {
	out, err := r.Run(ctx, "alpha", "ai", "model-garden", "models", "list",
		"--limit=1000", "--full-resource-name", "--format=value(name)")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

func firstArgs(args []string) string {
	n := min(len(args), 2)
	return strings.Join(args[:n], " ")
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
