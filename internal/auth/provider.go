// Package auth supplies the bearer token and active project used to call
// Vertex AI. Tokens come from the gcloud CLI and fall back to Application
// Default Credentials; the project comes from configuration, gcloud, the
// environment, or the local ADC and gcloud files, in that order.
package auth

import (
	"context"
	"os"
	"sync"
	"time"

	cloudauth "cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"

	"github.com/agentstation/vertexscout/internal/auth/adc"
	"github.com/agentstation/vertexscout/internal/gcloud"
	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
	"github.com/agentstation/vertexscout/pkg/logging"
)

// CloudPlatformScope is the OAuth scope needed for Vertex AI calls.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// TokenSource supplies a bearer token for Vertex AI.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ProjectSource supplies the active project id, if any.
type ProjectSource interface {
	CurrentProject(ctx context.Context) (string, bool)
}

// DetectFunc detects Application Default Credentials.
type DetectFunc func() (*cloudauth.Credentials, error)

// Provider implements TokenSource and ProjectSource.
// The token is resolved once and cached for the life of the Provider.
type Provider struct {
	runner        gcloud.Runner
	detect        DetectFunc
	detectTimeout time.Duration
	project       string

	mu    sync.Mutex
	token string
}

// Option configures a Provider.
type Option func(*Provider)

// WithProject pins the project, bypassing discovery.
func WithProject(project string) Option {
	return func(p *Provider) {
		p.project = project
	}
}

// WithDetect replaces ADC detection. A nil func disables the ADC fallback.
func WithDetect(detect DetectFunc) Option {
	return func(p *Provider) {
		p.detect = detect
	}
}

// WithDetectTimeout bounds ADC detection.
func WithDetectTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.detectTimeout = d
	}
}

// NewProvider creates a credential provider backed by the given gcloud runner.
func NewProvider(runner gcloud.Runner, opts ...Option) *Provider {
	p := &Provider{
		runner:        runner,
		detect:        detectDefault,
		detectTimeout: constants.CredentialDetectTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func detectDefault() (*cloudauth.Credentials, error) {
	return credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{CloudPlatformScope},
	})
}

// AccessToken returns a bearer token, failing with a CredentialError
// when neither gcloud nor ADC can produce one.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	logger := logging.FromContext(ctx)

	tokenCtx, cancel := context.WithTimeout(ctx, constants.TokenTimeout)
	defer cancel()

	token, gcloudErr := gcloud.PrintAccessToken(tokenCtx, p.runner)
	if gcloudErr == nil {
		logger.Debug().Str("source", "gcloud").Msg("Obtained access token")
		p.token = token
		return token, nil
	}
	logger.Debug().Err(gcloudErr).Msg("gcloud token unavailable, trying ADC")

	token, adcErr := p.adcToken(tokenCtx)
	if adcErr == nil {
		logger.Debug().Str("source", "adc").Msg("Obtained access token")
		p.token = token
		return token, nil
	}

	return "", errors.NewCredentialError("gcloud",
		"could not obtain an access token; run 'gcloud auth login' or configure Application Default Credentials",
		gcloudErr)
}

// adcToken detects ADC and mints a token from it.
// DetectDefault takes no context, so it runs in a goroutine bounded by detectTimeout.
func (p *Provider) adcToken(ctx context.Context) (string, error) {
	if p.detect == nil {
		return "", errors.NewCredentialError("adc", "detection disabled", nil)
	}

	type result struct {
		creds *cloudauth.Credentials
		err   error
	}

	resultChan := make(chan result, 1)
	go func() {
		creds, err := p.detect()
		resultChan <- result{creds: creds, err: err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return "", errors.NewCredentialError("adc", "no default credentials found", res.err)
		}
		tok, err := res.creds.Token(ctx)
		if err != nil {
			return "", errors.NewCredentialError("adc", "token refresh failed", err)
		}
		if tok == nil || tok.Value == "" {
			return "", errors.NewCredentialError("adc", "empty token", nil)
		}
		return tok.Value, nil

	case <-time.After(p.detectTimeout):
		return "", errors.NewCredentialError("adc", "credential detection timed out", nil)

	case <-ctx.Done():
		return "", errors.NewCredentialError("adc", "credential detection cancelled", ctx.Err())
	}
}

// CurrentProject resolves the active project id.
//
// Priority order:
//  1. explicitly configured project
//  2. gcloud config get-value project
//  3. GOOGLE_CLOUD_PROJECT, GOOGLE_VERTEX_PROJECT
//  4. ADC file and gcloud configuration files
func (p *Provider) CurrentProject(ctx context.Context) (string, bool) {
	project, source := p.resolveProject(ctx)
	if project == "" {
		return "", false
	}
	logging.FromContext(ctx).Debug().
		Str("project", project).
		Str("source", source).
		Msg("Resolved project")
	return project, true
}

func (p *Provider) resolveProject(ctx context.Context) (project, source string) {
	if p.project != "" {
		return p.project, "config"
	}

	if p.runner != nil {
		cfgCtx, cancel := context.WithTimeout(ctx, constants.TokenTimeout)
		defer cancel()
		if v := gcloud.ConfigValue(cfgCtx, p.runner, "project"); v != "" {
			return v, "gcloud config"
		}
	}

	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GOOGLE_VERTEX_PROJECT"} {
		if v := os.Getenv(env); v != "" {
			return v, "env (" + env + ")"
		}
	}

	return adc.ResolveProject()
}
