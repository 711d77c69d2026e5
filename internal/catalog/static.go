package catalog

import (
	_ "embed"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/vertexscout/internal/discovery"
	"github.com/agentstation/vertexscout/pkg/errors"
)

//go:embed static.yaml
var staticYAML []byte

type staticTable struct {
	Publishers []struct {
		ID     string   `yaml:"id"`
		Models []string `yaml:"models"`
	} `yaml:"publishers"`
}

var (
	staticOnce       sync.Once
	staticCandidates []discovery.Candidate
	staticErr        error
)

// Static returns the built-in candidate table.
func Static() ([]discovery.Candidate, error) {
	staticOnce.Do(func() {
		staticCandidates, staticErr = parseStatic(staticYAML)
	})
	if staticErr != nil {
		return nil, staticErr
	}
	out := make([]discovery.Candidate, len(staticCandidates))
	copy(out, staticCandidates)
	return out, nil
}

func parseStatic(data []byte) ([]discovery.Candidate, error) {
	var table staticTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapParse("yaml", "static.yaml", err)
	}

	var out []discovery.Candidate
	for _, p := range table.Publishers {
		for _, m := range p.Models {
			out = append(out, discovery.Candidate{Publisher: p.ID, Model: m})
		}
	}
	if len(out) == 0 {
		return nil, errors.NewParseError("yaml", "static.yaml", "no models listed", nil)
	}
	return out, nil
}
