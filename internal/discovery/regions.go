package discovery

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/vertexscout/pkg/constants"
	"github.com/agentstation/vertexscout/pkg/errors"
)

// Continent is a named group of Vertex AI regions scanned together.
type Continent struct {
	Key     string   `json:"key" yaml:"key"`
	Name    string   `json:"name" yaml:"name"`
	Regions []string `json:"regions" yaml:"regions"`
}

var continents = []Continent{
	{
		Key:  "us",
		Name: "United States",
		Regions: []string{
			"us-central1", "us-east1", "us-east4", "us-east5",
			"us-south1", "us-west1", "us-west4",
		},
	},
	{
		Key:     "europe",
		Name:    "Europe",
		Regions: []string{"europe-west1", "europe-west4", "europe-west9"},
	},
	{
		Key:  "asia",
		Name: "Asia Pacific",
		Regions: []string{
			"asia-east1", "asia-east2", "asia-northeast1",
			"asia-northeast3", "asia-south1", "asia-southeast1",
		},
	},
}

// Continents returns the scannable continents.
func Continents() []Continent {
	out := make([]Continent, len(continents))
	for i, c := range continents {
		c.Regions = slices.Clone(c.Regions)
		out[i] = c
	}
	return out
}

// ContinentKeys returns the valid continent keys.
func ContinentKeys() []string {
	keys := make([]string, len(continents))
	for i, c := range continents {
		keys[i] = c.Key
	}
	return keys
}

// LookupContinent finds a continent by key, case-insensitively.
func LookupContinent(key string) (Continent, error) {
	for _, c := range Continents() {
		if strings.EqualFold(c.Key, key) {
			return c, nil
		}
	}
	return Continent{}, errors.NewValidationError("continent", key,
		fmt.Sprintf("must be one of %s", strings.Join(ContinentKeys(), ", ")))
}

// FormatRegions renders a region list. Lists longer than
// RegionDisplayLimit keep the first two entries and count the rest.
func FormatRegions(regions []string) string {
	if len(regions) <= constants.RegionDisplayLimit {
		return strings.Join(regions, ", ")
	}
	shown := strings.Join(regions[:constants.RegionPreviewCount], ", ")
	return fmt.Sprintf("%s... (+%d more)", shown, len(regions)-constants.RegionPreviewCount)
}
