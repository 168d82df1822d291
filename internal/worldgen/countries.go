// Package worldgen seeds the country roster: static YAML data plus
// noise-correlated randomized trait profiles, deterministic from the seed.
package worldgen

import (
	"fmt"
	"os"

	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/traits"
)

// ResourceEntry is one resource dependency line in the roster file. Exactly
// one of ratio and description should be set; both absent means the
// dependency is known to exist but unmeasured.
type ResourceEntry struct {
	Resource    string   `yaml:"resource"`
	Ratio       *float64 `yaml:"ratio,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// CountrySpec is one roster entry. Traits are optional: absent traits are
// filled from the trait noise field at the country's coordinates.
type CountrySpec struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	GDP       float64            `yaml:"gdp"`
	Lon       float64            `yaml:"lon"`
	Lat       float64            `yaml:"lat"`
	Traits    map[string]float64 `yaml:"traits,omitempty"`
	Resources []ResourceEntry    `yaml:"resources,omitempty"`
}

// Roster is the top-level roster file layout.
type Roster struct {
	Countries []CountrySpec `yaml:"countries"`
}

// LoadRoster reads a YAML roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(r.Countries) == 0 {
		return nil, fmt.Errorf("roster %s lists no countries", path)
	}
	return &r, nil
}

// TraitField samples trait values from layered simplex noise over country
// coordinates, so neighboring countries get correlated dispositions. One
// independent noise layer per trait, offset by the trait's index.
type TraitField struct {
	layers []opensimplex.Noise
}

// Noise sampling scale: degrees of lon/lat per noise unit. Larger values
// widen the regions that share dispositions.
const fieldScale = 30.0

// NewTraitField creates the per-trait noise layers for a seed.
func NewTraitField(seed int64) *TraitField {
	names := traits.TraitNames()
	layers := make([]opensimplex.Noise, len(names))
	for i := range names {
		layers[i] = opensimplex.NewNormalized(seed + int64(i))
	}
	return &TraitField{layers: layers}
}

// Sample returns a full trait map at the given coordinates, every value in
// [0, 1].
func (f *TraitField) Sample(lon, lat float64) map[string]float64 {
	names := traits.TraitNames()
	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = f.layers[i].Eval2(lon/fieldScale, lat/fieldScale)
	}
	return out
}

// BuildCountries materializes the roster into country records. Explicit
// roster traits win; everything else comes from the noise field. The result
// is deterministic for a given (roster, seed) pair and sorted by id.
func BuildCountries(r *Roster, seed int64) []*country.Country {
	field := NewTraitField(seed)

	out := make([]*country.Country, 0, len(r.Countries))
	for _, spec := range r.Countries {
		traitMap := field.Sample(spec.Lon, spec.Lat)
		for name, v := range spec.Traits {
			traitMap[name] = v
		}

		c := &country.Country{
			ID:      spec.ID,
			Name:    spec.Name,
			GDP:     spec.GDP,
			Lon:     spec.Lon,
			Lat:     spec.Lat,
			Profile: traits.FromMap(traitMap),
		}

		if len(spec.Resources) > 0 {
			c.Resources = make(map[string]traits.ResourceDependency, len(spec.Resources))
			for _, re := range spec.Resources {
				switch {
				case re.Ratio != nil:
					c.Resources[re.Resource] = traits.NumericDependency(*re.Ratio)
				case re.Description != "":
					c.Resources[re.Resource] = traits.DescribedDependency(re.Description)
				default:
					c.Resources[re.Resource] = traits.AbsentDependency()
				}
			}
		}

		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b *country.Country) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}
