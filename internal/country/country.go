// Package country provides the country record: identity, economy figures,
// trait profile, and diplomatic incident history.
package country

import (
	"github.com/talgya/statecraft/internal/traits"
)

// Incident history is capped to keep cooperation scoring bounded and the
// record from growing without limit.
const maxIncidents = 40

// Country is a simulated state. The trait profile is owned here; the
// strategy engine only ever borrows it read-only.
type Country struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Economy (fed by the external macro model; static within this core).
	GDP float64 `json:"gdp" yaml:"gdp"`

	// Geography, used to correlate randomized traits across neighbors.
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`

	Profile traits.Profile `json:"profile" yaml:"traits"`

	// Optional externally sourced resource dependency data, keyed by
	// resource name.
	Resources map[string]traits.ResourceDependency `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Recent diplomatic incidents involving this country.
	Incidents []traits.Incident `json:"incidents,omitempty"`
}

// RecordIncident appends a diplomatic incident, evicting the oldest entry
// past the cap.
func (c *Country) RecordIncident(in traits.Incident) {
	c.Incidents = append(c.Incidents, in)
	if len(c.Incidents) > maxIncidents {
		c.Incidents = c.Incidents[len(c.Incidents)-maxIncidents:]
	}
}

// CooperationWith scores this country's willingness to work with other,
// applying the incident history.
func (c *Country) CooperationWith(other *Country) (float64, traits.CooperationFactors) {
	if other == nil {
		return c.Profile.CooperationPotential(nil, "", c.Incidents)
	}
	return c.Profile.CooperationPotential(&other.Profile, other.Name, c.Incidents)
}
