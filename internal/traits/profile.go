// Package traits provides the per-country behavioral trait profile and the
// derived scoring functions that drive all diplomatic AI decisions.
package traits

// Profile is a country's vector of behavioral propensities, each in [0, 1].
// It is read-mostly: created at world initialization and adjusted only by
// explicit policy or event effects, never by the strategy engine.
type Profile struct {
	Protectionism            float64 `json:"protectionism" yaml:"protectionism"`
	FreeMarketBelief         float64 `json:"free_market_belief" yaml:"free_market_belief"`
	SelfSufficiency          float64 `json:"self_sufficiency" yaml:"self_sufficiency"`
	Cooperation              float64 `json:"cooperation" yaml:"cooperation"`
	Isolationism             float64 `json:"isolationism" yaml:"isolationism"`
	Retaliation              float64 `json:"retaliation" yaml:"retaliation"`
	Aggression               float64 `json:"aggression" yaml:"aggression"`
	RegionalFocus            float64 `json:"regional_focus" yaml:"regional_focus"`
	Pride                    float64 `json:"pride" yaml:"pride"`
	Pragmatism               float64 `json:"pragmatism" yaml:"pragmatism"`
	RiskAversion             float64 `json:"risk_aversion" yaml:"risk_aversion"`
	SanctionsResilience      float64 `json:"sanctions_resilience" yaml:"sanctions_resilience"`
	TechnologyPolicy         float64 `json:"technology_policy" yaml:"technology_policy"`
	EnvironmentalPolicy      float64 `json:"environmental_policy" yaml:"environmental_policy"`
	GeopoliticalAlignment    float64 `json:"geopolitical_alignment" yaml:"geopolitical_alignment"`
	StateEnterpriseDominance float64 `json:"state_enterprise_dominance" yaml:"state_enterprise_dominance"`
	RegionalLeadershipRole   float64 `json:"regional_leadership_role" yaml:"regional_leadership_role"`
	ResourceNationalism      float64 `json:"resource_nationalism" yaml:"resource_nationalism"`
}

// NeutralTrait is the default value for any trait not explicitly provided.
const NeutralTrait = 0.5

// Clamp bounds a trait value to [0, 1]. Out-of-range input is corrected,
// never rejected.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// traitNames lists every trait key in a fixed order, used by FromMap and Map.
var traitNames = []string{
	"protectionism",
	"free_market_belief",
	"self_sufficiency",
	"cooperation",
	"isolationism",
	"retaliation",
	"aggression",
	"regional_focus",
	"pride",
	"pragmatism",
	"risk_aversion",
	"sanctions_resilience",
	"technology_policy",
	"environmental_policy",
	"geopolitical_alignment",
	"state_enterprise_dominance",
	"regional_leadership_role",
	"resource_nationalism",
}

// TraitNames returns the fixed-order list of trait keys.
func TraitNames() []string {
	out := make([]string, len(traitNames))
	copy(out, traitNames)
	return out
}

// Neutral returns a profile with every trait at 0.5.
func Neutral() Profile {
	var p Profile
	for _, f := range p.fields() {
		*f = NeutralTrait
	}
	return p
}

// FromMap builds a profile from a trait map. Missing traits default to
// neutral (0.5); values are clamped to [0, 1]. Unknown keys are ignored.
func FromMap(m map[string]float64) Profile {
	p := Neutral()
	fields := p.fields()
	for i, name := range traitNames {
		if v, ok := m[name]; ok {
			*fields[i] = Clamp(v)
		}
	}
	return p
}

// Map returns the profile as a trait-name-keyed map.
func (p *Profile) Map() map[string]float64 {
	m := make(map[string]float64, len(traitNames))
	fields := p.fields()
	for i, name := range traitNames {
		m[name] = *fields[i]
	}
	return m
}

// Normalize clamps every trait in place.
func (p *Profile) Normalize() {
	for _, f := range p.fields() {
		*f = Clamp(*f)
	}
}

// Adjust adds delta to the named trait and clamps. Returns false for an
// unknown trait name.
func (p *Profile) Adjust(name string, delta float64) bool {
	fields := p.fields()
	for i, n := range traitNames {
		if n == name {
			*fields[i] = Clamp(*fields[i] + delta)
			return true
		}
	}
	return false
}

// fields returns pointers to the trait fields in traitNames order.
func (p *Profile) fields() []*float64 {
	return []*float64{
		&p.Protectionism,
		&p.FreeMarketBelief,
		&p.SelfSufficiency,
		&p.Cooperation,
		&p.Isolationism,
		&p.Retaliation,
		&p.Aggression,
		&p.RegionalFocus,
		&p.Pride,
		&p.Pragmatism,
		&p.RiskAversion,
		&p.SanctionsResilience,
		&p.TechnologyPolicy,
		&p.EnvironmentalPolicy,
		&p.GeopoliticalAlignment,
		&p.StateEnterpriseDominance,
		&p.RegionalLeadershipRole,
		&p.ResourceNationalism,
	}
}
