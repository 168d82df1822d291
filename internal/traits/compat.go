package traits

import (
	"math"
	"strings"
)

// Block weights for alliance compatibility. Economic, diplomatic, and
// geopolitical differences contribute 0.3 / 0.4 / 0.3 of the total distance.
const (
	blockEconomic     = 0.3
	blockDiplomatic   = 0.4
	blockGeopolitical = 0.3
)

// AllianceCompatibility scores how naturally two countries align, in [0, 1].
// It is 1 minus a weighted sum of absolute trait differences over three
// blocks. Symmetric: AllianceCompatibility(a, b) == AllianceCompatibility(b, a).
func (p *Profile) AllianceCompatibility(other *Profile) float64 {
	if other == nil {
		n := Neutral()
		other = &n
	}

	econ := 0.4*math.Abs(p.FreeMarketBelief-other.FreeMarketBelief) +
		0.3*math.Abs(p.Protectionism-other.Protectionism) +
		0.3*math.Abs(p.StateEnterpriseDominance-other.StateEnterpriseDominance)

	diplo := 0.4*math.Abs(p.Cooperation-other.Cooperation) +
		0.3*math.Abs(p.Isolationism-other.Isolationism) +
		0.3*math.Abs(p.Aggression-other.Aggression)

	geo := 0.5*math.Abs(p.GeopoliticalAlignment-other.GeopoliticalAlignment) +
		0.25*math.Abs(p.RegionalFocus-other.RegionalFocus) +
		0.25*math.Abs(p.RegionalLeadershipRole-other.RegionalLeadershipRole)

	distance := blockEconomic*econ + blockDiplomatic*diplo + blockGeopolitical*geo
	return Clamp(1 - distance)
}

// IncidentKind classifies a logged bilateral incident.
type IncidentKind uint8

const (
	IncidentCooperative IncidentKind = iota
	IncidentAggressive
)

// Incident is a free-text diplomatic history entry. An incident counts
// against a counterpart when its description mentions the counterpart's name.
type Incident struct {
	Turn        int          `json:"turn"`
	Kind        IncidentKind `json:"kind"`
	Description string       `json:"description"`
}

// Mentions reports whether the incident's description references name.
func (in Incident) Mentions(name string) bool {
	return name != "" && strings.Contains(in.Description, name)
}

// CooperationFactors is the breakdown of a cooperation potential score.
type CooperationFactors struct {
	AllianceCompatibility float64 `json:"alliance_compatibility"`
	TradeSimilarity       float64 `json:"trade_similarity"`
	TechnologySimilarity  float64 `json:"technology_similarity"`
	EnvironmentSimilarity float64 `json:"environment_similarity"`
	AlignmentSimilarity   float64 `json:"alignment_similarity"`
	IncidentModifier      float64 `json:"incident_modifier"`
}

// Incident modifier bounds and per-incident contributions.
const (
	incidentCooperativeBonus  = 0.1
	incidentAggressivePenalty = 0.2
	incidentModifierCap       = 0.3
)

// CooperationPotential scores the willingness of this country to work with
// another, in [0, 1], with the factor breakdown. counterpartName is matched
// against incident descriptions: each cooperative mention adds +0.1, each
// aggressive mention subtracts 0.2, with the net modifier clamped to
// [-0.3, +0.3] before being added to the weighted base score.
func (p *Profile) CooperationPotential(other *Profile, counterpartName string, incidents []Incident) (float64, CooperationFactors) {
	if other == nil {
		n := Neutral()
		other = &n
	}

	f := CooperationFactors{
		AllianceCompatibility: p.AllianceCompatibility(other),
		TradeSimilarity:       tradeSimilarity(p, other),
		TechnologySimilarity:  1 - math.Abs(p.TechnologyPolicy-other.TechnologyPolicy),
		EnvironmentSimilarity: 1 - math.Abs(p.EnvironmentalPolicy-other.EnvironmentalPolicy),
		AlignmentSimilarity:   1 - math.Abs(p.GeopoliticalAlignment-other.GeopoliticalAlignment),
	}

	base := 0.3*f.AllianceCompatibility +
		0.3*f.TradeSimilarity +
		0.15*f.TechnologySimilarity +
		0.1*f.EnvironmentSimilarity +
		0.15*f.AlignmentSimilarity

	mod := 0.0
	for _, in := range incidents {
		if !in.Mentions(counterpartName) {
			continue
		}
		switch in.Kind {
		case IncidentCooperative:
			mod += incidentCooperativeBonus
		case IncidentAggressive:
			mod -= incidentAggressivePenalty
		}
	}
	if mod > incidentModifierCap {
		mod = incidentModifierCap
	}
	if mod < -incidentModifierCap {
		mod = -incidentModifierCap
	}
	f.IncidentModifier = mod

	return Clamp(base + mod), f
}

// tradeSimilarity is 1 minus the mean absolute difference across the six
// trade strategy weights.
func tradeSimilarity(a, b *Profile) float64 {
	wa, wb := a.TradeStrategyWeights(), b.TradeStrategyWeights()
	diff := math.Abs(wa.Protectionism-wb.Protectionism) +
		math.Abs(wa.FreeTrade-wb.FreeTrade) +
		math.Abs(wa.StrategicTrade-wb.StrategicTrade) +
		math.Abs(wa.ResourceFocus-wb.ResourceFocus) +
		math.Abs(wa.TechnologyControl-wb.TechnologyControl) +
		math.Abs(wa.RegionalIntegration-wb.RegionalIntegration)
	return Clamp(1 - diff/6)
}
