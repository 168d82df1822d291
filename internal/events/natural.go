// Package events rolls stochastic internal-conflict and external-pressure
// perturbations against active coalitions each turn.
package events

import (
	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/diplomacy"
	"github.com/talgya/statecraft/internal/entropy"
)

// Internal conflict trigger parameters.
const (
	conflictBaseProb      = 0.10
	lowCohesionThreshold  = 0.4
	lowCohesionFactor     = 0.5
	largeMembershipSize   = 5
	perExtraMemberProb    = 0.02
	conflictCohesionScale = 0.05 // cohesion penalty per unit severity
)

// External pressure trigger parameters.
const (
	pressureBaseProb     = 0.07
	pressureMilitaryProb = 0.08 // extra for defense and counter purposes

	responseStrengthened = 0.6
	responseWeakened     = 0.3

	strengthenedCohesionGain = 0.05
	weakenedCohesionLoss     = 0.08
)

// conflictReasons is the fixed pool of internal dispute causes.
var conflictReasons = []string{
	"trade policy disagreement",
	"burden-sharing dispute",
	"border incident between members",
	"leadership favoritism accusations",
	"divergent sanctions stance",
	"resource allocation quarrel",
}

// pressureTypes is the fixed pool of outside pressure forms.
var pressureTypes = []string{
	"economic sanctions threat",
	"military posturing",
	"diplomatic isolation campaign",
	"trade route interference",
	"propaganda offensive",
}

// Generator rolls natural events for coalitions. Each active coalition gets
// two independent Bernoulli trials per turn, drawn from the single run
// stream so sequences replay under the same seed.
type Generator struct {
	Rng *entropy.Source
}

// ConflictProbability returns the internal conflict trigger probability for
// a coalition with the given cohesion and membership size.
func ConflictProbability(cohesion float64, memberCount int) float64 {
	p := conflictBaseProb
	if cohesion < lowCohesionThreshold {
		p += (lowCohesionThreshold - cohesion) * lowCohesionFactor
	}
	if memberCount > largeMembershipSize {
		p += float64(memberCount-largeMembershipSize) * perExtraMemberProb
	}
	return p
}

// PressureProbability returns the external pressure trigger probability for
// a coalition purpose.
func PressureProbability(purpose coalition.Purpose) float64 {
	p := pressureBaseProb
	if purpose == coalition.PurposeDefense || purpose == coalition.PurposeCounter {
		p += pressureMilitaryProb
	}
	return p
}

// Roll runs both trials against one coalition, mutating its cohesion on
// trigger, and returns the resulting events for consequence handling.
// outsiders lists non-member countries eligible as pressure sources, in a
// fixed deterministic order.
func (g *Generator) Roll(c *coalition.Coalition, outsiders []string, turn int) []diplomacy.Event {
	var out []diplomacy.Event

	if ev, ok := g.rollInternalConflict(c, turn); ok {
		out = append(out, ev)
	}
	if ev, ok := g.rollExternalPressure(c, outsiders, turn); ok {
		out = append(out, ev)
	}
	return out
}

func (g *Generator) rollInternalConflict(c *coalition.Coalition, turn int) (diplomacy.Event, bool) {
	if c.MemberCount() < 2 {
		return diplomacy.Event{}, false
	}
	if g.Rng.Float() >= ConflictProbability(c.Cohesion, c.MemberCount()) {
		return diplomacy.Event{}, false
	}

	i, j := g.Rng.PickPair(c.MemberCount())
	severity := 1 - g.Rng.Float() // uniform in (0, 1]
	c.UpdateCohesion(-conflictCohesionScale * severity)

	reason := entropy.Pick(g.Rng, conflictReasons)
	c.RecordAction("internal_conflict", reason, turn)

	return diplomacy.Event{
		Type:          diplomacy.EventInternalConflict,
		CoalitionID:   c.ID,
		CoalitionName: c.Name,
		Members:       append([]string(nil), c.Members...),
		Subject:       c.Members[i],
		Other:         c.Members[j],
		Detail:        reason,
		Severity:      severity,
		Turn:          turn,
	}, true
}

func (g *Generator) rollExternalPressure(c *coalition.Coalition, outsiders []string, turn int) (diplomacy.Event, bool) {
	if len(outsiders) == 0 {
		return diplomacy.Event{}, false
	}
	if g.Rng.Float() >= PressureProbability(c.Purpose) {
		return diplomacy.Event{}, false
	}

	source := entropy.Pick(g.Rng, outsiders)
	pressure := entropy.Pick(g.Rng, pressureTypes)

	response := c.Cohesion * g.Rng.Range(0.7, 1.3)
	if response < 0 {
		response = 0
	}
	if response > 1 {
		response = 1
	}

	outcome := "held firm"
	switch {
	case response > responseStrengthened:
		c.UpdateCohesion(strengthenedCohesionGain)
		outcome = "strengthened"
	case response < responseWeakened:
		c.UpdateCohesion(-weakenedCohesionLoss)
		outcome = "weakened"
	}
	c.RecordAction("external_pressure", pressure+" from "+source+": "+outcome, turn)

	return diplomacy.Event{
		Type:          diplomacy.EventExternalPressure,
		CoalitionID:   c.ID,
		CoalitionName: c.Name,
		Members:       append([]string(nil), c.Members...),
		Other:         source,
		Detail:        pressure,
		Severity:      1 - response,
		Turn:          turn,
	}, true
}
