package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/traits"
)

// openTrader leans hard into free trade and cooperation, the profile most
// likely to found and join blocs.
func openTrader() traits.Profile {
	p := traits.Neutral()
	p.FreeMarketBelief = 0.9
	p.Cooperation = 0.9
	p.Isolationism = 0.1
	return p
}

func stateOf(id, name string, gdp float64, p traits.Profile) *country.Country {
	return &country.Country{ID: id, Name: name, GDP: gdp, Profile: p}
}

func TestLoneCountryDecidesNothing(t *testing.T) {
	snap := NewSnapshot([]*country.Country{stateOf("A", "Arden", 500, openTrader())}, coalition.NewRegistry())

	d := Engine{}.EvaluateCountry(snap, "A")
	assert.Equal(t, ActionNone, d.Action)
}

func TestUnknownCountryDecidesNothing(t *testing.T) {
	snap := NewSnapshot(nil, coalition.NewRegistry())
	assert.Equal(t, ActionNone, Engine{}.EvaluateCountry(snap, "ZZZ").Action)
}

func TestFormationAmongCompatibleUnaffiliated(t *testing.T) {
	countries := []*country.Country{
		stateOf("A", "Arden", 500, openTrader()),
		stateOf("B", "Belmar", 400, openTrader()),
		stateOf("C", "Corven", 300, openTrader()),
	}
	snap := NewSnapshot(countries, coalition.NewRegistry())

	d := Engine{}.EvaluateCountry(snap, "A")
	require.Equal(t, ActionFormCoalition, d.Action)
	assert.Equal(t, coalition.PurposeTrade, d.Purpose)
	assert.Equal(t, []string{"B", "C"}, d.Candidates)
	assert.Equal(t, "Arden Trade Compact", d.Name)
	assert.Greater(t, d.Score, 0.5)
}

func TestNoFormationWithoutEnoughPartners(t *testing.T) {
	countries := []*country.Country{
		stateOf("A", "Arden", 500, openTrader()),
		stateOf("B", "Belmar", 400, openTrader()),
	}
	snap := NewSnapshot(countries, coalition.NewRegistry())

	d := Engine{}.EvaluateCountry(snap, "A")
	assert.Equal(t, ActionNone, d.Action)
}

func TestOutsiderJoinsAttractiveCoalition(t *testing.T) {
	countries := []*country.Country{
		stateOf("L", "Loria", 500, openTrader()),
		stateOf("M", "Moren", 400, openTrader()),
		stateOf("X", "Xanti", 300, openTrader()),
	}
	reg := coalition.NewRegistry()
	reg.Add(&coalition.Coalition{
		ID:       "pact-1",
		Name:     "Loria Trade Compact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"L", "M"},
		Leader:   "L",
		Cohesion: 0.7,
	})
	snap := NewSnapshot(countries, reg)

	d := Engine{}.EvaluateCountry(snap, "X")
	require.Equal(t, ActionJoinCoalition, d.Action)
	assert.Equal(t, "pact-1", d.CoalitionID)
	assert.Greater(t, d.Score, 0.55)
}

func TestDominantMemberChallengesLeadership(t *testing.T) {
	ambitious := openTrader()
	ambitious.RegionalLeadershipRole = 0.9
	ambitious.Pride = 0.9

	countries := []*country.Country{
		stateOf("L", "Loria", 100, openTrader()),
		stateOf("M", "Moren", 900, ambitious),
	}
	reg := coalition.NewRegistry()
	reg.Add(&coalition.Coalition{
		ID:       "pact-1",
		Name:     "Loria Trade Compact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"L", "M"},
		Leader:   "L",
		Cohesion: 0.5,
	})
	snap := NewSnapshot(countries, reg)

	d := Engine{}.EvaluateCountry(snap, "M")
	require.Equal(t, ActionChallengeLeadership, d.Action)
	assert.Equal(t, "pact-1", d.CoalitionID)
}

func TestLeaderOfCohesiveBlocPushesInitiative(t *testing.T) {
	countries := []*country.Country{
		stateOf("L", "Loria", 500, openTrader()),
		stateOf("M", "Moren", 400, openTrader()),
	}
	reg := coalition.NewRegistry()
	reg.Add(&coalition.Coalition{
		ID:       "pact-1",
		Name:     "Loria Trade Compact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"L", "M"},
		Leader:   "L",
		Cohesion: 0.8,
	})
	snap := NewSnapshot(countries, reg)

	d := Engine{}.EvaluateCountry(snap, "L")
	assert.Equal(t, ActionProposeCoalitionAction, d.Action)
	assert.Equal(t, "pact-1", d.CoalitionID)
}

func TestRespondToProposalUsesCooperationThreshold(t *testing.T) {
	friendly := stateOf("A", "Arden", 500, openTrader())
	likeMinded := stateOf("B", "Belmar", 400, openTrader())

	hermit := traits.Neutral()
	hermit.Cooperation = 0.0
	hermit.Isolationism = 1.0
	hermit.FreeMarketBelief = 0.0
	hermit.Protectionism = 1.0
	hermit.StateEnterpriseDominance = 1.0
	hermit.SelfSufficiency = 1.0
	hermit.ResourceNationalism = 1.0
	hermit.Aggression = 1.0
	hermit.Pragmatism = 0.0
	hermit.GeopoliticalAlignment = 0.0
	hermit.RegionalFocus = 0.0
	hermit.RegionalLeadershipRole = 0.0
	hermit.TechnologyPolicy = 1.0
	hermit.EnvironmentalPolicy = 0.0
	recluse := stateOf("C", "Corven", 300, hermit)

	snap := NewSnapshot([]*country.Country{friendly, likeMinded, recluse}, coalition.NewRegistry())
	p, err := coalition.NewProposal("Arden Trade Compact", "A", coalition.PurposeTrade, "", []string{"B", "C"}, 1)
	require.NoError(t, err)

	assert.True(t, Engine{}.RespondToProposal(snap, "B", p))
	assert.False(t, Engine{}.RespondToProposal(snap, "C", p))
	assert.False(t, Engine{}.RespondToProposal(snap, "nope", p))
}

func TestEvaluateDecisionsIsDeterministic(t *testing.T) {
	build := func() *Snapshot {
		countries := []*country.Country{
			stateOf("A", "Arden", 500, openTrader()),
			stateOf("B", "Belmar", 400, openTrader()),
			stateOf("C", "Corven", 300, openTrader()),
			stateOf("D", "Doria", 200, traits.Neutral()),
		}
		reg := coalition.NewRegistry()
		reg.Add(&coalition.Coalition{
			ID:       "pact-1",
			Name:     "Doria Regional Forum",
			Purpose:  coalition.PurposeRegional,
			Members:  []string{"C", "D"},
			Leader:   "D",
			Cohesion: 0.6,
		})
		return NewSnapshot(countries, reg)
	}

	first := Engine{}.EvaluateDecisions(build())
	second := Engine{}.EvaluateDecisions(build())
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestDecisionTieBreaksByPriority(t *testing.T) {
	form := Decision{Action: ActionFormCoalition, Score: 0.6}
	join := Decision{Action: ActionJoinCoalition, Score: 0.6}
	leave := Decision{Action: ActionLeaveCoalition, Score: 0.7}

	assert.True(t, form.beats(join), "equal scores fall back to action priority")
	assert.False(t, join.beats(form))
	assert.True(t, leave.beats(form), "higher score wins outright")
}
