package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/strategy"
	"github.com/talgya/statecraft/internal/traits"
)

// testRoster builds a small world of compatible traders plus one neutral
// holdout, enough to get coalitions forming within a few turns.
func testRoster() []*country.Country {
	trader := func(id, name string, gdp float64) *country.Country {
		p := traits.Neutral()
		p.FreeMarketBelief = 0.85
		p.Cooperation = 0.85
		p.Isolationism = 0.15
		return &country.Country{ID: id, Name: name, GDP: gdp, Profile: p}
	}
	return []*country.Country{
		trader("ALD", "Aldora", 900),
		trader("BRE", "Brevia", 700),
		trader("CAR", "Carthis", 500),
		trader("DUN", "Dunmar", 400),
		{ID: "EBS", Name: "Ebsor", GDP: 300, Profile: traits.Neutral()},
	}
}

func TestSameSeedWorldsReplayIdentically(t *testing.T) {
	run := func() *World {
		w := NewWorld(testRoster(), 1234)
		for i := 0; i < 25; i++ {
			w.AdvanceTurn()
		}
		return w
	}

	a, b := run(), run()

	assert.Equal(t, a.Turn, b.Turn)
	assert.Equal(t, a.Events, b.Events)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.Relations.Pairs(), b.Relations.Pairs())
	for _, pair := range a.Relations.Pairs() {
		assert.Equal(t, a.Relations.Relation(pair.A, pair.B), b.Relations.Relation(pair.A, pair.B))
	}

	ca, cb := a.Coalitions.All(), b.Coalitions.All()
	require.Equal(t, len(ca), len(cb))
	for i := range ca {
		assert.Equal(t, ca[i].ID, cb[i].ID)
		assert.Equal(t, ca[i].Members, cb[i].Members)
		assert.Equal(t, ca[i].Leader, cb[i].Leader)
		assert.Equal(t, ca[i].Cohesion, cb[i].Cohesion)
		assert.Equal(t, ca[i].History, cb[i].History)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	run := func(seed int64) *World {
		w := NewWorld(testRoster(), seed)
		for i := 0; i < 25; i++ {
			w.AdvanceTurn()
		}
		return w
	}

	a, b := run(1), run(2)
	assert.NotEqual(t, a.Events, b.Events, "different seeds should produce different histories")
}

func TestProposalLifecycleFormsCoalition(t *testing.T) {
	w := NewWorld(testRoster(), 7)

	// Turn 1: compatible unaffiliated traders file formation proposals.
	w.AdvanceTurn()
	require.NotEmpty(t, w.Proposals, "traders should propose a bloc on the first turn")
	assert.Equal(t, 0, len(w.Coalitions.Active()))

	// Turn 2: candidates respond and due proposals resolve.
	w.AdvanceTurn()
	active := w.Coalitions.Active()
	require.NotEmpty(t, active, "proposals resolve the turn after they are made")

	c := active[0]
	assert.GreaterOrEqual(t, c.MemberCount(), 2)
	assert.True(t, c.HasMember(c.Leader))
	assert.Equal(t, 2, c.FormationTurn)
}

func TestApplyDecisionJoin(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Aldora Trade Compact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"ALD", "BRE"},
		Leader:   "ALD",
		Cohesion: 0.7,
	}
	w.Coalitions.Add(c)

	out := w.ApplyDecision("CAR", strategy.Decision{
		Country:     "CAR",
		Action:      strategy.ActionJoinCoalition,
		CoalitionID: "pact-1",
	}, 5)

	assert.True(t, out.Succeeded)
	assert.True(t, c.HasMember("CAR"))
	assert.Greater(t, w.Relations.Relation("CAR", "ALD"), 0.0, "joining warms relations with sitting members")

	// Joining twice fails softly.
	out = w.ApplyDecision("CAR", strategy.Decision{
		Country:     "CAR",
		Action:      strategy.ActionJoinCoalition,
		CoalitionID: "pact-1",
	}, 6)
	assert.False(t, out.Succeeded)
}

func TestApplyDecisionLeave(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Aldora Trade Compact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"ALD", "BRE", "CAR"},
		Leader:   "ALD",
		Cohesion: 0.7,
	}
	w.Coalitions.Add(c)

	out := w.ApplyDecision("CAR", strategy.Decision{
		Country:     "CAR",
		Action:      strategy.ActionLeaveCoalition,
		CoalitionID: "pact-1",
	}, 5)

	assert.True(t, out.Succeeded)
	assert.False(t, c.HasMember("CAR"))
	assert.InDelta(t, 0.6, c.Cohesion, 1e-9)
	assert.Less(t, w.Relations.Relation("CAR", "ALD"), 0.0, "departure sours the remainers")

	out = w.ApplyDecision("EBS", strategy.Decision{
		Country:     "EBS",
		Action:      strategy.ActionLeaveCoalition,
		CoalitionID: "pact-1",
	}, 6)
	assert.False(t, out.Succeeded, "cannot leave a coalition it never joined")
}

func TestChallengeResolvedByGDPShare(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Brevia Defense Pact",
		Purpose:  coalition.PurposeDefense,
		Members:  []string{"ALD", "BRE", "CAR"},
		Leader:   "BRE", // GDP 700, below ALD's 900
		Cohesion: 0.6,
	}
	w.Coalitions.Add(c)

	out := w.ApplyDecision("ALD", strategy.Decision{
		Country:     "ALD",
		Action:      strategy.ActionChallengeLeadership,
		CoalitionID: "pact-1",
	}, 5)

	assert.True(t, out.Succeeded)
	assert.Equal(t, "ALD", c.Leader)
	assert.InDelta(t, 0.55, c.Cohesion, 1e-9)

	// CAR at GDP 500 cannot take leadership back from ALD.
	out = w.ApplyDecision("CAR", strategy.Decision{
		Country:     "CAR",
		Action:      strategy.ActionChallengeLeadership,
		CoalitionID: "pact-1",
	}, 6)

	assert.False(t, out.Succeeded)
	assert.Equal(t, "ALD", c.Leader)
	assert.Less(t, w.Relations.Relation("CAR", "ALD"), 0.0, "a failed challenge costs the challenger")
}

func TestMaintenanceWindsDownUndersizedCoalition(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Lone Pact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"ALD"},
		Leader:   "ALD",
		Cohesion: 0.9,
	}
	w.Coalitions.Add(c)

	w.maintainCoalitions(4)

	assert.False(t, c.IsActive())
	require.NotNil(t, c.EndTurn)
	assert.Equal(t, 4, *c.EndTurn)
}

func TestMaintenanceCollapsesUnstableCoalition(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Fraying Pact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"ALD", "BRE", "CAR"},
		Leader:   "ALD",
		Cohesion: 0.05,
	}
	w.Coalitions.Add(c)

	w.maintainCoalitions(9)

	assert.False(t, c.IsActive())
	assert.Less(t, w.Relations.Relation("ALD", "BRE"), 0.0, "a forced collapse damages member relations")
}

func TestHealthyCoalitionSurvivesMaintenance(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	c := &coalition.Coalition{
		ID:       "pact-1",
		Name:     "Solid Pact",
		Purpose:  coalition.PurposeTrade,
		Members:  []string{"ALD", "BRE"},
		Leader:   "ALD",
		Cohesion: 0.5,
	}
	w.Coalitions.Add(c)

	w.maintainCoalitions(4)
	assert.True(t, c.IsActive())
}

func TestEventLogIsBounded(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	for i := 0; i < maxEventLog+50; i++ {
		w.EmitEvent(Event{Turn: i, Description: "tick", Category: "decision"})
	}
	assert.Len(t, w.Events, maxEventLog)
	assert.Equal(t, 50, w.Events[0].Turn)
}

func TestStatsTrackMembershipAndCohesion(t *testing.T) {
	w := NewWorld(testRoster(), 3)
	w.Coalitions.Add(&coalition.Coalition{
		ID: "a", Name: "A", Purpose: coalition.PurposeTrade,
		Members: []string{"ALD", "BRE"}, Leader: "ALD", Cohesion: 0.8,
	})
	w.Coalitions.Add(&coalition.Coalition{
		ID: "b", Name: "B", Purpose: coalition.PurposeDefense,
		Members: []string{"BRE", "CAR"}, Leader: "BRE", Cohesion: 0.4,
	})
	w.updateStats()

	assert.Equal(t, 2, w.Stats.ActiveCoalitions)
	assert.Equal(t, 3, w.Stats.Affiliated, "BRE counted once across two memberships")
	assert.Equal(t, 5, w.Stats.TotalCountries)
	assert.InDelta(t, 0.6, w.Stats.MeanCohesion, 1e-9)
	assert.InDelta(t, 2800, w.Stats.TotalGDP, 1e-9)
}

func TestOnOutcomeHookReceivesDecisions(t *testing.T) {
	w := NewWorld(testRoster(), 11)
	var outcomes []strategy.Outcome
	w.OnOutcome = func(o strategy.Outcome) { outcomes = append(outcomes, o) }

	for i := 0; i < 5; i++ {
		w.AdvanceTurn()
	}

	require.NotEmpty(t, outcomes, "compatible traders act within a few turns")
	for _, o := range outcomes {
		assert.NotEqual(t, strategy.ActionNone, o.Action)
		assert.NotEmpty(t, o.Country)
	}
}
