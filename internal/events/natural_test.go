package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/diplomacy"
	"github.com/talgya/statecraft/internal/entropy"
)

func TestConflictProbability(t *testing.T) {
	// Healthy, small coalition sits at the base rate.
	assert.InDelta(t, 0.10, ConflictProbability(0.7, 3), 1e-9)

	// Low cohesion and extra members each add pressure.
	assert.InDelta(t, 0.172, ConflictProbability(0.3, 6), 1e-9)

	// Only the shortfall below the threshold counts.
	assert.InDelta(t, 0.10, ConflictProbability(0.4, 5), 1e-9)
}

func TestPressureProbability(t *testing.T) {
	assert.InDelta(t, 0.07, PressureProbability(coalition.PurposeTrade), 1e-9)
	assert.InDelta(t, 0.07, PressureProbability(coalition.PurposeRegional), 1e-9)
	assert.InDelta(t, 0.15, PressureProbability(coalition.PurposeDefense), 1e-9)
	assert.InDelta(t, 0.15, PressureProbability(coalition.PurposeCounter), 1e-9)
}

func testCoalition(cohesion float64) *coalition.Coalition {
	return &coalition.Coalition{
		ID:       "c1",
		Name:     "Test Pact",
		Purpose:  coalition.PurposeDefense,
		Members:  []string{"A", "B", "C", "D"},
		Leader:   "A",
		Cohesion: cohesion,
	}
}

func TestRollIsDeterministicUnderSeed(t *testing.T) {
	run := func() []diplomacy.Event {
		g := &Generator{Rng: entropy.NewSource(99)}
		var all []diplomacy.Event
		for turn := 1; turn <= 60; turn++ {
			c := testCoalition(0.2)
			all = append(all, g.Roll(c, []string{"X", "Y", "Z"}, turn)...)
		}
		return all
	}

	first := run()
	second := run()
	require.NotEmpty(t, first, "low cohesion over 60 turns should trigger something")
	assert.Equal(t, first, second)
}

func TestRollEventInvariants(t *testing.T) {
	g := &Generator{Rng: entropy.NewSource(5)}

	for turn := 1; turn <= 80; turn++ {
		c := testCoalition(0.15)
		for _, ev := range g.Roll(c, []string{"X", "Y"}, turn) {
			assert.Equal(t, "c1", ev.CoalitionID)
			assert.Equal(t, turn, ev.Turn)
			assert.Greater(t, ev.Severity, 0.0)
			assert.LessOrEqual(t, ev.Severity, 1.0)

			switch ev.Type {
			case diplomacy.EventInternalConflict:
				assert.Contains(t, c.Members, ev.Subject)
				assert.Contains(t, c.Members, ev.Other)
				assert.NotEqual(t, ev.Subject, ev.Other)
				assert.Contains(t, conflictReasons, ev.Detail)
			case diplomacy.EventExternalPressure:
				assert.Contains(t, []string{"X", "Y"}, ev.Other)
				assert.Contains(t, pressureTypes, ev.Detail)
			default:
				t.Fatalf("unexpected event type %s", ev.Type)
			}
		}
		assert.GreaterOrEqual(t, c.Cohesion, 0.0)
		assert.LessOrEqual(t, c.Cohesion, 1.0)
	}
}

func TestNoConflictBelowTwoMembers(t *testing.T) {
	g := &Generator{Rng: entropy.NewSource(1)}
	c := &coalition.Coalition{
		ID:       "solo",
		Members:  []string{"A"},
		Leader:   "A",
		Cohesion: 0.01,
	}

	for turn := 0; turn < 50; turn++ {
		for _, ev := range g.Roll(c, nil, turn) {
			assert.NotEqual(t, diplomacy.EventInternalConflict, ev.Type)
		}
	}
}

func TestNoPressureWithoutOutsiders(t *testing.T) {
	g := &Generator{Rng: entropy.NewSource(2)}

	for turn := 0; turn < 50; turn++ {
		c := testCoalition(0.9)
		for _, ev := range g.Roll(c, nil, turn) {
			assert.NotEqual(t, diplomacy.EventExternalPressure, ev.Type)
		}
	}
}
