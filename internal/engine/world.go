// Package engine owns the world state aggregate and the turn orchestrator:
// it sequences decision evaluation, decision application, natural events,
// and consequence propagation each turn.
package engine

import (
	"golang.org/x/exp/slices"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/diplomacy"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/events"
	"github.com/talgya/statecraft/internal/strategy"
)

// Event is a notable occurrence in the world log.
type Event struct {
	Turn        int    `json:"turn" db:"turn"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "coalition", "diplomacy", "conflict", "decision"
}

// Event log is trimmed to this many entries to prevent unbounded growth.
const maxEventLog = 1000

// WorldStats tracks aggregate state per turn.
type WorldStats struct {
	ActiveCoalitions int     `json:"active_coalitions"`
	TotalCountries   int     `json:"total_countries"`
	Affiliated       int     `json:"affiliated"`
	MeanCohesion     float64 `json:"mean_cohesion"`
	PendingProposals int     `json:"pending_proposals"`
	RelationLow      float64 `json:"relation_low"`
	RelationHigh     float64 `json:"relation_high"`
	TotalGDP         float64 `json:"total_gdp"`
}

// World is the single aggregate owning all mutable simulation state. It is
// passed explicitly to every core operation; there is no ambient registry.
type World struct {
	Countries    []*country.Country
	CountryIndex map[string]*country.Country
	Coalitions   *coalition.Registry
	Relations    *diplomacy.Ledger
	Proposals    []*coalition.Proposal
	Rng          *entropy.Source
	Turn         int
	Events       []Event
	Stats        WorldStats

	// OnOutcome, when set, receives every applied decision outcome.
	// Used by callers that keep a durable decision history.
	OnOutcome func(strategy.Outcome)

	strategist strategy.Engine
	calc       diplomacy.Calculator
	natural    *events.Generator
}

// NewWorld assembles a world from a country roster and a run seed.
func NewWorld(countries []*country.Country, seed int64) *World {
	index := make(map[string]*country.Country, len(countries))
	for _, c := range countries {
		index[c.ID] = c
	}
	rng := entropy.NewSource(seed)
	w := &World{
		Countries:    countries,
		CountryIndex: index,
		Coalitions:   coalition.NewRegistry(),
		Relations:    diplomacy.NewLedger(),
		Rng:          rng,
		natural:      &events.Generator{Rng: rng},
	}
	w.updateStats()
	return w
}

// CountryIDs returns every country id in ascending order.
func (w *World) CountryIDs() []string {
	ids := make([]string, 0, len(w.Countries))
	for _, c := range w.Countries {
		ids = append(ids, c.ID)
	}
	slices.Sort(ids)
	return ids
}

// GDPOf returns a country's GDP, 0 for unknown ids.
func (w *World) GDPOf(id string) float64 {
	if c, ok := w.CountryIndex[id]; ok {
		return c.GDP
	}
	return 0
}

// EmitEvent appends to the world event log, trimming old entries.
func (w *World) EmitEvent(e Event) {
	w.Events = append(w.Events, e)
	if len(w.Events) > maxEventLog {
		w.Events = w.Events[len(w.Events)-maxEventLog:]
	}
}

// Snapshot builds the read-only scoring view for the strategy engine.
func (w *World) Snapshot() *strategy.Snapshot {
	return strategy.NewSnapshot(w.Countries, w.Coalitions)
}

// outsiders returns the countries outside a coalition, ascending by id.
func (w *World) outsiders(c *coalition.Coalition) []string {
	var out []string
	for _, id := range w.CountryIDs() {
		if !c.HasMember(id) {
			out = append(out, id)
		}
	}
	return out
}

func (w *World) updateStats() {
	active := w.Coalitions.Active()
	affiliated := make(map[string]bool)
	cohesion := 0.0
	for _, c := range active {
		cohesion += c.Cohesion
		for _, m := range c.Members {
			affiliated[m] = true
		}
	}

	totalGDP := 0.0
	for _, c := range w.Countries {
		totalGDP += c.GDP
	}

	pending := 0
	for _, p := range w.Proposals {
		if !p.Resolved() {
			pending++
		}
	}

	lo, hi := w.Relations.Extremes()
	w.Stats = WorldStats{
		ActiveCoalitions: len(active),
		TotalCountries:   len(w.Countries),
		Affiliated:       len(affiliated),
		PendingProposals: pending,
		RelationLow:      lo,
		RelationHigh:     hi,
		TotalGDP:         totalGDP,
	}
	if len(active) > 0 {
		w.Stats.MeanCohesion = cohesion / float64(len(active))
	}
}
