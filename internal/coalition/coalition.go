// Package coalition provides the coalition entity, formation proposals, and
// the world-level registry that owns them.
package coalition

import (
	"golang.org/x/exp/slices"

	"github.com/talgya/statecraft/internal/entropy"
)

// Purpose is the declared function of a coalition.
type Purpose uint8

const (
	PurposeTrade    Purpose = iota // Trade bloc
	PurposeDefense                 // Defense pact
	PurposeRegional                // Regional grouping
	PurposeCounter                 // Counter-alliance against a target coalition
)

// purposeNames maps Purpose values to their wire names.
var purposeNames = map[Purpose]string{
	PurposeTrade:    "trade",
	PurposeDefense:  "defense",
	PurposeRegional: "regional",
	PurposeCounter:  "counter",
}

// String returns the wire name of the purpose.
func (p Purpose) String() string {
	if n, ok := purposeNames[p]; ok {
		return n
	}
	return "unknown"
}

// ParsePurpose returns the Purpose for a wire name.
func ParsePurpose(s string) (Purpose, bool) {
	for p, n := range purposeNames {
		if n == s {
			return p, true
		}
	}
	return 0, false
}

// HistoryEntry is one append-only lifecycle or action record.
type HistoryEntry struct {
	Turn    int    `json:"turn"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

// Cohesion penalty applied when a member leaves.
const leaveCohesionPenalty = 0.1

// Coalition is a standing group of countries with a declared purpose, one
// designated leader, and a cohesion scalar in [0, 1]. Dissolution is
// terminal: once EndTurn is set it never changes and the coalition never
// reactivates.
type Coalition struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Purpose       Purpose        `json:"purpose"`
	TargetID      string         `json:"target_id,omitempty"` // counter purpose only
	Members       []string       `json:"members"`             // sorted country ids
	Leader        string         `json:"leader"`
	Cohesion      float64        `json:"cohesion"`
	FormationTurn int            `json:"formation_turn"`
	EndTurn       *int           `json:"end_turn,omitempty"` // nil while active
	History       []HistoryEntry `json:"history"`
}

// HasMember reports whether the country is a member.
func (c *Coalition) HasMember(country string) bool {
	return slices.Contains(c.Members, country)
}

// MemberCount returns the current membership size.
func (c *Coalition) MemberCount() int {
	return len(c.Members)
}

// IsActive reports whether the coalition is still operating. Dissolution is
// immediate and terminal, so a dissolved coalition is inactive for every
// turn, including the turn it dissolved on.
func (c *Coalition) IsActive() bool {
	return c.EndTurn == nil
}

// AddMember inserts a country. Returns false if already a member or the
// coalition is dissolved. Joining is cohesion-neutral.
func (c *Coalition) AddMember(country string, turn int) bool {
	if !c.IsActive() || c.HasMember(country) {
		return false
	}
	c.Members = append(c.Members, country)
	slices.Sort(c.Members)
	if c.Leader == "" {
		c.Leader = country
	}
	c.record(turn, "join", country)
	return true
}

// RemoveMember removes a country. Returns false if not a member. Removing
// the leader transfers leadership to the lowest-sorting remaining member.
// Cohesion drops by 0.1. An emptied coalition dissolves immediately.
func (c *Coalition) RemoveMember(country string, turn int) bool {
	idx := slices.Index(c.Members, country)
	if idx < 0 {
		return false
	}
	c.Members = slices.Delete(c.Members, idx, idx+1)
	c.record(turn, "leave", country)

	if len(c.Members) == 0 {
		c.Dissolve(turn, "last member departed")
		return true
	}

	if c.Leader == country {
		// Members are kept sorted, so the successor rule is deterministic.
		c.Leader = c.Members[0]
		c.record(turn, "leadership_change", c.Leader)
	}

	c.UpdateCohesion(-leaveCohesionPenalty)
	return true
}

// SetLeader transfers leadership. Returns false if the candidate is not a
// member.
func (c *Coalition) SetLeader(country string, turn int) bool {
	if !c.HasMember(country) || c.Leader == country {
		return false
	}
	c.Leader = country
	c.record(turn, "leadership_change", country)
	return true
}

// UpdateCohesion adds delta, clamps to [0, 1], and returns the new value.
// All cohesion mutation funnels through here.
func (c *Coalition) UpdateCohesion(delta float64) float64 {
	c.Cohesion += delta
	if c.Cohesion < 0 {
		c.Cohesion = 0
	}
	if c.Cohesion > 1 {
		c.Cohesion = 1
	}
	return c.Cohesion
}

// Dissolve terminates the coalition. Returns false if already dissolved;
// EndTurn is immutable once set.
func (c *Coalition) Dissolve(turn int, reason string) bool {
	if c.EndTurn != nil {
		return false
	}
	t := turn
	c.EndTurn = &t
	c.record(turn, "dissolved", reason)
	return true
}

// Strength sums member GDP contributions (GDP / 1000 each), then scales the
// total once by the cohesion efficiency factor (0.5 + 0.5·cohesion).
func (c *Coalition) Strength(gdpOf func(country string) float64) float64 {
	raw := 0.0
	for _, m := range c.Members {
		raw += gdpOf(m) / 1000.0
	}
	return raw * (0.5 + 0.5*c.Cohesion)
}

// PurposeEffectiveness estimates how well the coalition serves its purpose,
// in [0, 1]. Trade and defense use bounded placeholder bands drawn from the
// run's random stream until a real trade model feeds in; counter coalitions
// compare own strength against the target's.
func (c *Coalition) PurposeEffectiveness(ownStrength, targetStrength float64, rng *entropy.Source) float64 {
	switch c.Purpose {
	case PurposeTrade:
		return rng.Range(0.6, 0.8)
	case PurposeDefense:
		return rng.Range(0.5, 0.8)
	case PurposeCounter:
		if targetStrength > 0 {
			ratio := ownStrength / targetStrength
			if ratio > 1 {
				return 1
			}
			return ratio
		}
		return 0.5
	default:
		return 0.5
	}
}

// RecordAction appends an externally observable action to the history.
func (c *Coalition) RecordAction(actionType, details string, turn int) {
	c.record(turn, actionType, details)
}

func (c *Coalition) record(turn int, entryType, details string) {
	c.History = append(c.History, HistoryEntry{Turn: turn, Type: entryType, Details: details})
}
