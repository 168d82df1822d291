// Package diplomacy translates coalition events into bounded, decaying
// bilateral relation adjustments and keeps the relation ledger.
package diplomacy

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Unscheduled relations drift toward neutral by this fraction per turn, so
// old grudges and alliances fade even without events.
const driftRate = 0.02

// PairKey identifies an unordered country pair.
type PairKey struct {
	A, B string
}

// Pair returns the canonical key for two countries (lexicographic order).
func Pair(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// scheduledDelta tracks an applied relation delta that tapers linearly back
// to zero over its remaining turns.
type scheduledDelta struct {
	pair      PairKey
	perTurn   float64 // amount removed each turn
	remaining int
}

// Ledger stores bilateral relation levels in [-1, +1] and the scheduled
// decay of event-driven deltas.
type Ledger struct {
	relations map[PairKey]float64
	scheduled []scheduledDelta
}

// NewLedger creates an empty ledger; unknown pairs read as 0 (neutral).
func NewLedger() *Ledger {
	return &Ledger{relations: make(map[PairKey]float64)}
}

// Relation returns the current level between two countries.
func (l *Ledger) Relation(a, b string) float64 {
	return l.relations[Pair(a, b)]
}

// Set overwrites a pair's level directly, clamped. Used when seeding a world
// or restoring saved state.
func (l *Ledger) Set(a, b string, level float64) {
	l.relations[Pair(a, b)] = clampRelation(level)
}

// Adjust nudges a pair's level by delta, clamped to [-1, +1], and returns
// the new level.
func (l *Ledger) Adjust(a, b string, delta float64) float64 {
	k := Pair(a, b)
	v := clampRelation(l.relations[k] + delta)
	l.relations[k] = v
	return v
}

// ApplyEffect applies a consequence effect now and schedules its linear
// decay: each of the next DecayTurns turns removes delta/DecayTurns, so the
// contribution reaches zero by expiry.
func (l *Ledger) ApplyEffect(e Effect) {
	l.Adjust(e.A, e.B, e.Delta)
	if e.DecayTurns <= 0 || e.Delta == 0 {
		return
	}
	l.scheduled = append(l.scheduled, scheduledDelta{
		pair:      Pair(e.A, e.B),
		perTurn:   e.Delta / float64(e.DecayTurns),
		remaining: e.DecayTurns,
	})
}

// Tick advances decay by one turn: scheduled deltas taper, and every stored
// relation drifts a small fraction toward neutral.
func (l *Ledger) Tick() {
	kept := l.scheduled[:0]
	for _, s := range l.scheduled {
		l.Adjust(s.pair.A, s.pair.B, -s.perTurn)
		s.remaining--
		if s.remaining > 0 {
			kept = append(kept, s)
		}
	}
	l.scheduled = kept

	for k, v := range l.relations {
		l.relations[k] = v - v*driftRate
	}
}

// PendingDecays returns how many scheduled deltas are still tapering.
func (l *Ledger) PendingDecays() int {
	return len(l.scheduled)
}

// Pairs returns every known pair in deterministic order.
func (l *Ledger) Pairs() []PairKey {
	keys := maps.Keys(l.relations)
	slices.SortFunc(keys, func(x, y PairKey) int {
		if x.A != y.A {
			if x.A < y.A {
				return -1
			}
			return 1
		}
		if x.B < y.B {
			return -1
		}
		if x.B > y.B {
			return 1
		}
		return 0
	})
	return keys
}

// Extremes returns the lowest and highest stored relation levels, or zeros
// when no pairs are known.
func (l *Ledger) Extremes() (lo, hi float64) {
	first := true
	for _, v := range l.relations {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func clampRelation(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
