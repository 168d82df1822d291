package diplomacy

// EventType classifies a coalition event for consequence calculation.
type EventType string

const (
	EventMemberJoined     EventType = "member_joined"
	EventMemberLeft       EventType = "member_left"
	EventLeadershipChange EventType = "leadership_change"
	EventDissolution      EventType = "dissolution"
	EventCohesionChange   EventType = "cohesion_change"
	EventInternalConflict EventType = "internal_conflict"
	EventExternalPressure EventType = "external_pressure"
)

// Cohesion changes below this magnitude are absorbed without diplomatic
// effect, so routine fluctuation doesn't churn relations.
const CohesionHysteresis = 0.15

// Event is a structured coalition occurrence handed to the calculator.
type Event struct {
	Type          EventType `json:"type"`
	CoalitionID   string    `json:"coalition_id"`
	CoalitionName string    `json:"coalition_name"`
	Members       []string  `json:"members"` // membership at event time
	Subject       string    `json:"subject,omitempty"`
	Other         string    `json:"other,omitempty"`
	Detail        string    `json:"detail,omitempty"` // conflict reason, pressure type, etc.
	Severity      float64   `json:"severity,omitempty"` // [0, 1], adversarial events
	CohesionDelta float64   `json:"cohesion_delta,omitempty"`
	Contested     bool      `json:"contested,omitempty"`  // failed leadership challenge
	Consensual    bool      `json:"consensual,omitempty"` // dissolution by consensus
	Turn          int       `json:"turn"`
}

// Effect is one bounded bilateral relation adjustment with its decay horizon.
type Effect struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Delta      float64 `json:"delta"`
	DecayTurns int     `json:"decay_turns"`
}

// Calculator maps coalition events to relation effects. Pure: it never
// mutates the ledger itself, the caller applies the returned effects.
type Calculator struct{}

// Consequences returns the bilateral effects of an event. Cooperative events
// yield small positive deltas (at most +0.1 per pair); adversarial events
// yield negative deltas scaled by the event's severity.
func (Calculator) Consequences(ev Event) []Effect {
	switch ev.Type {
	case EventMemberJoined:
		// The joiner warms toward every sitting member.
		return pairwiseWith(ev.Members, ev.Subject, 0.05, 5)

	case EventMemberLeft:
		// Departure leaves mild resentment among those who stayed.
		return pairwiseWith(ev.Members, ev.Subject, -0.05, 6)

	case EventLeadershipChange:
		if ev.Contested {
			// Failed challenge: challenger vs leader sharply, challenger vs
			// the rest mildly.
			sev := clampSeverity(ev.Severity)
			effects := []Effect{{A: ev.Subject, B: ev.Other, Delta: -0.3 * sev, DecayTurns: 8}}
			for _, m := range ev.Members {
				if m == ev.Subject || m == ev.Other {
					continue
				}
				effects = append(effects, Effect{A: ev.Subject, B: m, Delta: -0.1 * sev, DecayTurns: 4})
			}
			return effects
		}
		// Orderly transfer reassures the membership.
		return allPairs(ev.Members, 0.03, 4)

	case EventDissolution:
		if ev.Consensual {
			return allPairs(ev.Members, 0.02, 3)
		}
		sev := clampSeverity(ev.Severity)
		return allPairs(ev.Members, -0.2*sev, 8)

	case EventCohesionChange:
		if ev.CohesionDelta > -CohesionHysteresis && ev.CohesionDelta < CohesionHysteresis {
			return nil
		}
		if ev.CohesionDelta > 0 {
			return allPairs(ev.Members, 0.03, 4)
		}
		sev := -ev.CohesionDelta
		if sev > 1 {
			sev = 1
		}
		return allPairs(ev.Members, -0.1*sev, 5)

	case EventInternalConflict:
		sev := clampSeverity(ev.Severity)
		effects := []Effect{{A: ev.Subject, B: ev.Other, Delta: -0.3 * sev, DecayTurns: 8}}
		for _, m := range ev.Members {
			if m == ev.Subject || m == ev.Other {
				continue
			}
			effects = append(effects,
				Effect{A: ev.Subject, B: m, Delta: -0.05 * sev, DecayTurns: 4},
				Effect{A: ev.Other, B: m, Delta: -0.05 * sev, DecayTurns: 4},
			)
		}
		return effects

	case EventExternalPressure:
		// Members close ranks against the outside source.
		sev := clampSeverity(ev.Severity)
		return pairwiseWith(ev.Members, ev.Other, -0.1*sev, 6)

	default:
		return nil
	}
}

// pairwiseWith pairs one country against every listed member except itself.
func pairwiseWith(members []string, country string, delta float64, decay int) []Effect {
	if country == "" {
		return nil
	}
	var out []Effect
	for _, m := range members {
		if m == country {
			continue
		}
		out = append(out, Effect{A: country, B: m, Delta: delta, DecayTurns: decay})
	}
	return out
}

// allPairs applies the same delta to every member pair.
func allPairs(members []string, delta float64, decay int) []Effect {
	var out []Effect
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			out = append(out, Effect{A: members[i], B: members[j], Delta: delta, DecayTurns: decay})
		}
	}
	return out
}

func clampSeverity(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
