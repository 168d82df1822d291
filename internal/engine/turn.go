package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/diplomacy"
	"github.com/talgya/statecraft/internal/strategy"
	"github.com/talgya/statecraft/internal/traits"
)

// Coalition maintenance limits.
const (
	minViableMembers    = 2
	instabilityCohesion = 0.15
)

// AdvanceTurn runs one complete simulation turn. Phases run in a fixed
// order so identical seeds replay identically: proposal resolution, a
// read-only scoring pass, sequential decision application in ascending
// country id order, natural events, coalition maintenance, relation decay,
// and the turn report. A turn either completes fully or not at all; nothing
// here persists partial state.
func (w *World) AdvanceTurn() {
	w.Turn++
	turn := w.Turn

	w.resolveProposals(turn)

	snap := w.Snapshot()
	decisions := w.strategist.EvaluateDecisions(snap)

	actionCounts := make(map[string]int)
	for _, id := range snap.Order() {
		d := decisions[id]
		actionCounts[d.Action.String()]++
		if d.Action == strategy.ActionNone {
			continue
		}
		outcome := w.ApplyDecision(id, d, turn)
		if w.OnOutcome != nil {
			w.OnOutcome(outcome)
		}
		w.EmitEvent(Event{
			Turn:        turn,
			Description: fmt.Sprintf("%s: %s (%v)", id, d.Action, outcome.Succeeded),
			Category:    "decision",
		})
	}

	w.GenerateNaturalEvents(turn)
	w.maintainCoalitions(turn)
	w.Relations.Tick()
	w.updateStats()

	slog.Info("turn report",
		"turn", turn,
		"active_coalitions", w.Stats.ActiveCoalitions,
		"affiliated", w.Stats.Affiliated,
		"mean_cohesion", fmt.Sprintf("%.3f", w.Stats.MeanCohesion),
		"pending_proposals", w.Stats.PendingProposals,
		"relation_low", fmt.Sprintf("%.2f", w.Stats.RelationLow),
		"relation_high", fmt.Sprintf("%.2f", w.Stats.RelationHigh),
		"decisions_form", actionCounts["form_coalition"],
		"decisions_join", actionCounts["join_coalition"],
		"decisions_leave", actionCounts["leave_coalition"],
		"decisions_challenge", actionCounts["challenge_leadership"],
		"decisions_none", actionCounts["none"],
	)
}

// resolveProposals collects pending candidate responses, then resolves every
// due proposal into a coalition or discards it. Resolved proposals are
// dropped from the box; proposals are one-shot.
func (w *World) resolveProposals(turn int) {
	snap := w.Snapshot()
	kept := w.Proposals[:0]

	for _, p := range w.Proposals {
		for _, cand := range p.Candidates {
			if p.Responses[cand] == coalition.ResponsePending {
				p.Respond(cand, w.strategist.RespondToProposal(snap, cand, p))
			}
		}

		if !p.Due(turn) {
			kept = append(kept, p)
			continue
		}

		c, formed := p.Resolve(turn)
		if !formed {
			w.EmitEvent(Event{
				Turn:        turn,
				Description: fmt.Sprintf("proposal for %s lapsed", p.Name),
				Category:    "coalition",
			})
			continue
		}

		w.Coalitions.Add(c)
		w.EmitEvent(Event{
			Turn:        turn,
			Description: fmt.Sprintf("%s formed with %d members, led by %s", c.Name, c.MemberCount(), c.Leader),
			Category:    "coalition",
		})

		// Founders warm toward each other the way a fresh joiner would.
		for _, m := range c.Members {
			if m == c.Leader {
				continue
			}
			w.ApplyConsequence(diplomacy.Event{
				Type:          diplomacy.EventMemberJoined,
				CoalitionID:   c.ID,
				CoalitionName: c.Name,
				Members:       c.Members,
				Subject:       m,
				Turn:          turn,
			})
		}
	}
	w.Proposals = kept
}

// EvaluateDecisions runs the read-only scoring pass for every country.
func (w *World) EvaluateDecisions() map[string]strategy.Decision {
	return w.strategist.EvaluateDecisions(w.Snapshot())
}

// ApplyDecision mutates the coalition registry according to one country's
// decision and returns what happened for recording. Invalid operations
// (joining twice, leaving a coalition the country is not in) fail softly.
func (w *World) ApplyDecision(countryID string, d strategy.Decision, turn int) strategy.Outcome {
	out := strategy.Outcome{Country: countryID, Action: d.Action, Turn: turn}

	switch d.Action {
	case strategy.ActionFormCoalition:
		p, err := coalition.NewProposal(d.Name, countryID, d.Purpose, d.TargetID, d.Candidates, turn)
		if err != nil {
			out.Detail = err.Error()
			return out
		}
		w.Proposals = append(w.Proposals, p)
		out.Succeeded = true
		out.ProposalID = p.ID
		out.Detail = fmt.Sprintf("proposed %s to %d candidates", p.Name, len(p.Candidates))

	case strategy.ActionJoinCoalition:
		c, ok := w.Coalitions.Get(d.CoalitionID)
		if !ok || !c.AddMember(countryID, turn) {
			out.Detail = "join rejected"
			return out
		}
		out.Succeeded = true
		out.CoalitionID = c.ID
		w.ApplyConsequence(diplomacy.Event{
			Type:          diplomacy.EventMemberJoined,
			CoalitionID:   c.ID,
			CoalitionName: c.Name,
			Members:       c.Members,
			Subject:       countryID,
			Turn:          turn,
		})

	case strategy.ActionLeaveCoalition:
		c, ok := w.Coalitions.Get(d.CoalitionID)
		if !ok {
			out.Detail = "unknown coalition"
			return out
		}
		remaining := remainingMembers(c, countryID)
		if !c.RemoveMember(countryID, turn) {
			out.Detail = "not a member"
			return out
		}
		out.Succeeded = true
		out.CoalitionID = c.ID
		w.ApplyConsequence(diplomacy.Event{
			Type:          diplomacy.EventMemberLeft,
			CoalitionID:   c.ID,
			CoalitionName: c.Name,
			Members:       remaining,
			Subject:       countryID,
			Turn:          turn,
		})

	case strategy.ActionChallengeLeadership:
		return w.applyChallenge(countryID, d, turn)

	case strategy.ActionProposeCoalitionAction:
		c, ok := w.Coalitions.Get(d.CoalitionID)
		if !ok || c.Leader != countryID {
			out.Detail = "not the leader"
			return out
		}
		c.RecordAction("joint_initiative", d.Reason, turn)
		c.UpdateCohesion(0.02)
		out.Succeeded = true
		out.CoalitionID = c.ID
		out.Detail = d.Reason
	}

	return out
}

// applyChallenge resolves a leadership contest deterministically: the
// challenger wins when its GDP share of the coalition exceeds the sitting
// leader's. Either way the contest costs cohesion.
func (w *World) applyChallenge(countryID string, d strategy.Decision, turn int) strategy.Outcome {
	out := strategy.Outcome{Country: countryID, Action: d.Action, Turn: turn}

	c, ok := w.Coalitions.Get(d.CoalitionID)
	if !ok || !c.HasMember(countryID) || c.Leader == countryID {
		out.Detail = "challenge rejected"
		return out
	}
	out.CoalitionID = c.ID

	total := 0.0
	for _, m := range c.Members {
		total += w.GDPOf(m)
	}
	if total <= 0 {
		out.Detail = "no influence basis"
		return out
	}
	challengerShare := w.GDPOf(countryID) / total
	leaderShare := w.GDPOf(c.Leader) / total
	oldLeader := c.Leader

	c.UpdateCohesion(-0.05)

	if challengerShare > leaderShare {
		c.SetLeader(countryID, turn)
		out.Succeeded = true
		out.Detail = fmt.Sprintf("took leadership from %s", oldLeader)
		w.ApplyConsequence(diplomacy.Event{
			Type:          diplomacy.EventLeadershipChange,
			CoalitionID:   c.ID,
			CoalitionName: c.Name,
			Members:       c.Members,
			Subject:       countryID,
			Other:         oldLeader,
			Turn:          turn,
		})
		return out
	}

	severity := traits.Clamp((leaderShare-challengerShare)*2 + 0.3)
	out.Detail = fmt.Sprintf("failed challenge against %s", oldLeader)
	w.ApplyConsequence(diplomacy.Event{
		Type:          diplomacy.EventLeadershipChange,
		CoalitionID:   c.ID,
		CoalitionName: c.Name,
		Members:       c.Members,
		Subject:       countryID,
		Other:         oldLeader,
		Contested:     true,
		Severity:      severity,
		Turn:          turn,
	})
	return out
}

// GenerateNaturalEvents rolls conflict and pressure trials for every active
// coalition in ascending id order, forwarding triggered events to the
// consequence calculator. Returns the triggered events for narration.
func (w *World) GenerateNaturalEvents(turn int) []diplomacy.Event {
	var all []diplomacy.Event
	for _, c := range w.Coalitions.Active() {
		before := c.Cohesion
		evs := w.natural.Roll(c, w.outsiders(c), turn)
		for _, ev := range evs {
			w.ApplyConsequence(ev)
			w.EmitEvent(Event{
				Turn:        turn,
				Description: fmt.Sprintf("%s: %s (%s)", c.Name, ev.Type, ev.Detail),
				Category:    "conflict",
			})
		}
		// A large net cohesion swing is itself a diplomatic event; small
		// fluctuations are absorbed by the calculator's hysteresis.
		if delta := c.Cohesion - before; delta != 0 {
			w.ApplyConsequence(diplomacy.Event{
				Type:          diplomacy.EventCohesionChange,
				CoalitionID:   c.ID,
				CoalitionName: c.Name,
				Members:       c.Members,
				CohesionDelta: delta,
				Turn:          turn,
			})
		}
		all = append(all, evs...)
	}
	return all
}

// ApplyConsequence maps one coalition event to relation effects, applies
// them to the ledger, and records bilateral incidents for cooperation
// scoring.
func (w *World) ApplyConsequence(ev diplomacy.Event) {
	for _, eff := range w.calc.Consequences(ev) {
		w.Relations.ApplyEffect(eff)
	}
	w.recordIncidents(ev)
}

// recordIncidents writes free-text incident entries whose descriptions name
// the counterpart, feeding the cooperation potential incident modifier.
func (w *World) recordIncidents(ev diplomacy.Event) {
	nameOf := func(id string) string {
		if c, ok := w.CountryIndex[id]; ok {
			return c.Name
		}
		return id
	}
	add := func(id string, kind traits.IncidentKind, desc string) {
		if c, ok := w.CountryIndex[id]; ok {
			c.RecordIncident(traits.Incident{Turn: ev.Turn, Kind: kind, Description: desc})
		}
	}

	switch ev.Type {
	case diplomacy.EventMemberJoined:
		if c, ok := w.Coalitions.Get(ev.CoalitionID); ok && c.Leader != ev.Subject {
			add(ev.Subject, traits.IncidentCooperative,
				fmt.Sprintf("joined %s under %s", ev.CoalitionName, nameOf(c.Leader)))
			add(c.Leader, traits.IncidentCooperative,
				fmt.Sprintf("welcomed %s into %s", nameOf(ev.Subject), ev.CoalitionName))
		}
	case diplomacy.EventInternalConflict:
		add(ev.Subject, traits.IncidentAggressive,
			fmt.Sprintf("clashed with %s over %s", nameOf(ev.Other), ev.Detail))
		add(ev.Other, traits.IncidentAggressive,
			fmt.Sprintf("clashed with %s over %s", nameOf(ev.Subject), ev.Detail))
	case diplomacy.EventExternalPressure:
		for _, m := range ev.Members {
			add(m, traits.IncidentAggressive,
				fmt.Sprintf("faced %s from %s", ev.Detail, nameOf(ev.Other)))
		}
	case diplomacy.EventLeadershipChange:
		if ev.Contested {
			add(ev.Subject, traits.IncidentAggressive,
				fmt.Sprintf("was rebuffed challenging %s in %s", nameOf(ev.Other), ev.CoalitionName))
			add(ev.Other, traits.IncidentAggressive,
				fmt.Sprintf("fought off a challenge from %s", nameOf(ev.Subject)))
		}
	}
}

// maintainCoalitions dissolves coalitions that fell below viability:
// insufficient members (consensual wind-down) or cohesion collapse (forced).
func (w *World) maintainCoalitions(turn int) {
	for _, c := range w.Coalitions.Active() {
		switch {
		case c.MemberCount() < minViableMembers:
			members := append([]string(nil), c.Members...)
			c.Dissolve(turn, "insufficient members")
			w.EmitEvent(Event{Turn: turn, Description: c.Name + " wound down", Category: "coalition"})
			w.ApplyConsequence(diplomacy.Event{
				Type:          diplomacy.EventDissolution,
				CoalitionID:   c.ID,
				CoalitionName: c.Name,
				Members:       members,
				Consensual:    true,
				Turn:          turn,
			})
		case c.Cohesion < instabilityCohesion:
			members := append([]string(nil), c.Members...)
			severity := traits.Clamp(1 - c.Cohesion/instabilityCohesion + 0.3)
			c.Dissolve(turn, "cohesion collapse")
			w.EmitEvent(Event{Turn: turn, Description: c.Name + " collapsed", Category: "coalition"})
			w.ApplyConsequence(diplomacy.Event{
				Type:          diplomacy.EventDissolution,
				CoalitionID:   c.ID,
				CoalitionName: c.Name,
				Members:       members,
				Severity:      severity,
				Turn:          turn,
			})
		}
	}
}

// remainingMembers returns the member list without one country.
func remainingMembers(c *coalition.Coalition, except string) []string {
	var out []string
	for _, m := range c.Members {
		if m != except {
			out = append(out, m)
		}
	}
	return out
}
