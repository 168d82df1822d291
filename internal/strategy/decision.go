// Package strategy implements the per-country coalition decision engine:
// scoring join, leave, formation, and leadership opportunities against trait
// profiles and picking at most one action per country per turn.
package strategy

import (
	"github.com/talgya/statecraft/internal/coalition"
)

// Action is the kind of move a country decided on for the turn.
type Action uint8

const (
	ActionNone Action = iota
	ActionFormCoalition
	ActionJoinCoalition
	ActionLeaveCoalition
	ActionChallengeLeadership
	ActionProposeCoalitionAction
)

// actionNames maps actions to wire names.
var actionNames = map[Action]string{
	ActionNone:                   "none",
	ActionFormCoalition:          "form_coalition",
	ActionJoinCoalition:          "join_coalition",
	ActionLeaveCoalition:         "leave_coalition",
	ActionChallengeLeadership:    "challenge_leadership",
	ActionProposeCoalitionAction: "propose_coalition_action",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// actionPriority breaks score ties deterministically:
// form > challenge > join > propose_action > leave > none.
var actionPriority = map[Action]int{
	ActionFormCoalition:          5,
	ActionChallengeLeadership:    4,
	ActionJoinCoalition:          3,
	ActionProposeCoalitionAction: 2,
	ActionLeaveCoalition:         1,
	ActionNone:                   0,
}

// Decision is a country's chosen move for one turn, with the action-specific
// payload the orchestrator needs to apply it.
type Decision struct {
	Country string  `json:"country"`
	Action  Action  `json:"action"`
	Score   float64 `json:"score"`

	// join / leave / challenge / propose_coalition_action target.
	CoalitionID string `json:"coalition_id,omitempty"`

	// form_coalition payload.
	Purpose    coalition.Purpose `json:"purpose,omitempty"`
	TargetID   string            `json:"target_id,omitempty"` // counter purpose
	Candidates []string          `json:"candidates,omitempty"`
	Name       string            `json:"name,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// beats reports whether d should replace cur as the selected decision:
// strictly higher score wins, equal scores fall back to action priority.
func (d Decision) beats(cur Decision) bool {
	if d.Score != cur.Score {
		return d.Score > cur.Score
	}
	return actionPriority[d.Action] > actionPriority[cur.Action]
}

// Outcome records what applying a decision actually did, for the decision
// history log.
type Outcome struct {
	Country     string `json:"country"`
	Action      Action `json:"action"`
	Succeeded   bool   `json:"succeeded"`
	CoalitionID string `json:"coalition_id,omitempty"`
	ProposalID  string `json:"proposal_id,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Turn        int    `json:"turn"`
}
