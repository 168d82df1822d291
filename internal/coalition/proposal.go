package coalition

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Response is a candidate's answer to a formation proposal.
type Response uint8

const (
	ResponsePending Response = iota
	ResponseAccept
	ResponseDecline
)

// Proposals expire a fixed number of turns after creation.
const ProposalLifetime = 3

// Formation needs at least this many accepting countries, proposer included.
const minFoundingMembers = 2

var (
	ErrTooFewCandidates = errors.New("proposal needs at least 2 candidates")
	ErrUnknownPurpose   = errors.New("unknown coalition purpose")
)

// Proposal is a transient, expiring offer to form a coalition. It resolves
// exactly once: into a Coalition when enough candidates accept, or into
// nothing. Never reused.
type Proposal struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Proposer    string              `json:"proposer"`
	Purpose     Purpose             `json:"purpose"`
	TargetID    string              `json:"target_id,omitempty"`
	Candidates  []string            `json:"candidates"` // excludes the proposer
	Responses   map[string]Response `json:"responses"`
	CreatedTurn int                 `json:"created_turn"`
	ExpiryTurn  int                 `json:"expiry_turn"`

	resolved bool
}

// NewProposal creates a formation proposal. Malformed input (fewer than two
// candidates, unknown purpose) is rejected here so that bad proposals are
// never registered. The id is a name-based UUID over proposer and turn, so
// replays of the same run produce the same ids. A country makes at most one
// proposal per turn, which keeps the name unique.
func NewProposal(name, proposer string, purpose Purpose, targetID string, candidates []string, turn int) (*Proposal, error) {
	if len(candidates) < 2 {
		return nil, ErrTooFewCandidates
	}
	if _, ok := purposeNames[purpose]; !ok {
		return nil, ErrUnknownPurpose
	}

	responses := make(map[string]Response, len(candidates))
	for _, c := range candidates {
		responses[c] = ResponsePending
	}

	return &Proposal{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("proposal/%s/%d", proposer, turn))).String(),
		Name:        name,
		Proposer:    proposer,
		Purpose:     purpose,
		TargetID:    targetID,
		Candidates:  slices.Clone(candidates),
		Responses:   responses,
		CreatedTurn: turn,
		ExpiryTurn:  turn + ProposalLifetime,
	}, nil
}

// Respond records a candidate's answer. Returns false for non-candidates
// and for candidates who already responded.
func (p *Proposal) Respond(country string, accept bool) bool {
	r, ok := p.Responses[country]
	if !ok || r != ResponsePending {
		return false
	}
	if accept {
		p.Responses[country] = ResponseAccept
	} else {
		p.Responses[country] = ResponseDecline
	}
	return true
}

// AllResponded reports whether every candidate has answered.
func (p *Proposal) AllResponded() bool {
	for _, r := range p.Responses {
		if r == ResponsePending {
			return false
		}
	}
	return true
}

// Due reports whether the proposal should resolve this turn: either every
// candidate answered, or the proposal expired.
func (p *Proposal) Due(turn int) bool {
	return p.AllResponded() || turn >= p.ExpiryTurn
}

// Accepted returns the accepting countries (proposer first, then candidates
// in sorted order). Pending responses at expiry count as declines.
func (p *Proposal) Accepted() []string {
	members := []string{p.Proposer}
	names := make([]string, 0, len(p.Responses))
	for c, r := range p.Responses {
		if r == ResponseAccept {
			names = append(names, c)
		}
	}
	slices.Sort(names)
	return append(members, names...)
}

// Resolve converts the proposal into a Coalition when at least two countries
// (proposer included) accepted, or discards it. One-shot: the second and
// later calls return (nil, false) regardless of state. The proposer leads
// the new coalition, which starts at cohesion 0.7.
func (p *Proposal) Resolve(turn int) (*Coalition, bool) {
	if p.resolved {
		return nil, false
	}
	p.resolved = true

	members := p.Accepted()
	if len(members) < minFoundingMembers {
		return nil, false
	}

	c := &Coalition{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("coalition/"+p.ID)).String(),
		Name:          p.Name,
		Purpose:       p.Purpose,
		TargetID:      p.TargetID,
		Leader:        p.Proposer,
		Cohesion:      0.7,
		FormationTurn: turn,
	}
	c.Members = slices.Clone(members)
	slices.Sort(c.Members)
	c.record(turn, "formed", p.Proposer)
	return c, true
}

// Resolved reports whether Resolve has already run.
func (p *Proposal) Resolved() bool {
	return p.resolved
}
