package strategy

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/traits"
)

// Scoring thresholds. An opportunity below its threshold is not worth a
// decision; returning none is the expected outcome for most countries most
// turns.
const (
	joinThreshold      = 0.55
	leaveThreshold     = 0.60
	challengeThreshold = 0.30
	partnerCoopCutoff  = 0.55
	affinityCutoff     = 0.50
	acceptCutoff       = 0.50

	// A counter coalition needs a dominant target: strength above this
	// multiple of the world mean.
	counterTargetRatio = 1.5

	// Formation proposals invite at most this many partners.
	maxProposalPartners = 5
)

// Snapshot is a read-only view of the world taken before scoring. Building
// it precomputes coalition strengths so per-country evaluation stays
// side-effect free and safe to parallelize.
type Snapshot struct {
	countries map[string]*country.Country
	order     []string // ascending country ids
	registry  *coalition.Registry

	strengths    map[string]float64 // active coalition id -> strength
	meanStrength float64
}

// NewSnapshot builds a scoring view over the countries and coalitions.
func NewSnapshot(list []*country.Country, reg *coalition.Registry) *Snapshot {
	s := &Snapshot{
		countries: make(map[string]*country.Country, len(list)),
		registry:  reg,
		strengths: make(map[string]float64),
	}
	for _, c := range list {
		s.countries[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	slices.Sort(s.order)

	gdpOf := func(id string) float64 {
		if c, ok := s.countries[id]; ok {
			return c.GDP
		}
		return 0
	}

	active := reg.Active()
	total := 0.0
	for _, c := range active {
		str := c.Strength(gdpOf)
		s.strengths[c.ID] = str
		total += str
	}
	if len(active) > 0 {
		s.meanStrength = total / float64(len(active))
	}
	return s
}

// Country returns a country by id.
func (s *Snapshot) Country(id string) (*country.Country, bool) {
	c, ok := s.countries[id]
	return c, ok
}

// Order returns the fixed country processing order (ascending id).
func (s *Snapshot) Order() []string {
	return s.order
}

// Engine evaluates coalition opportunities per country. It holds no state;
// every evaluation is a pure function of the snapshot.
type Engine struct{}

// EvaluateDecisions produces at most one decision per country, processing
// countries in ascending id order. Read-only: nothing in the snapshot is
// mutated and no randomness is drawn.
func (e Engine) EvaluateDecisions(snap *Snapshot) map[string]Decision {
	out := make(map[string]Decision, len(snap.order))
	for _, id := range snap.order {
		out[id] = e.EvaluateCountry(snap, id)
	}
	return out
}

// EvaluateCountry scores every opportunity open to one country and selects
// the single best action.
func (e Engine) EvaluateCountry(snap *Snapshot, countryID string) Decision {
	best := Decision{Country: countryID, Action: ActionNone}

	self, ok := snap.Country(countryID)
	if !ok {
		return best
	}

	memberships := snap.registry.MemberOf(countryID)
	memberIDs := make(map[string]bool, len(memberships))
	for _, c := range memberships {
		memberIDs[c.ID] = true
	}

	// Join opportunities: every active coalition this country is outside of.
	for _, c := range snap.registry.Active() {
		if memberIDs[c.ID] {
			continue
		}
		score := e.joinAttractiveness(snap, self, c)
		if score <= joinThreshold {
			continue
		}
		d := Decision{
			Country:     countryID,
			Action:      ActionJoinCoalition,
			Score:       score,
			CoalitionID: c.ID,
			Reason:      fmt.Sprintf("drawn to %s", c.Name),
		}
		if d.beats(best) {
			best = d
		}
	}

	// Membership pressures: leave, challenge, or push a coalition action.
	for _, c := range memberships {
		if d, ok := e.leavePressure(snap, self, c); ok && d.beats(best) {
			best = d
		}
		if c.Leader != countryID {
			if d, ok := e.challengeFeasibility(snap, self, c); ok && d.beats(best) {
				best = d
			}
		} else if d, ok := e.coalitionInitiative(self, c); ok && d.beats(best) {
			best = d
		}
	}

	// Formation: only unaffiliated countries gather new blocs.
	if len(memberships) == 0 {
		if d, ok := e.formationOpportunity(snap, self); ok && d.beats(best) {
			best = d
		}
	}

	return best
}

// joinAttractiveness combines cooperation with the coalition's leader,
// purpose fit against the country's trait strategy, and coalition strength
// normalized by the world mean.
func (e Engine) joinAttractiveness(snap *Snapshot, self *country.Country, c *coalition.Coalition) float64 {
	leader, _ := snap.Country(c.Leader)
	coop, _ := self.CooperationWith(leader)
	fit := purposeAffinity(&self.Profile, c.Purpose)

	norm := 0.5
	if snap.meanStrength > 0 {
		norm = snap.strengths[c.ID] / (2 * snap.meanStrength)
		if norm > 1 {
			norm = 1
		}
	}

	return traits.Clamp(0.4*coop + 0.35*fit + 0.25*norm)
}

// leavePressure is the inverse of join attractiveness, boosted by
// isolationism and dampened by cooperation.
func (e Engine) leavePressure(snap *Snapshot, self *country.Country, c *coalition.Coalition) (Decision, bool) {
	attract := e.joinAttractiveness(snap, self, c)
	score := traits.Clamp((1 - attract) + 0.3*self.Profile.Isolationism - 0.3*self.Profile.Cooperation)
	if score <= leaveThreshold {
		return Decision{}, false
	}
	return Decision{
		Country:     self.ID,
		Action:      ActionLeaveCoalition,
		Score:       score,
		CoalitionID: c.ID,
		Reason:      fmt.Sprintf("disaffected with %s", c.Name),
	}, true
}

// challengeFeasibility scores a leadership bid from the country's
// GDP-weighted share of coalition strength, scaled by its appetite for
// leading.
func (e Engine) challengeFeasibility(snap *Snapshot, self *country.Country, c *coalition.Coalition) (Decision, bool) {
	total := 0.0
	for _, m := range c.Members {
		if mc, ok := snap.Country(m); ok {
			total += mc.GDP
		}
	}
	if total <= 0 {
		return Decision{}, false
	}
	share := self.GDP / total
	score := traits.Clamp(share * (0.5 + 0.3*self.Profile.RegionalLeadershipRole + 0.2*self.Profile.Pride))
	if score <= challengeThreshold {
		return Decision{}, false
	}
	return Decision{
		Country:     self.ID,
		Action:      ActionChallengeLeadership,
		Score:       score,
		CoalitionID: c.ID,
		Reason:      fmt.Sprintf("contesting leadership of %s", c.Name),
	}, true
}

// coalitionInitiative lets a leader of a cohesive coalition push a joint
// action. Scored below typical join/form scores so it never crowds out
// structural moves.
func (e Engine) coalitionInitiative(self *country.Country, c *coalition.Coalition) (Decision, bool) {
	if c.Cohesion <= 0.6 {
		return Decision{}, false
	}
	fit := purposeAffinity(&self.Profile, c.Purpose)
	score := traits.Clamp(0.2 + 0.3*c.Cohesion*fit)
	return Decision{
		Country:     self.ID,
		Action:      ActionProposeCoalitionAction,
		Score:       score,
		CoalitionID: c.ID,
		Reason:      fmt.Sprintf("pressing a joint %s initiative", c.Purpose),
	}, true
}

// formationOpportunity looks for unaffiliated partners with high pairwise
// cooperation potential and a shared purpose affinity.
func (e Engine) formationOpportunity(snap *Snapshot, self *country.Country) (Decision, bool) {
	purpose, affinity, targetID := bestPurpose(snap, &self.Profile)
	if affinity <= affinityCutoff {
		return Decision{}, false
	}
	if purpose == coalition.PurposeCounter && targetID == "" {
		return Decision{}, false
	}

	type partner struct {
		id   string
		coop float64
	}
	var partners []partner
	for _, otherID := range snap.order {
		if otherID == self.ID {
			continue
		}
		other, _ := snap.Country(otherID)
		if other == nil || len(snap.registry.MemberOf(otherID)) > 0 {
			continue
		}
		coop, _ := self.CooperationWith(other)
		if coop <= partnerCoopCutoff {
			continue
		}
		if purposeAffinity(&other.Profile, purpose) <= affinityCutoff {
			continue
		}
		partners = append(partners, partner{id: otherID, coop: coop})
	}
	if len(partners) < 2 {
		return Decision{}, false
	}

	// Keep the best-matched partners, ties broken by id for determinism.
	slices.SortFunc(partners, func(a, b partner) int {
		if a.coop != b.coop {
			if a.coop > b.coop {
				return -1
			}
			return 1
		}
		if a.id < b.id {
			return -1
		}
		return 1
	})
	if len(partners) > maxProposalPartners {
		partners = partners[:maxProposalPartners]
	}

	sum := 0.0
	candidates := make([]string, 0, len(partners))
	for _, p := range partners {
		sum += p.coop
		candidates = append(candidates, p.id)
	}
	slices.Sort(candidates)
	score := traits.Clamp(0.6*(sum/float64(len(partners))) + 0.4*affinity)

	return Decision{
		Country:    self.ID,
		Action:     ActionFormCoalition,
		Score:      score,
		Purpose:    purpose,
		TargetID:   targetID,
		Candidates: candidates,
		Name:       coalitionName(self.Name, purpose),
		Reason:     fmt.Sprintf("rallying a %s bloc", purpose),
	}, true
}

// RespondToProposal decides whether a candidate accepts a formation
// proposal: a hard cooperation-potential threshold against the proposer.
func (e Engine) RespondToProposal(snap *Snapshot, countryID string, p *coalition.Proposal) bool {
	self, ok := snap.Country(countryID)
	if !ok {
		return false
	}
	proposer, _ := snap.Country(p.Proposer)
	coop, _ := self.CooperationWith(proposer)
	return coop > acceptCutoff
}

// purposeAffinity maps a profile onto a coalition purpose, reusing the
// trait-derived strategy weights.
func purposeAffinity(p *traits.Profile, purpose coalition.Purpose) float64 {
	w := p.TradeStrategyWeights()
	switch purpose {
	case coalition.PurposeTrade:
		if w.FreeTrade > w.StrategicTrade {
			return w.FreeTrade
		}
		return w.StrategicTrade
	case coalition.PurposeDefense:
		return traits.Clamp(0.5*p.RiskAversion + 0.3*p.GeopoliticalAlignment + 0.2*p.Aggression)
	case coalition.PurposeRegional:
		return w.RegionalIntegration
	case coalition.PurposeCounter:
		return traits.Clamp(0.4*p.Retaliation + 0.3*p.Aggression + 0.3*p.GeopoliticalAlignment)
	default:
		return 0
	}
}

// bestPurpose picks the purpose this country would found a coalition for.
// Counter coalitions additionally require a dominant target bloc.
func bestPurpose(snap *Snapshot, p *traits.Profile) (coalition.Purpose, float64, string) {
	targetID := ""
	if snap.meanStrength > 0 {
		bestStr := 0.0
		for _, c := range snap.registry.Active() {
			if str := snap.strengths[c.ID]; str > counterTargetRatio*snap.meanStrength && str > bestStr {
				bestStr = str
				targetID = c.ID
			}
		}
	}

	bestPurpose := coalition.PurposeTrade
	bestAffinity := -1.0
	for _, purpose := range []coalition.Purpose{
		coalition.PurposeTrade,
		coalition.PurposeDefense,
		coalition.PurposeRegional,
		coalition.PurposeCounter,
	} {
		if purpose == coalition.PurposeCounter && targetID == "" {
			continue
		}
		if a := purposeAffinity(p, purpose); a > bestAffinity {
			bestAffinity = a
			bestPurpose = purpose
		}
	}
	return bestPurpose, bestAffinity, targetID
}

// coalitionName generates a deterministic display name for a proposed bloc.
func coalitionName(founder string, purpose coalition.Purpose) string {
	switch purpose {
	case coalition.PurposeTrade:
		return founder + " Trade Compact"
	case coalition.PurposeDefense:
		return founder + " Defense Pact"
	case coalition.PurposeRegional:
		return founder + " Regional Forum"
	case coalition.PurposeCounter:
		return founder + " Counterweight Alliance"
	default:
		return founder + " Coalition"
	}
}
