package traits

// TradeStrategy holds the six trade posture weights derived from a profile.
// Each weight is a fixed linear combination of traits, clamped to [0, 1].
type TradeStrategy struct {
	Protectionism       float64 `json:"protectionism"`
	FreeTrade           float64 `json:"free_trade"`
	StrategicTrade      float64 `json:"strategic_trade"`
	ResourceFocus       float64 `json:"resource_focus"`
	TechnologyControl   float64 `json:"technology_control"`
	RegionalIntegration float64 `json:"regional_integration"`
}

// TradeStrategyWeights derives the trade posture weights.
// Formulas (coefficients sum to 1 per weight):
//
//	protectionism        = 0.5·protectionism + 0.3·self_sufficiency + 0.2·(1−free_market_belief)
//	free_trade           = 0.5·free_market_belief + 0.3·cooperation + 0.2·(1−isolationism)
//	strategic_trade      = 0.4·pragmatism + 0.3·geopolitical_alignment + 0.3·technology_policy
//	resource_focus       = 0.5·resource_nationalism + 0.3·self_sufficiency + 0.2·state_enterprise_dominance
//	technology_control   = 0.5·technology_policy + 0.3·protectionism + 0.2·risk_aversion
//	regional_integration = 0.5·regional_focus + 0.3·cooperation + 0.2·regional_leadership_role
func (p *Profile) TradeStrategyWeights() TradeStrategy {
	return TradeStrategy{
		Protectionism:       Clamp(0.5*p.Protectionism + 0.3*p.SelfSufficiency + 0.2*(1-p.FreeMarketBelief)),
		FreeTrade:           Clamp(0.5*p.FreeMarketBelief + 0.3*p.Cooperation + 0.2*(1-p.Isolationism)),
		StrategicTrade:      Clamp(0.4*p.Pragmatism + 0.3*p.GeopoliticalAlignment + 0.3*p.TechnologyPolicy),
		ResourceFocus:       Clamp(0.5*p.ResourceNationalism + 0.3*p.SelfSufficiency + 0.2*p.StateEnterpriseDominance),
		TechnologyControl:   Clamp(0.5*p.TechnologyPolicy + 0.3*p.Protectionism + 0.2*p.RiskAversion),
		RegionalIntegration: Clamp(0.5*p.RegionalFocus + 0.3*p.Cooperation + 0.2*p.RegionalLeadershipRole),
	}
}

// SanctionsPosture holds the four sanctions response weights.
type SanctionsPosture struct {
	Impose               float64 `json:"impose"`
	Withstand            float64 `json:"withstand"`
	DiplomaticResolution float64 `json:"diplomatic_resolution"`
	Counter              float64 `json:"counter"`
}

// SanctionsApproach derives the sanctions posture weights.
// Formulas:
//
//	impose                = 0.4·aggression + 0.3·retaliation + 0.3·geopolitical_alignment
//	withstand             = 0.5·sanctions_resilience + 0.3·self_sufficiency + 0.2·pride
//	diplomatic_resolution = 0.5·cooperation + 0.3·pragmatism + 0.2·(1−aggression)
//	counter               = 0.4·retaliation + 0.3·pride + 0.3·resource_nationalism
func (p *Profile) SanctionsApproach() SanctionsPosture {
	return SanctionsPosture{
		Impose:               Clamp(0.4*p.Aggression + 0.3*p.Retaliation + 0.3*p.GeopoliticalAlignment),
		Withstand:            Clamp(0.5*p.SanctionsResilience + 0.3*p.SelfSufficiency + 0.2*p.Pride),
		DiplomaticResolution: Clamp(0.5*p.Cooperation + 0.3*p.Pragmatism + 0.2*(1-p.Aggression)),
		Counter:              Clamp(0.4*p.Retaliation + 0.3*p.Pride + 0.3*p.ResourceNationalism),
	}
}
