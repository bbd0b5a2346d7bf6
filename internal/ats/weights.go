package ats

import "fmt"

// Weights is the scoring configuration. Category weights are relative and
// renormalized over the categories that actually hold keywords; credits are
// the fraction of a keyword awarded per match type.
type Weights struct {
	Required float64 `json:"required" mapstructure:"required"`
	Tools    float64 `json:"tools" mapstructure:"tools"`
	Optional float64 `json:"optional" mapstructure:"optional"`

	ExactCredit float64 `json:"exact_credit" mapstructure:"exact_credit"`
	AliasCredit float64 `json:"alias_credit" mapstructure:"alias_credit"`
	StemCredit  float64 `json:"stem_credit" mapstructure:"stem_credit"`
	FuzzyCredit float64 `json:"fuzzy_credit" mapstructure:"fuzzy_credit"`

	// RequiredFloor is the required-skill coverage below which the total
	// score is capped at FloorCap.
	RequiredFloor float64 `json:"required_floor" mapstructure:"required_floor"`
	FloorCap      int     `json:"floor_cap" mapstructure:"floor_cap"`
}

// DefaultWeights returns the documented default configuration:
// required 3, tools 2, optional 1; exact and alias matches earn full credit,
// stem matches 0.9, edit-distance matches 0.75; below 40% required coverage
// the score is capped at 45.
func DefaultWeights() Weights {
	return Weights{
		Required:      3,
		Tools:         2,
		Optional:      1,
		ExactCredit:   1.0,
		AliasCredit:   1.0,
		StemCredit:    0.9,
		FuzzyCredit:   0.75,
		RequiredFloor: 0.4,
		FloorCap:      45,
	}
}

// Validate checks that weights and credits are in range.
func (w Weights) Validate() error {
	if w.Required < 0 || w.Tools < 0 || w.Optional < 0 {
		return fmt.Errorf("ats weights must be non-negative")
	}
	if w.Required+w.Tools+w.Optional == 0 {
		return fmt.Errorf("ats weights must not all be zero")
	}
	for name, c := range map[string]float64{
		"exact_credit": w.ExactCredit,
		"alias_credit": w.AliasCredit,
		"stem_credit":  w.StemCredit,
		"fuzzy_credit": w.FuzzyCredit,
	} {
		if c < 0 || c > 1 {
			return fmt.Errorf("ats %s must be between 0 and 1, got %v", name, c)
		}
	}
	if w.RequiredFloor < 0 || w.RequiredFloor > 1 {
		return fmt.Errorf("ats required_floor must be between 0 and 1, got %v", w.RequiredFloor)
	}
	if w.FloorCap < 0 || w.FloorCap > 100 {
		return fmt.Errorf("ats floor_cap must be between 0 and 100, got %d", w.FloorCap)
	}
	return nil
}

func (w Weights) credit(m MatchType) float64 {
	switch m {
	case MatchExact:
		return w.ExactCredit
	case MatchAlias:
		return w.AliasCredit
	case MatchStem:
		return w.StemCredit
	case MatchFuzzy:
		return w.FuzzyCredit
	default:
		return 0
	}
}

func (w Weights) weight(c Category) float64 {
	switch c {
	case CategoryRequired:
		return w.Required
	case CategoryTools:
		return w.Tools
	case CategoryOptional:
		return w.Optional
	default:
		return 0
	}
}
