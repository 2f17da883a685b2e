package analysis

import (
	"math"

	"github.com/scrylabs/scry/internal/core"
)

// PenaltyPolicy controls how much weight the narrative score keeps
// before blending.
type PenaltyPolicy string

const (
	// PenaltyNone blends the narrative score as-is.
	PenaltyNone PenaltyPolicy = "none"
	// PenaltyConservative docks the narrative score ten points first,
	// discounting model optimism.
	PenaltyConservative PenaltyPolicy = "conservative"
)

// BlendPolicy bundles the two independent blend knobs.
type BlendPolicy struct {
	Penalty PenaltyPolicy
	Grading GradingPolicy
}

// DefaultBlendPolicy is the shipping configuration: conservative
// penalty, lenient grading.
func DefaultBlendPolicy() BlendPolicy {
	return BlendPolicy{Penalty: PenaltyConservative, Grading: GradingLenient}
}

// PolicyFromConfig maps config strings onto a policy. Empty values keep
// the defaults; unknown values were already rejected by config
// validation.
func PolicyFromConfig(penalty, grading string) BlendPolicy {
	policy := DefaultBlendPolicy()
	if penalty != "" {
		policy.Penalty = PenaltyPolicy(penalty)
	}
	if grading != "" {
		policy.Grading = GradingPolicy(grading)
	}
	return policy
}

// Blend folds a narrative assessment into a technical result at 70/30
// weighting and regrades the combined score. The input result is never
// mutated; a nil narrative returns an unchanged copy.
func Blend(technical *core.AnalysisResult, narrative *core.Narrative, policy BlendPolicy) *core.AnalysisResult {
	if technical == nil {
		return nil
	}
	out := *technical
	if narrative == nil {
		return &out
	}

	llmScore := float64(narrative.Score)
	if policy.Penalty == PenaltyConservative {
		llmScore -= 10
	}

	combined := int(math.Round(float64(technical.Score)*0.7 + llmScore*0.3))
	if combined < 0 {
		combined = 0
	}
	if combined > 100 {
		combined = 100
	}

	n := *narrative
	out.Score = combined
	out.Grade = gradeForPolicy(combined, policy.Grading)
	out.Narrative = &n
	return &out
}
