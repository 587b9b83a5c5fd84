package entity

// Clamping bounds for reading recommendations.
const (
	MinTargetComprehensibility = 0.5
	MaxTargetComprehensibility = 1.0
	DefaultRecommendationLimit = 20
	MaxRecommendationLimit     = 50
)

// RecommendationRequest carries the learner-chosen ranking parameters.
type RecommendationRequest struct {
	Target float64
	Limit  int32
}

// Normalize clamps the request into its documented bounds. A missing or
// too-low target falls back to the minimum, a too-high target to the
// maximum; the limit defaults when absent and is capped at the maximum.
func (r *RecommendationRequest) Normalize() {
	if r.Target < MinTargetComprehensibility {
		r.Target = MinTargetComprehensibility
	} else if r.Target > MaxTargetComprehensibility {
		r.Target = MaxTargetComprehensibility
	}
	if r.Limit <= 0 {
		r.Limit = DefaultRecommendationLimit
	} else if r.Limit > MaxRecommendationLimit {
		r.Limit = MaxRecommendationLimit
	}
}

// Recommendation is one ranked candidate text.
type Recommendation struct {
	TextID int64   `json:"text_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// RecommendationList is the ranked result for one language. The clamped
// target is always echoed back, even when the candidate pool is empty.
type RecommendationList struct {
	Recommendations         []Recommendation `json:"recommendations"`
	TargetComprehensibility float64          `json:"target_comprehensibility"`
}
