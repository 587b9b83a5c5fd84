package usecase

import "github.com/eslsoft/readvoc/internal/entity"

// statusWeights fixes how much of the learner's comprehension each status
// bucket contributes. Learning stages ramp linearly from 0.2 to 1.0,
// well-known counts fully, and unknown (to-do) occurrences count for
// nothing. Ignored terms are excluded from numerator and denominator: they
// sit outside the learner's vocabulary context altogether.
var statusWeights = map[entity.Status]float64{
	entity.StatusUnknown:   0.0,
	entity.StatusLearning1: 0.2,
	entity.StatusLearning2: 0.4,
	entity.StatusLearning3: 0.6,
	entity.StatusLearning4: 0.8,
	entity.StatusLearning5: 1.0,
	entity.StatusWellKnown: 1.0,
}

// ComprehensionScore reduces a statistics record to a single score in
// [0, 1]: the weighted fraction of non-ignored occurrences the learner is
// expected to understand. It is a pure function, so identical statistics
// always produce the identical score and recommendation rankings stay
// reproducible.
func ComprehensionScore(stats entity.TextStatistics) float64 {
	denom := stats.Total - stats.S98
	if denom <= 0 {
		return 0
	}

	var weighted float64
	weighted += float64(stats.Unknown) * statusWeights[entity.StatusUnknown]
	for _, status := range entity.LearningStatuses {
		if status == entity.StatusIgnored {
			continue
		}
		weighted += float64(stats.Bucket(status)) * statusWeights[status]
	}

	score := weighted / float64(denom)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
