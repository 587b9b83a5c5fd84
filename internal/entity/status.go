package entity

// Status classifies how familiar the learner is with a term.
//
// The value set is closed: 0 means the term is unknown (or not yet
// registered), 1-5 are learning stages, 98 marks a term the learner wants
// excluded from their vocabulary context, and 99 marks a well-known term.
type Status int32

const (
	StatusUnknown   Status = 0
	StatusLearning1 Status = 1
	StatusLearning2 Status = 2
	StatusLearning3 Status = 3
	StatusLearning4 Status = 4
	StatusLearning5 Status = 5
	StatusIgnored   Status = 98
	StatusWellKnown Status = 99
)

// LearningStatuses enumerates the buckets tracked per text, in display order.
var LearningStatuses = []Status{
	StatusLearning1,
	StatusLearning2,
	StatusLearning3,
	StatusLearning4,
	StatusLearning5,
	StatusIgnored,
	StatusWellKnown,
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusUnknown, StatusLearning1, StatusLearning2, StatusLearning3,
		StatusLearning4, StatusLearning5, StatusIgnored, StatusWellKnown:
		return true
	default:
		return false
	}
}

// Fixed reports whether s is one of the terminal-for-scheduling states.
// Fixed terms are only reachable and leavable by an explicit absolute set.
func (s Status) Fixed() bool {
	return s == StatusIgnored || s == StatusWellKnown
}

// Learning reports whether s is within the 1-5 learning range.
func (s Status) Learning() bool {
	return s >= StatusLearning1 && s <= StatusLearning5
}

// ApplyChange returns the status after a relative change of delta.
// Fixed statuses (98, 99) are unaffected; everything else clamps into [1, 5].
func (s Status) ApplyChange(delta int32) Status {
	if s.Fixed() {
		return s
	}
	next := s + Status(delta)
	if next < StatusLearning1 {
		return StatusLearning1
	}
	if next > StatusLearning5 {
		return StatusLearning5
	}
	return next
}
