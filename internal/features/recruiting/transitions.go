package recruiting

import "time"

// StaleAfter is how long a candidate may wait in Approved or Onboarding.
const StaleAfter = 48 * time.Hour

var transitions = map[Status][]Status{
	StatusNewApplicant: {StatusInterviews, StatusApproved, StatusOnboarding, StatusRejected, StatusInactive},
	StatusInterviews:   {StatusApproved, StatusOnboarding, StatusRejected, StatusInactive},
	StatusApproved:     {StatusOnboarding, StatusRejected, StatusInactive},
	StatusOnboarding:   {StatusActive, StatusRejected, StatusInactive},
	StatusActive:       {StatusInactive},
	StatusRejected:     {StatusNewApplicant, StatusInactive},
	StatusInactive:     {StatusNewApplicant, StatusRejected},
}

// CanTransition reports whether from -> to is an edge. There are no self-loops.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Targets lists the statuses reachable from s in one step.
func Targets(s Status) []Status {
	return append([]Status(nil), transitions[s]...)
}

func IsStale(c Candidate, now time.Time) bool {
	if c.PipelineStatus != StatusApproved && c.PipelineStatus != StatusOnboarding {
		return false
	}
	return now.Sub(c.LastStatusChangeDate) > StaleAfter
}
