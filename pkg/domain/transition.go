package domain

// allowedTransitions is the moderation allow-list. Rejected and banned are terminal.
var allowedTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusPending:  {MemberStatusApproved, MemberStatusRejected, MemberStatusBanned},
	MemberStatusApproved: {MemberStatusBanned},
}

// CanTransition reports whether a member may move from one status to another.
// Setting a member to the status it already has is always allowed.
func CanTransition(from, to MemberStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s, excluding s itself.
func NextStatuses(s MemberStatus) []MemberStatus {
	next := allowedTransitions[s]
	out := make([]MemberStatus, len(next))
	copy(out, next)
	return out
}
