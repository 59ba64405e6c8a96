package attendance

// approvalTransitions lists the moves allowed out of each approval status.
// Approved and rejected are terminal.
var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalApproved: {},
	ApprovalRejected: {},
}

func ValidTransition(from, to ApprovalStatus) bool {
	for _, s := range approvalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
