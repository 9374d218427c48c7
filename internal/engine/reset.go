package engine

// ResetDecision is the outcome of comparing the stored week to the current one.
type ResetDecision struct {
	ShouldClear  bool
	KeyToPersist string
}

// Reconcile decides whether the board belongs to an earlier week. An absent
// stored key counts as a different week.
func Reconcile(stored string, hasStored bool, current string) ResetDecision {
	if !hasStored || stored != current {
		return ResetDecision{ShouldClear: true, KeyToPersist: current}
	}
	return ResetDecision{ShouldClear: false, KeyToPersist: stored}
}
