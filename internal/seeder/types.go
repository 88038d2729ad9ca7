package seeder

import "fmt"

// Phase is a state of a run. A run moves through the phases in declaration
// order and ends in PhaseDone or PhaseFailed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCleanup
	PhaseUsers
	PhaseCategories
	PhaseProducts
	PhaseOrders
	PhaseOrderItems
	PhaseAuditLog
	PhaseQueryHistory
	PhaseDone
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseIdle:         "idle",
	PhaseCleanup:      "cleanup",
	PhaseUsers:        "gen_users",
	PhaseCategories:   "gen_categories",
	PhaseProducts:     "gen_products",
	PhaseOrders:       "gen_orders",
	PhaseOrderItems:   "gen_order_items",
	PhaseAuditLog:     "gen_audit_log",
	PhaseQueryHistory: "gen_query_history",
	PhaseDone:         "done",
	PhaseFailed:       "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PhaseError is returned by a run that stopped in Phase.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
