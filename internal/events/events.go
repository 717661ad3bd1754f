package events

// Case event types recorded in the outbox for downstream consumers
// (notifications, staff dashboards).
const (
	EventDisputeOpened     = "dispute.opened"
	EventDisputeEscalated  = "dispute.escalated"
	EventDisputeResolved   = "dispute.resolved"
	EventAnalysisCompleted = "dispute.analysis_completed"
)

// EscalationPayload captures the minimal data a consumer needs to route an
// escalated case to staff.
type EscalationPayload struct {
	CaseRef string `json:"case_ref"`
	Trigger string `json:"trigger"`
	Manual  bool   `json:"manual,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p EscalationPayload) ToMap() map[string]any {
	payload := map[string]any{
		"case_ref": p.CaseRef,
		"trigger":  p.Trigger,
	}
	if p.Manual {
		payload["manual"] = true
	}
	return payload
}

// AnalysisPayload captures the outcome of a completed analysis run.
type AnalysisPayload struct {
	CaseRef        string `json:"case_ref"`
	Eligible       bool   `json:"eligible"`
	Label          string `json:"label,omitempty"`
	EscalationOnly bool   `json:"escalation_only,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p AnalysisPayload) ToMap() map[string]any {
	payload := map[string]any{
		"case_ref": p.CaseRef,
		"eligible": p.Eligible,
	}
	if p.Label != "" {
		payload["label"] = p.Label
	}
	if p.EscalationOnly {
		payload["escalation_only"] = true
	}
	return payload
}
