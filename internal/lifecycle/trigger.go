package lifecycle

import (
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

// Trigger names why a case escalated. Recorded on the outbox event so staff
// see the cause without reconstructing the timeline.
type Trigger string

const (
	TriggerManual              Trigger = "manual_escalation"
	TriggerSellerInactive      Trigger = "seller_inactive"
	TriggerBuyerInactive       Trigger = "buyer_inactive"
	TriggerConversationExpired Trigger = "conversation_cap_exceeded"
)

// Deadlines carries the escalation timing policy.
type Deadlines struct {
	ResponseTimeout time.Duration
	ConversationCap time.Duration
}

// CheckTrigger reports whether the case should auto-escalate at the given
// instant. Inactivity on the pending party outranks the conversation cap so
// the recorded cause names the party that went silent.
func CheckTrigger(c casefiledomain.DisputeCase, now time.Time, d Deadlines) (Trigger, bool) {
	if Terminal(c.Status) || c.Status == casefiledomain.CaseStatusEscalated {
		return "", false
	}

	if c.RespondBy != nil && now.After(*c.RespondBy) {
		switch c.Status {
		case casefiledomain.CaseStatusPendingSellerResponse:
			return TriggerSellerInactive, true
		case casefiledomain.CaseStatusPendingBuyerResponse:
			return TriggerBuyerInactive, true
		}
	}

	if d.ConversationCap > 0 && now.Sub(c.OpenedAt) > d.ConversationCap {
		return TriggerConversationExpired, true
	}

	return "", false
}
