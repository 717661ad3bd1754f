package lifecycle

import (
	"errors"
	"fmt"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

var ErrInvalidTransition = errors.New("invalid_status_transition")

// transitions is the full lifecycle graph. Escalation is reachable from
// every non-terminal state so a stuck case can always be pulled out of the
// negotiation loop.
var transitions = map[casefiledomain.CaseStatus][]casefiledomain.CaseStatus{
	casefiledomain.CaseStatusOpened: {
		casefiledomain.CaseStatusPendingSellerResponse,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusPendingSellerResponse: {
		casefiledomain.CaseStatusAccepted,
		casefiledomain.CaseStatusDeclined,
		casefiledomain.CaseStatusCounterOffered,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusAccepted: {
		casefiledomain.CaseStatusResolved,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusDeclined: {
		casefiledomain.CaseStatusPendingBuyerResponse,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusCounterOffered: {
		casefiledomain.CaseStatusPendingBuyerResponse,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusPendingBuyerResponse: {
		casefiledomain.CaseStatusAgreed,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusAgreed: {
		casefiledomain.CaseStatusResolved,
		casefiledomain.CaseStatusEscalated,
	},
	casefiledomain.CaseStatusEscalated: {
		casefiledomain.CaseStatusResolvedByStaff,
	},
}

// CanTransition reports whether moving from one status to another is
// allowed. Terminal statuses have no outgoing edges.
func CanTransition(from, to casefiledomain.CaseStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the lifecycle.
func Terminal(status casefiledomain.CaseStatus) bool {
	return len(transitions[status]) == 0
}

// Guard returns ErrInvalidTransition when the move is not allowed.
func Guard(from, to casefiledomain.CaseStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
