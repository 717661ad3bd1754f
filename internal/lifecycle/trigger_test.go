package lifecycle

import (
	"testing"
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

func testDeadlines() Deadlines {
	return Deadlines{ResponseTimeout: 24 * time.Hour, ConversationCap: 72 * time.Hour}
}

func pendingCase(status casefiledomain.CaseStatus, openedAgo, respondIn time.Duration, now time.Time) casefiledomain.DisputeCase {
	respondBy := now.Add(respondIn)
	return casefiledomain.DisputeCase{
		Status:    status,
		OpenedAt:  now.Add(-openedAgo),
		RespondBy: &respondBy,
	}
}

func TestCheckTriggerSellerInactive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := pendingCase(casefiledomain.CaseStatusPendingSellerResponse, 30*time.Hour, -time.Hour, now)

	trigger, ok := CheckTrigger(c, now, testDeadlines())
	if !ok || trigger != TriggerSellerInactive {
		t.Fatalf("expected seller_inactive, got %q ok=%v", trigger, ok)
	}
}

func TestCheckTriggerBuyerInactive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := pendingCase(casefiledomain.CaseStatusPendingBuyerResponse, 30*time.Hour, -time.Minute, now)

	trigger, ok := CheckTrigger(c, now, testDeadlines())
	if !ok || trigger != TriggerBuyerInactive {
		t.Fatalf("expected buyer_inactive, got %q ok=%v", trigger, ok)
	}
}

func TestCheckTriggerDeadlineNotLapsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := pendingCase(casefiledomain.CaseStatusPendingSellerResponse, 10*time.Hour, 6*time.Hour, now)

	if trigger, ok := CheckTrigger(c, now, testDeadlines()); ok {
		t.Fatalf("expected no trigger, got %q", trigger)
	}
}

func TestCheckTriggerConversationCap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := pendingCase(casefiledomain.CaseStatusPendingSellerResponse, 80*time.Hour, 6*time.Hour, now)

	trigger, ok := CheckTrigger(c, now, testDeadlines())
	if !ok || trigger != TriggerConversationExpired {
		t.Fatalf("expected conversation_cap_exceeded, got %q ok=%v", trigger, ok)
	}
}

func TestCheckTriggerInactivityOutranksCap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := pendingCase(casefiledomain.CaseStatusPendingSellerResponse, 80*time.Hour, -time.Hour, now)

	trigger, ok := CheckTrigger(c, now, testDeadlines())
	if !ok || trigger != TriggerSellerInactive {
		t.Fatalf("expected seller_inactive to outrank the cap, got %q", trigger)
	}
}

func TestCheckTriggerSkipsEscalatedAndTerminal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, status := range []casefiledomain.CaseStatus{
		casefiledomain.CaseStatusEscalated,
		casefiledomain.CaseStatusResolved,
		casefiledomain.CaseStatusResolvedByStaff,
	} {
		c := pendingCase(status, 200*time.Hour, -time.Hour, now)
		if trigger, ok := CheckTrigger(c, now, testDeadlines()); ok {
			t.Fatalf("status %s must not trigger, got %q", status, trigger)
		}
	}
}

func TestCheckTriggerNoRespondBy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := casefiledomain.DisputeCase{
		Status:   casefiledomain.CaseStatusPendingSellerResponse,
		OpenedAt: now.Add(-10 * time.Hour),
	}

	if trigger, ok := CheckTrigger(c, now, testDeadlines()); ok {
		t.Fatalf("expected no trigger without a deadline, got %q", trigger)
	}
}
