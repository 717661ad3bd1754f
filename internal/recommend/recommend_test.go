package recommend

import (
	"errors"
	"strings"
	"testing"

	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/snad"
	"go.uber.org/zap"
)

func newTestEngine() *Engine {
	return NewEngine(EngineParam{Log: zap.NewNop(), Cfg: DefaultConfig()})
}

func eligibleVerdict() eligibility.Verdict {
	return eligibility.Verdict{R1ProtectedChannel: true, R2WithinWindow: true, R3NotComplete: true}
}

func TestRecommendSnad(t *testing.T) {
	e := newTestEngine()

	bundle, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.LabelSNAD})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if bundle.Primary.FeeAllocation != SellerPays {
		t.Fatalf("expected seller_pays primary, got %s", bundle.Primary.FeeAllocation)
	}
	if bundle.Alternative == nil || bundle.Alternative.RefundPercent == nil {
		t.Fatalf("expected partial-refund alternative, got %+v", bundle.Alternative)
	}
	if got := bundle.Alternative.RefundPercent.String(); got != "15-30%" {
		t.Fatalf("expected 15-30%% alternative, got %s", got)
	}
	if bundle.EscalationOnly {
		t.Fatalf("SNAD without fraud must not be escalation-only")
	}
}

func TestRecommendFraudEscalationOnly(t *testing.T) {
	e := newTestEngine()

	bundle, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.LabelSNAD, Tag: snad.TagFraud})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !bundle.EscalationOnly {
		t.Fatalf("expected escalation-only bundle")
	}
	if bundle.Alternative != nil {
		t.Fatalf("escalation-only bundle must not offer an alternative, got %+v", bundle.Alternative)
	}
}

func TestRecommendNeutral(t *testing.T) {
	e := newTestEngine()

	bundle, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.LabelNeutral})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if bundle.Primary.FeeAllocation != BuyerPays {
		t.Fatalf("expected buyer_pays primary, got %s", bundle.Primary.FeeAllocation)
	}
	if bundle.Alternative == nil || bundle.Alternative.FeeAllocation != Shared {
		t.Fatalf("expected shared goodwill alternative, got %+v", bundle.Alternative)
	}
	if got := bundle.Alternative.RefundPercent.String(); got != "5-10%" {
		t.Fatalf("expected 5-10%% goodwill, got %s", got)
	}
	// The quoted fee comes from the configured minor-unit amount.
	if !strings.Contains(bundle.Primary.Details, "NT$60") {
		t.Fatalf("expected partner-store return fee in details, got %q", bundle.Primary.Details)
	}
}

func TestRecommendNeutralSizing(t *testing.T) {
	e := newTestEngine()

	bundle, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.LabelNeutral, Tag: snad.TagSizing})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got := bundle.Alternative.RefundPercent.String(); got != "~10%" {
		t.Fatalf("expected ~10%% sizing goodwill, got %s", got)
	}
	if !strings.Contains(bundle.Alternative.Details, "sizing") {
		t.Fatalf("expected sizing convention in details, got %q", bundle.Alternative.Details)
	}
}

func TestRecommendNotSnad(t *testing.T) {
	e := newTestEngine()

	bundle, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.LabelNotSnad})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if bundle.Primary.Label != "Seller May Decline" {
		t.Fatalf("expected decline option, got %q", bundle.Primary.Label)
	}
	if bundle.Primary.FeeAllocation == SellerPays {
		t.Fatalf("Not SNAD must never allocate fees to the seller")
	}
	if bundle.Alternative != nil && bundle.Alternative.FeeAllocation == SellerPays {
		t.Fatalf("Not SNAD alternative must never allocate fees to the seller")
	}
	if got := bundle.Alternative.RefundPercent.String(); got != "50-80%" {
		t.Fatalf("expected 50-80%% negotiated range, got %s", got)
	}
}

func TestRecommendIneligible(t *testing.T) {
	e := newTestEngine()

	_, err := e.Recommend(eligibility.Verdict{}, snad.Verdict{Label: snad.LabelSNAD})
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestRecommendUnknownLabel(t *testing.T) {
	e := newTestEngine()

	_, err := e.Recommend(eligibleVerdict(), snad.Verdict{Label: snad.Label("Maybe")})
	if err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestPercentRangeString(t *testing.T) {
	if got := (PercentRange{Min: 15, Max: 30}).String(); got != "15-30%" {
		t.Fatalf("got %s", got)
	}
	if got := (PercentRange{Min: 10, Max: 10}).String(); got != "~10%" {
		t.Fatalf("got %s", got)
	}
}
