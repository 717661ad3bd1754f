package summary

import (
	"strings"
	"testing"
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/recommend"
	"github.com/smallbiznis/arbiter/internal/snad"
	"gorm.io/datatypes"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	cfg := config.Config{}
	cfg.Dispute.ResponseTimeoutHours = 24
	return NewRenderer(cfg)
}

func testInput() Input {
	opened := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	respondBy := opened.Add(24 * time.Hour)
	return Input{
		Context: casefiledomain.CaseContext{
			Case: casefiledomain.DisputeCase{
				Ref:       "TW-10567",
				Status:    casefiledomain.CaseStatusPendingSellerResponse,
				OpenedAt:  opened,
				RespondBy: &respondBy,
			},
			Listing: casefiledomain.ListingSnapshot{
				Title:        "iPhone 13 128G, lightly used",
				PriceMinor:   1550000,
				ConditionTag: "like_new",
			},
			Order: casefiledomain.OrderContext{OrderNumber: "TW-10567"},
			Complaint: casefiledomain.ComplaintRecord{
				RaisedAt:      opened,
				ComplaintText: "Diagnostic report shows the display was replaced.",
				Evidence: []casefiledomain.EvidenceItem{
					{
						Kind:            casefiledomain.EvidenceLogisticsReceipt,
						ExtractedClaims: datatypes.NewJSONSlice([]string{"display-replaced-detected"}),
					},
				},
			},
		},
		Eligibility: eligibility.Verdict{R1ProtectedChannel: true, R2WithinWindow: true, R3NotComplete: true},
		Verdict: snad.Verdict{
			Label:   snad.LabelSNAD,
			Reason:  "Undisclosed display replacement contradicts the listing.",
			Anchors: []string{"SND-501", "DEF-101"},
		},
		Recommendation: &recommend.Bundle{
			Primary: recommend.RemedyOption{
				Label:   "Return & Full Refund",
				Details: "Seller bears round-trip shipping and refunds in full.",
			},
			Alternative: &recommend.RemedyOption{
				Label:   "Partial Refund",
				Details: "15-30% if the buyer elects to keep the item.",
			},
		},
		Now: opened.Add(2 * time.Hour),
	}
}

func TestRenderContainsCaseFacts(t *testing.T) {
	out := testRenderer(t).Render(testInput())

	for _, want := range []string{
		"Case TW-10567 / order TW-10567",
		"R1 protected channel pass, R2 within window pass, R3 order not complete pass",
		"priced 15500.00",
		"Determination: SNAD.",
		"[SND-501, DEF-101]",
		"Primary option: Return & Full Refund.",
		"Alternative: Partial Refund.",
		"awaiting response by 2026-03-02T09:00:00Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer(t)
	in := testInput()

	if first, second := r.Render(in), r.Render(in); first != second {
		t.Fatalf("render is not deterministic:\n%s\n---\n%s", first, second)
	}
}

func TestRenderIneligibleSkipsDetermination(t *testing.T) {
	in := testInput()
	in.Eligibility = eligibility.Verdict{R1ProtectedChannel: true, R3NotComplete: true}
	in.Recommendation = nil

	out := testRenderer(t).Render(in)
	if !strings.Contains(out, "R2 within window fail") {
		t.Fatalf("expected failed window mark:\n%s", out)
	}
	if !strings.Contains(out, "outside platform protection") {
		t.Fatalf("expected out-of-scope note:\n%s", out)
	}
	if strings.Contains(out, "Determination:") {
		t.Fatalf("ineligible case must not render a determination:\n%s", out)
	}
}

func TestRenderEscalationOnlyBundle(t *testing.T) {
	in := testInput()
	in.Recommendation = &recommend.Bundle{
		Primary: recommend.RemedyOption{
			Label:   "Escalate to CS",
			Details: "Human adjudication is mandatory.",
		},
		EscalationOnly: true,
	}

	out := testRenderer(t).Render(in)
	if !strings.Contains(out, "Handling: Escalate to CS.") {
		t.Fatalf("expected escalation handling line:\n%s", out)
	}
	if strings.Contains(out, "Alternative:") {
		t.Fatalf("escalation-only summary must not list alternatives:\n%s", out)
	}
}

func TestRenderEscalatedTimeline(t *testing.T) {
	in := testInput()
	escalatedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	in.Context.Case.EscalatedAt = &escalatedAt
	in.Context.Case.RespondBy = nil

	out := testRenderer(t).Render(in)
	if !strings.Contains(out, "escalated to CS 2026-03-02T10:00:00Z") {
		t.Fatalf("expected escalated timeline:\n%s", out)
	}
}

func TestRenderMasksContactDigits(t *testing.T) {
	in := testInput()
	in.Context.Complaint.ComplaintText = "Display was replaced, call me at 0912345678 to discuss."

	out := testRenderer(t).Render(in)
	if strings.Contains(out, "0912345678") {
		t.Fatalf("expected phone number to be masked:\n%s", out)
	}
	if !strings.Contains(out, "******5678") {
		t.Fatalf("expected masked digits in complaint:\n%s", out)
	}
}
