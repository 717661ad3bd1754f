package snad

import (
	"testing"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/policy"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func newTestClassifier() *Classifier {
	return NewClassifier(ClassifierParam{Log: zap.NewNop()})
}

func inputWithClaims(complaint string, claims ...string) Input {
	return Input{
		Complaint: casefiledomain.ComplaintRecord{
			ComplaintText: complaint,
			Evidence: []casefiledomain.EvidenceItem{
				{
					Kind:            casefiledomain.EvidencePhoto,
					ExtractedClaims: datatypes.NewJSONSlice(claims),
				},
			},
		},
	}
}

func TestClassifyInsufficientEvidence(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify(Input{
		Complaint: casefiledomain.ComplaintRecord{ComplaintText: "item is broken"},
	})
	if v.Label != LabelNeutral {
		t.Fatalf("expected Neutral, got %s", v.Label)
	}
	if len(v.MissingEvidence) == 0 {
		t.Fatalf("expected missing evidence anchors")
	}
	if !hasAnchor(v, policy.AnchorInsufficientEvid) {
		t.Fatalf("expected insufficient-evidence anchor, got %v", v.Anchors)
	}
}

func TestClassifyFraudOverride(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify(inputWithClaims("serial does not match", "serial-mismatch"))
	if v.Label != LabelSNAD {
		t.Fatalf("expected SNAD, got %s", v.Label)
	}
	if !v.FraudFlagged() {
		t.Fatalf("expected fraud tag")
	}
	if !hasAnchor(v, policy.AnchorFraudBan) {
		t.Fatalf("expected fraud anchor, got %v", v.Anchors)
	}
}

func TestClassifyFraudBeatsContradiction(t *testing.T) {
	c := newTestClassifier()

	// Both a fraud signal and a material contradiction are present; the
	// fraud rule must win so the case cannot settle automatically.
	v := c.Classify(inputWithClaims("fake and repaired", "display-replaced-detected", "serial-mismatch"))
	if !v.FraudFlagged() {
		t.Fatalf("expected fraud tag, got %+v", v)
	}
}

func TestClassifyExplicitContradiction(t *testing.T) {
	c := newTestClassifier()

	in := inputWithClaims("the screen was replaced", "display-replaced-detected")
	in.Chat = []casefiledomain.ChatMessage{
		{Sender: casefiledomain.SenderSeller, Text: "No major repairs, all original."},
	}

	v := c.Classify(in)
	if v.Label != LabelSNAD {
		t.Fatalf("expected SNAD, got %s", v.Label)
	}
	if v.Tag != TagNone {
		t.Fatalf("expected no tag, got %s", v.Tag)
	}
	if !hasAnchor(v, policy.AnchorSnadCriterion) {
		t.Fatalf("expected SNAD criterion anchor, got %v", v.Anchors)
	}
}

func TestClassifyDisclosedFlawIsNotContradiction(t *testing.T) {
	c := newTestClassifier()

	in := inputWithClaims("the screen was replaced", "display-replaced-detected")
	in.Listing = casefiledomain.ListingSnapshot{
		DisclosedFlaws: datatypes.NewJSONSlice([]string{"screen repair in 2024"}),
	}

	v := c.Classify(in)
	if v.Label == LabelSNAD {
		t.Fatalf("disclosed repair must not classify as SNAD, got %+v", v)
	}
}

func TestClassifySizingCharacteristic(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify(inputWithClaims("shoes run small", "known-runs-small"))
	if v.Label != LabelNeutral {
		t.Fatalf("expected Neutral, got %s", v.Label)
	}
	if v.Tag != TagSizing {
		t.Fatalf("expected sizing tag, got %q", v.Tag)
	}
}

func TestClassifyChangeOfMind(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify(inputWithClaims("works fine, I just changed my mind", "item-condition-confirmed"))
	if v.Label != LabelNotSnad {
		t.Fatalf("expected Not SNAD, got %s", v.Label)
	}
	if !hasAnchor(v, policy.AnchorNotSnad) {
		t.Fatalf("expected not-SNAD anchor, got %v", v.Anchors)
	}
}

func TestClassifyDefaultNeutral(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify(inputWithClaims("battery seems weak", "runtime-measured-informally"))
	if v.Label != LabelNeutral {
		t.Fatalf("expected Neutral fallback, got %s", v.Label)
	}
	if v.Tag != TagNone {
		t.Fatalf("expected no tag on fallback, got %q", v.Tag)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()
	in := inputWithClaims("the screen was replaced", "display-replaced-detected")

	first := c.Classify(in)
	second := c.Classify(in)
	if first.Label != second.Label || first.Reason != second.Reason {
		t.Fatalf("expected identical verdicts, got %+v vs %+v", first, second)
	}
}

func hasAnchor(v Verdict, anchor string) bool {
	for _, a := range v.Anchors {
		if a == anchor {
			return true
		}
	}
	return false
}
