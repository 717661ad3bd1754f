package snad

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/arbiter/internal/policy"
)

// Rule is one step of the classification chain. Rules run in slice order and
// the first rule that applies decides the verdict, so priority lives in the
// ordering, not in the predicates.
type Rule struct {
	Name  string
	Apply func(Input) (Verdict, bool)
}

// DefaultRules returns the classification chain:
//
//  1. insufficient_evidence: no structured claims means no determination at
//     all; pre-empts everything else.
//  2. fraud_override: identifier mismatch or forged-document signals force a
//     fraud-tagged SNAD that downstream turns into escalation-only. Placed
//     ahead of the contradiction rule so a fraud case can never pick up an
//     automated remedy.
//  3. explicit_contradiction: an extracted claim negates a disclosed
//     attribute or a seller assurance on a material aspect.
//  4. disclosed_or_characteristic: the complaint concerns something the
//     listing disclosed or a known product characteristic.
//  5. default_neutral: always applies; ambiguity resolves to Neutral, never
//     to a guess.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "insufficient_evidence", Apply: applyInsufficientEvidence},
		{Name: "fraud_override", Apply: applyFraudOverride},
		{Name: "explicit_contradiction", Apply: applyExplicitContradiction},
		{Name: "disclosed_or_characteristic", Apply: applyDisclosedOrCharacteristic},
		{Name: "default_neutral", Apply: applyDefaultNeutral},
	}
}

// minimumEvidenceSet lists what a determination minimally needs, by anchor.
func minimumEvidenceSet() []string {
	return []string{
		policy.AnchorEvidenceListing,
		policy.AnchorEvidenceUnboxing,
		policy.AnchorEvidenceChat,
		policy.AnchorEvidenceLogistics,
	}
}

func applyInsufficientEvidence(in Input) (Verdict, bool) {
	if in.hasStructuredEvidence() {
		return Verdict{}, false
	}
	return Verdict{
		Label:           LabelNeutral,
		Reason:          "No usable evidence on record. Please provide the listing text and photos, receipt photos or an unboxing video, the in-app chat log, and the logistics receipt.",
		Anchors:         []string{policy.AnchorInsufficientEvid, policy.AnchorChecklistGuidance},
		ConfidenceNote:  "no determination made; awaiting minimum evidence set",
		MissingEvidence: minimumEvidenceSet(),
	}, true
}

// fraudClaims are the extracted-claim codes that indicate identifier
// mismatch or forged documentation.
var fraudClaims = map[string]string{
	"serial-mismatch":          "serial number does not match the listed device",
	"imei-mismatch":            "IMEI does not match the listed device",
	"forged-document-detected": "submitted documentation appears forged",
	"counterfeit-suspected":    "item shows counterfeit indicators",
}

func applyFraudOverride(in Input) (Verdict, bool) {
	for _, claim := range in.claims() {
		detail, ok := fraudClaims[claim]
		if !ok {
			continue
		}
		return Verdict{
			Label:          LabelSNAD,
			Reason:         fmt.Sprintf("Suspected counterfeit: %s. High-risk category; mandatory human review.", detail),
			Anchors:        []string{policy.AnchorSnadCriterion, policy.AnchorFraudBan},
			Tag:            TagFraud,
			ConfidenceNote: "automated remedies withheld for fraud-flagged cases",
		}, true
	}
	return Verdict{}, false
}

// materialFinding describes an extracted claim that, when neither disclosed
// in the listing nor consistent with the seller's chat assurances, is a
// material contradiction. Aspects cover condition, authenticity, core
// function, and factory-original state.
type materialFinding struct {
	aspect         string
	description    string
	flawKeyword    string
	assuranceHints []string
}

var materialFindings = map[string]materialFinding{
	"display-replaced-detected": {
		aspect:         "factory-original state",
		description:    "display replacement",
		flawKeyword:    "repair",
		assuranceHints: []string{"no major repairs", "never repaired", "all original"},
	},
	"part-replaced-detected": {
		aspect:         "factory-original state",
		description:    "non-original replacement part",
		flawKeyword:    "repair",
		assuranceHints: []string{"no major repairs", "all original"},
	},
	"refurbished-detected": {
		aspect:         "condition",
		description:    "refurbishment",
		flawKeyword:    "refurbish",
		assuranceHints: []string{"never refurbished", "all original"},
	},
	"function-fault-detected": {
		aspect:         "core function",
		description:    "functional fault",
		flawKeyword:    "fault",
		assuranceHints: []string{"fully functional", "works perfectly"},
	},
	"burn-in-detected": {
		aspect:         "condition",
		description:    "screen burn-in",
		flawKeyword:    "burn",
		assuranceHints: []string{"no screen issues"},
	},
	"color-mismatch-detected": {
		aspect:         "condition",
		description:    "severe color discrepancy against the listing photos",
		flawKeyword:    "color",
		assuranceHints: []string{"color as pictured", "photos untouched"},
	},
	"missing-accessory-detected": {
		aspect:         "condition",
		description:    "missing accessory that the listing promised",
		flawKeyword:    "accessor",
		assuranceHints: []string{"complete set", "full set"},
	},
}

func applyExplicitContradiction(in Input) (Verdict, bool) {
	for _, claim := range in.claims() {
		finding, ok := materialFindings[claim]
		if !ok {
			continue
		}
		if in.Listing.HasDisclosedFlaw(finding.flawKeyword) {
			// Disclosed in the listing; not a contradiction.
			continue
		}

		reason := fmt.Sprintf("Undisclosed %s contradicts the listing (%s).", finding.description, finding.aspect)
		for _, hint := range finding.assuranceHints {
			if in.sellerSaid(hint) {
				reason = fmt.Sprintf("Undisclosed %s contradicts the seller's assurance %q (%s).", finding.description, hint, finding.aspect)
				break
			}
		}

		return Verdict{
			Label:   LabelSNAD,
			Reason:  reason,
			Anchors: []string{policy.AnchorSnadCriterion, policy.AnchorSnadDefinition},
		}, true
	}
	return Verdict{}, false
}

// characteristicClaims are external-knowledge claims about the product line
// rather than this unit: the discrepancy is real but not the seller's doing.
var characteristicClaims = map[string]string{
	"known-runs-small":                  "this model runs about half a size smaller by design",
	"known-sizing-quirk":                "known sizing characteristic of this model",
	"known-battery-variance":            "battery life varies with usage conditions for this model",
	"size-label-matches":                "the label matches the listed size",
	"shipping-damage-despite-packaging": "damage in transit despite adequate packaging",
	"ambiguous-accessory-expectation":   "the listing made no complete-set claim",
}

var sizingClaims = map[string]bool{
	"known-runs-small":   true,
	"known-sizing-quirk": true,
	"size-label-matches": true,
}

var subjectivePhrases = []string{
	"changed my mind",
	"change of mind",
	"don't like",
	"do not like",
	"not my style",
	"no longer want",
	"regret buying",
}

func applyDisclosedOrCharacteristic(in Input) (Verdict, bool) {
	subjective := subjectiveComplaint(in.Complaint.ComplaintText)

	var characteristic string
	var sizing bool
	for _, claim := range in.claims() {
		if detail, ok := characteristicClaims[claim]; ok {
			characteristic = detail
			sizing = sizing || sizingClaims[claim]
			break
		}
	}

	disclosed := complaintMatchesDisclosedFlaw(in)

	if characteristic == "" && !disclosed && !subjective {
		return Verdict{}, false
	}

	if subjective && characteristic == "" && !disclosed {
		return Verdict{
			Label:   LabelNotSnad,
			Reason:  "Buyer's change of mind; no factual discrepancy between the item and the listing.",
			Anchors: []string{policy.AnchorNotSnad},
		}, true
	}

	verdict := Verdict{
		Label:   LabelNeutral,
		Anchors: []string{policy.AnchorNotSnad},
	}
	switch {
	case characteristic != "":
		verdict.Reason = fmt.Sprintf("Factual discrepancy not attributable to either party: %s.", characteristic)
		if sizing {
			verdict.Tag = TagSizing
		}
	default:
		verdict.Reason = "The complaint concerns a flaw the listing already disclosed."
	}
	return verdict, true
}

func applyDefaultNeutral(Input) (Verdict, bool) {
	return Verdict{
		Label:          LabelNeutral,
		Reason:         "Ambiguous: insufficient signal for a definitive determination.",
		Anchors:        []string{policy.AnchorInsufficientEvid},
		ConfidenceNote: "both accounts plausible; fault cannot be assigned",
	}, true
}

func subjectiveComplaint(text string) bool {
	for _, phrase := range subjectivePhrases {
		if containsFold(text, phrase) {
			return true
		}
	}
	return false
}

func complaintMatchesDisclosedFlaw(in Input) bool {
	for _, flaw := range in.Listing.DisclosedFlaws {
		if flaw == "" {
			continue
		}
		if containsFold(in.Complaint.ComplaintText, flaw) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
