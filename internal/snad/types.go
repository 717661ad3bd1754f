package snad

import (
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
)

// Label is the classification outcome. The strings are part of the wire
// contract consumed by every caller, so they never change.
type Label string

const (
	LabelSNAD    Label = "SNAD"
	LabelNeutral Label = "Neutral"
	LabelNotSnad Label = "Not SNAD"
)

// Tag marks special verdict variants that downstream stages react to.
type Tag string

const (
	TagNone   Tag = ""
	TagFraud  Tag = "fraud"
	TagSizing Tag = "sizing_characteristic"
)

// Verdict is the classification result with its policy citations.
type Verdict struct {
	Label          Label
	Reason         string
	Anchors        []string
	ConfidenceNote string
	Tag            Tag

	// MissingEvidence lists the evidence anchors still required when the
	// verdict was reached on insufficient evidence.
	MissingEvidence []string
}

// FraudFlagged reports whether the verdict carries the fraud tag, which
// forces escalation-only handling downstream.
func (v Verdict) FraudFlagged() bool { return v.Tag == TagFraud }

// Input is everything the classifier reads. It is treated as read-only.
type Input struct {
	Listing   casefiledomain.ListingSnapshot
	Complaint casefiledomain.ComplaintRecord
	Chat      []casefiledomain.ChatMessage
}

// claims flattens the extracted claims across all evidence items, in
// submission order.
func (in Input) claims() []string {
	var out []string
	for _, item := range in.Complaint.Evidence {
		out = append(out, item.ExtractedClaims...)
	}
	return out
}

// hasStructuredEvidence reports whether any evidence item carries at least
// one extracted claim. Raw attachments without claims cannot be classified.
func (in Input) hasStructuredEvidence() bool {
	for _, item := range in.Complaint.Evidence {
		if len(item.ExtractedClaims) > 0 {
			return true
		}
	}
	return false
}

// sellerSaid reports whether any seller chat message contains the phrase.
func (in Input) sellerSaid(phrase string) bool {
	for _, msg := range in.Chat {
		if msg.Sender != casefiledomain.SenderSeller {
			continue
		}
		if containsFold(msg.Text, phrase) {
			return true
		}
	}
	return false
}
