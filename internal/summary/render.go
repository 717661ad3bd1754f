package summary

import (
	"fmt"
	"strings"
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/eligibility"
	obslogger "github.com/smallbiznis/arbiter/internal/observability/logger"
	"github.com/smallbiznis/arbiter/internal/recommend"
	"github.com/smallbiznis/arbiter/internal/snad"
	"go.uber.org/fx"
)

// Renderer produces the human-readable case summary. Output is a pure
// function of its inputs; the same case facts always render byte-identical
// text, so summaries can be diffed and cached safely.
type Renderer struct {
	responseTimeout time.Duration
}

func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{responseTimeout: cfg.ResponseTimeout()}
}

// Input is everything one summary needs.
type Input struct {
	Context        casefiledomain.CaseContext
	Eligibility    eligibility.Verdict
	Verdict        snad.Verdict
	Recommendation *recommend.Bundle
	Now            time.Time
}

func mark(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// Render builds the summary. Sections appear in fixed order: order facts,
// admissibility, listing, complaint, determination, options, timeline.
func (r *Renderer) Render(in Input) string {
	var b strings.Builder

	r.renderHeader(&b, in)
	r.renderEligibility(&b, in)
	r.renderListing(&b, in)
	r.renderComplaint(&b, in)
	r.renderDetermination(&b, in)
	r.renderOptions(&b, in)
	r.renderTimeline(&b, in)

	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) renderHeader(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "Case %s / order %s, opened %s.\n",
		in.Context.Case.Ref,
		in.Context.Order.OrderNumber,
		in.Context.Case.OpenedAt.UTC().Format(time.RFC3339))
}

func (r *Renderer) renderEligibility(b *strings.Builder, in Input) {
	v := in.Eligibility
	fmt.Fprintf(b, "Admissibility: R1 protected channel %s, R2 within window %s, R3 order not complete %s.\n",
		mark(v.R1ProtectedChannel), mark(v.R2WithinWindow), mark(v.R3NotComplete))
	if v.Notes != "" {
		fmt.Fprintf(b, "Notes: %s.\n", v.Notes)
	}
	if !v.Eligible() {
		b.WriteString("The dispute falls outside platform protection; no determination was made.\n")
	}
}

func (r *Renderer) renderListing(b *strings.Builder, in Input) {
	listing := in.Context.Listing
	fmt.Fprintf(b, "Listing: %q, priced %s, condition %q.",
		listing.Title, formatMinor(listing.PriceMinor), listing.ConditionTag)
	if len(listing.DisclosedFlaws) > 0 {
		fmt.Fprintf(b, " Disclosed flaws: %s.", strings.Join(listing.DisclosedFlaws, "; "))
	} else {
		b.WriteString(" No flaws disclosed.")
	}
	b.WriteString("\n")
}

func (r *Renderer) renderComplaint(b *strings.Builder, in Input) {
	complaint := in.Context.Complaint
	// Summaries circulate beyond the case parties; phone numbers pasted
	// into complaint text stay masked.
	fmt.Fprintf(b, "Complaint (raised %s): %s\n",
		complaint.RaisedAt.UTC().Format(time.RFC3339), obslogger.MaskContact(complaint.ComplaintText))

	if len(complaint.Evidence) == 0 {
		b.WriteString("Evidence: none submitted.\n")
		return
	}
	kinds := make([]string, 0, len(complaint.Evidence))
	claims := 0
	for _, item := range complaint.Evidence {
		kinds = append(kinds, string(item.Kind))
		claims += len(item.ExtractedClaims)
	}
	fmt.Fprintf(b, "Evidence: %d item(s) (%s), %d extracted claim(s).\n",
		len(complaint.Evidence), strings.Join(kinds, ", "), claims)
}

func (r *Renderer) renderDetermination(b *strings.Builder, in Input) {
	if !in.Eligibility.Eligible() {
		return
	}
	fmt.Fprintf(b, "Determination: %s. %s", in.Verdict.Label, in.Verdict.Reason)
	if len(in.Verdict.Anchors) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(in.Verdict.Anchors, ", "))
	}
	b.WriteString("\n")
	if in.Verdict.ConfidenceNote != "" {
		fmt.Fprintf(b, "Confidence: %s.\n", in.Verdict.ConfidenceNote)
	}
}

func (r *Renderer) renderOptions(b *strings.Builder, in Input) {
	bundle := in.Recommendation
	if bundle == nil {
		return
	}
	if bundle.EscalationOnly {
		fmt.Fprintf(b, "Handling: %s. %s\n", bundle.Primary.Label, bundle.Primary.Details)
		return
	}
	fmt.Fprintf(b, "Primary option: %s. %s\n", bundle.Primary.Label, bundle.Primary.Details)
	if bundle.Alternative != nil {
		fmt.Fprintf(b, "Alternative: %s. %s\n", bundle.Alternative.Label, bundle.Alternative.Details)
	}
}

func (r *Renderer) renderTimeline(b *strings.Builder, in Input) {
	c := in.Context.Case
	switch {
	case c.ResolvedAt != nil:
		fmt.Fprintf(b, "Timeline: resolved %s.\n", c.ResolvedAt.UTC().Format(time.RFC3339))
	case c.EscalatedAt != nil:
		fmt.Fprintf(b, "Timeline: escalated to CS %s; awaiting staff adjudication.\n",
			c.EscalatedAt.UTC().Format(time.RFC3339))
	case c.RespondBy != nil:
		fmt.Fprintf(b, "Timeline: awaiting response by %s; the case auto-escalates after %d hours of inactivity.\n",
			c.RespondBy.UTC().Format(time.RFC3339), int(r.responseTimeout.Hours()))
	default:
		fmt.Fprintf(b, "Timeline: case %s; responses are due within %d hours of each turn.\n",
			c.Status, int(r.responseTimeout.Hours()))
	}
}

// formatMinor renders a minor-unit amount as a plain decimal string.
func formatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

var Module = fx.Module("summary",
	fx.Provide(NewRenderer),
)
