package recommend

import (
	"errors"
	"fmt"

	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/policy"
	"github.com/smallbiznis/arbiter/internal/snad"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FeeAllocation states who bears the return costs of a remedy.
type FeeAllocation string

const (
	SellerPays FeeAllocation = "seller_pays"
	BuyerPays  FeeAllocation = "buyer_pays"
	Shared     FeeAllocation = "shared"
)

// PercentRange is an inclusive refund percentage range.
type PercentRange struct {
	Min int
	Max int
}

func (r PercentRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("~%d%%", r.Min)
	}
	return fmt.Sprintf("%d-%d%%", r.Min, r.Max)
}

// RemedyOption is one concrete remedy with its terms.
type RemedyOption struct {
	Label         string
	Details       string
	FeeAllocation FeeAllocation
	RefundPercent *PercentRange
}

// Bundle is the ranked recommendation. EscalationOnly bundles carry a single
// escalate option and signal mandatory human adjudication.
type Bundle struct {
	Primary        RemedyOption
	Alternative    *RemedyOption
	Anchors        []string
	EscalationOnly bool
}

// Config holds the policy-configurable refund ranges. The values are
// illustrative policy constants, not derived from a formula.
type Config struct {
	SnadPartial     PercentRange
	NeutralGoodwill PercentRange
	SizingGoodwill  PercentRange
	NotSnadPartial  PercentRange
	// ReturnFeeMinor is the flat partner-store return handling fee in minor
	// units, quoted when the buyer bears the return costs.
	ReturnFeeMinor int
}

func DefaultConfig() Config {
	return Config{
		SnadPartial:     PercentRange{Min: 15, Max: 30},
		NeutralGoodwill: PercentRange{Min: 5, Max: 10},
		SizingGoodwill:  PercentRange{Min: 10, Max: 10},
		NotSnadPartial:  PercentRange{Min: 50, Max: 80},
		ReturnFeeMinor:  6000,
	}
}

var (
	ErrNotEligible        = errors.New("recommendation_requires_eligibility")
	ErrInvariantViolation = errors.New("remedy_invariant_violation")
)

// Engine maps a classification to remedy options.
type Engine struct {
	log *zap.Logger
	cfg Config
}

type EngineParam struct {
	fx.In

	Log *zap.Logger
	Cfg Config
}

func NewEngine(p EngineParam) *Engine {
	return &Engine{
		log: p.Log.Named("recommend.engine"),
		cfg: p.Cfg,
	}
}

// Recommend maps the verdict to a remedy bundle. The caller must have
// checked eligibility; invoking this for an out-of-scope case is a
// programming error, not a policy outcome.
func (e *Engine) Recommend(elig eligibility.Verdict, verdict snad.Verdict) (*Bundle, error) {
	if !elig.Eligible() {
		return nil, ErrNotEligible
	}

	var bundle *Bundle
	switch {
	case verdict.FraudFlagged():
		bundle = e.escalationOnly()
	case verdict.Label == snad.LabelSNAD:
		bundle = e.sellerFault()
	case verdict.Label == snad.LabelNeutral:
		bundle = e.neutral(verdict.Tag == snad.TagSizing)
	case verdict.Label == snad.LabelNotSnad:
		bundle = e.buyerRemorse()
	default:
		return nil, fmt.Errorf("unknown snad label %q", verdict.Label)
	}

	if err := checkInvariants(verdict, bundle); err != nil {
		e.log.Error("remedy invariant violated",
			zap.String("label", string(verdict.Label)),
			zap.Error(err),
		)
		return nil, err
	}
	return bundle, nil
}

func (e *Engine) escalationOnly() *Bundle {
	return &Bundle{
		Primary: RemedyOption{
			Label:   "Escalate to CS",
			Details: "High-risk case; human adjudication is mandatory and may include account suspension.",
		},
		Anchors:        []string{policy.AnchorFraudBan, policy.AnchorEscalationHandling},
		EscalationOnly: true,
	}
}

func (e *Engine) sellerFault() *Bundle {
	partial := e.cfg.SnadPartial
	return &Bundle{
		Primary: RemedyOption{
			Label:         "Return & Full Refund",
			Details:       "Seller bears round-trip shipping and refunds in full once the return is confirmed.",
			FeeAllocation: SellerPays,
		},
		Alternative: &RemedyOption{
			Label:         "Partial Refund",
			Details:       fmt.Sprintf("%s if the buyer elects to keep the item.", partial),
			FeeAllocation: SellerPays,
			RefundPercent: &partial,
		},
		Anchors: []string{policy.AnchorFullRefundProposal, policy.AnchorOutcomeFullRefund, policy.AnchorFeeSellerPays},
	}
}

func (e *Engine) neutral(sizing bool) *Bundle {
	goodwill := e.cfg.NeutralGoodwill
	details := fmt.Sprintf("%s goodwill, without admission of fault, if the buyer keeps the item.", goodwill)
	if sizing {
		goodwill = e.cfg.SizingGoodwill
		details = fmt.Sprintf("%s goodwill by sizing-case convention, without admission of fault.", goodwill)
	}
	return &Bundle{
		Primary: RemedyOption{
			Label:         "Return & Refund",
			Details:       fmt.Sprintf("Buyer covers return shipping (flat NT$%d for partner-store returns); no fault attributed to either party.", e.cfg.ReturnFeeMinor/100),
			FeeAllocation: BuyerPays,
		},
		Alternative: &RemedyOption{
			Label:         "Goodwill Partial Refund",
			Details:       details,
			FeeAllocation: Shared,
			RefundPercent: &goodwill,
		},
		Anchors: []string{policy.AnchorOutcomePartial, policy.AnchorFeeBuyerPays, policy.AnchorFeeShared},
	}
}

func (e *Engine) buyerRemorse() *Bundle {
	negotiated := e.cfg.NotSnadPartial
	return &Bundle{
		Primary: RemedyOption{
			Label:         "Seller May Decline",
			Details:       "The seller may lawfully decline the return; no fee penalty applies.",
			FeeAllocation: BuyerPays,
		},
		Alternative: &RemedyOption{
			Label:         "Negotiated Partial Refund",
			Details:       fmt.Sprintf("Pure goodwill; the parties may agree on %s.", negotiated),
			FeeAllocation: BuyerPays,
			RefundPercent: &negotiated,
		},
		Anchors: []string{policy.AnchorOutcomeNotAdmitted, policy.AnchorFeeBuyerPays},
	}
}

// checkInvariants asserts the remedy invariants. A violation is a
// programming defect and must fail loudly rather than be coerced.
func checkInvariants(verdict snad.Verdict, bundle *Bundle) error {
	if verdict.Label != snad.LabelNotSnad {
		return nil
	}
	if bundle.Primary.FeeAllocation == SellerPays {
		return fmt.Errorf("%w: Not SNAD primary with seller_pays", ErrInvariantViolation)
	}
	if bundle.Alternative != nil && bundle.Alternative.FeeAllocation == SellerPays {
		return fmt.Errorf("%w: Not SNAD alternative with seller_pays", ErrInvariantViolation)
	}
	return nil
}

var Module = fx.Module("recommend",
	fx.Provide(provideConfig),
	fx.Provide(NewEngine),
)
