package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/smallbiznis/arbiter/internal/analysis/domain"
	"github.com/smallbiznis/arbiter/internal/cache"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/clock"
	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/events"
	"github.com/smallbiznis/arbiter/internal/observability/metrics"
	"github.com/smallbiznis/arbiter/internal/policy"
	"github.com/smallbiznis/arbiter/internal/recommend"
	"github.com/smallbiznis/arbiter/internal/snad"
	"github.com/smallbiznis/arbiter/internal/summary"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resultCacheTTL = 5 * time.Minute

var tracer = otel.Tracer("arbiter/analysis")

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Cases      casefiledomain.Service
	Gate       *eligibility.Gate
	Classifier *snad.Classifier
	Engine     *recommend.Engine
	Renderer   *summary.Renderer
	Policy     *policy.Snapshot
	Outbox     *events.Outbox
	Metrics    *metrics.CaseMetrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	clock      clock.Clock
	cases      casefiledomain.Service
	gate       *eligibility.Gate
	classifier *snad.Classifier
	engine     *recommend.Engine
	renderer   *summary.Renderer
	policy     *policy.Snapshot
	outbox     *events.Outbox
	metrics    *metrics.CaseMetrics
	results    *cache.TTLCache[string, *analysisdomain.Result]
}

func NewService(p ServiceParam) analysisdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("analysis.service"),

		genID:      p.GenID,
		clock:      p.Clock,
		cases:      p.Cases,
		gate:       p.Gate,
		classifier: p.Classifier,
		engine:     p.Engine,
		renderer:   p.Renderer,
		policy:     p.Policy,
		outbox:     p.Outbox,
		metrics:    p.Metrics,
		results:    cache.NewTTLCache[string, *analysisdomain.Result](),
	}
}

// Analyze runs the full pipeline for one case: assemble context, gate,
// classify, recommend, summarize, persist. The persisted result is what GET
// replays; a re-run overwrites the cache and appends a new record.
func (s *Service) Analyze(ctx context.Context, caseRef string) (*analysisdomain.Result, error) {
	ctx, span := tracer.Start(ctx, "analysis.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("case.ref", caseRef))

	started := time.Now()
	defer func() { s.metrics.ObserveAnalysisDuration(time.Since(started)) }()

	cc, err := s.cases.Build(ctx, caseRef)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	verdict := s.gate.Evaluate(cc.Order, now)

	var result *analysisdomain.Result
	if !verdict.Eligible() {
		result = s.outOfScope(cc, verdict)
	} else {
		result, err = s.inScope(cc, verdict, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.persist(ctx, cc.Case, result); err != nil {
		return nil, err
	}
	s.results.Set(caseRef, result, resultCacheTTL)
	s.metrics.IncAnalyses(result.SnadResult.Label)

	s.log.Info("analysis completed",
		zap.String("case_ref", caseRef),
		zap.Bool("eligible", result.Eligibility.Eligible()),
		zap.String("label", result.SnadResult.Label),
	)
	return result, nil
}

// LastResult replays the most recent persisted analysis without re-running
// the pipeline.
func (s *Service) LastResult(ctx context.Context, caseRef string) (*analysisdomain.Result, error) {
	if cached, ok := s.results.Get(caseRef); ok {
		return cached, nil
	}

	var record analysisdomain.AnalysisRecord
	err := s.db.WithContext(ctx).
		Where("case_ref = ?", caseRef).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, analysisdomain.ErrNoAnalysis
		}
		return nil, err
	}

	var result analysisdomain.Result
	if err := json.Unmarshal(record.Result, &result); err != nil {
		return nil, fmt.Errorf("decode analysis record %d: %w", record.ID, err)
	}
	s.results.Set(caseRef, &result, resultCacheTTL)
	return &result, nil
}

// outOfScope builds the response for an inadmissible dispute. No
// classification happens; the parties get self-negotiation guidance and the
// evidence checklist so a later admissible case arrives complete.
func (s *Service) outOfScope(cc *casefiledomain.CaseContext, verdict eligibility.Verdict) *analysisdomain.Result {
	result := &analysisdomain.Result{
		Eligibility: toWireEligibility(verdict),
		SnadResult: analysisdomain.SnadResult{
			Label:         string(snad.LabelNeutral),
			Reason:        "Outside platform protection; no determination was made.",
			PolicyAnchors: []string{policy.AnchorOutOfScope},
		},
		Recommendation: analysisdomain.Recommendation{
			PrimaryOption: analysisdomain.Option{
				Label:   "Self-Negotiation",
				Details: "The platform cannot adjudicate this dispute. The parties should negotiate directly; suspected violations can be reported for account review.",
			},
		},
		EvidenceChecklist: s.evidenceChecklist(nil),
		NegotiationScript: s.clauseText(policy.AnchorNegotiateFirst),
	}
	result.CaseSummary = s.renderer.Render(summary.Input{
		Context:     *cc,
		Eligibility: verdict,
		Now:         s.clock.Now(),
	})
	return result
}

func (s *Service) inScope(cc *casefiledomain.CaseContext, elig eligibility.Verdict, now time.Time) (*analysisdomain.Result, error) {
	verdict := s.classifier.Classify(snad.Input{
		Listing:   cc.Listing,
		Complaint: cc.Complaint,
		Chat:      cc.Chat,
	})

	bundle, err := s.engine.Recommend(elig, verdict)
	if err != nil {
		return nil, err
	}

	result := &analysisdomain.Result{
		Eligibility: toWireEligibility(elig),
		SnadResult: analysisdomain.SnadResult{
			Label:         string(verdict.Label),
			Reason:        verdict.Reason,
			PolicyAnchors: verdict.Anchors,
		},
		Recommendation: toWireRecommendation(bundle),
	}

	if len(verdict.MissingEvidence) > 0 {
		result.EvidenceChecklist = s.evidenceChecklist(verdict.MissingEvidence)
	}
	if !bundle.EscalationOnly {
		result.NegotiationScript = s.negotiationScript(bundle)
	}

	result.CaseSummary = s.renderer.Render(summary.Input{
		Context:        *cc,
		Eligibility:    elig,
		Verdict:        verdict,
		Recommendation: bundle,
		Now:            now,
	})
	return result, nil
}

func (s *Service) persist(ctx context.Context, c casefiledomain.DisputeCase, result *analysisdomain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}

	record := analysisdomain.AnalysisRecord{
		ID:        s.genID.Generate(),
		CaseID:    c.ID,
		CaseRef:   c.Ref,
		Result:    raw,
		CreatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		payload := events.AnalysisPayload{
			CaseRef:        c.Ref,
			Eligible:       result.Eligibility.Eligible(),
			Label:          result.SnadResult.Label,
			EscalationOnly: result.Recommendation.AlternativeOption == nil && result.Eligibility.Eligible(),
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			CaseID:    c.ID,
			Type:      events.EventAnalysisCompleted,
			Payload:   payload.ToMap(),
			DedupeKey: fmt.Sprintf("analysis:%d", record.ID),
		})
	})
}

// evidenceChecklist renders the evidence clauses as plain strings. A nil
// filter means the full set; otherwise only the listed anchors.
func (s *Service) evidenceChecklist(anchors []string) []string {
	clauses := s.policy.ByCategory(policy.LanguageEN, policy.CategoryEvidence)
	wanted := map[string]bool{}
	for _, anchor := range anchors {
		wanted[anchor] = true
	}

	var out []string
	for _, clause := range clauses {
		if anchors != nil && !wanted[clause.Anchor] {
			continue
		}
		out = append(out, fmt.Sprintf("[%s] %s", clause.Anchor, clause.Text))
	}
	return out
}

func (s *Service) negotiationScript(bundle *recommend.Bundle) string {
	var b strings.Builder
	if guidance := s.clauseText(policy.AnchorSummaryGuidance); guidance != "" {
		b.WriteString(guidance)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "Suggested opening: %q. %s", bundle.Primary.Label, bundle.Primary.Details)
	if bundle.Alternative != nil {
		fmt.Fprintf(&b, " If declined, offer: %q. %s", bundle.Alternative.Label, bundle.Alternative.Details)
	}
	return b.String()
}

func (s *Service) clauseText(anchor string) string {
	clause, err := s.policy.Get(policy.LanguageEN, anchor)
	if err != nil {
		s.log.Warn("policy anchor missing", zap.String("anchor", anchor), zap.Error(err))
		return ""
	}
	return clause.Text
}

func toWireEligibility(v eligibility.Verdict) analysisdomain.Eligibility {
	return analysisdomain.Eligibility{
		R1:    v.R1ProtectedChannel,
		R2:    v.R2WithinWindow,
		R3:    v.R3NotComplete,
		Notes: v.Notes,
	}
}

func toWireRecommendation(bundle *recommend.Bundle) analysisdomain.Recommendation {
	rec := analysisdomain.Recommendation{
		PrimaryOption: analysisdomain.Option{
			Label:   bundle.Primary.Label,
			Details: bundle.Primary.Details,
		},
	}
	if bundle.Alternative != nil {
		rec.AlternativeOption = &analysisdomain.Option{
			Label:   bundle.Alternative.Label,
			Details: bundle.Alternative.Details,
		}
	}
	return rec
}
