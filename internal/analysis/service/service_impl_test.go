package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/smallbiznis/arbiter/internal/analysis/domain"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	caserepo "github.com/smallbiznis/arbiter/internal/casefile/repository"
	casefileservice "github.com/smallbiznis/arbiter/internal/casefile/service"
	"github.com/smallbiznis/arbiter/internal/clock"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/events"
	"github.com/smallbiznis/arbiter/internal/migration"
	"github.com/smallbiznis/arbiter/internal/policy"
	"github.com/smallbiznis/arbiter/internal/recommend"
	"github.com/smallbiznis/arbiter/internal/seed"
	"github.com/smallbiznis/arbiter/internal/snad"
	"github.com/smallbiznis/arbiter/internal/summary"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAnalysisDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := migration.Run(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	if err := seed.EnsureDemoCases(context.Background(), db, node); err != nil {
		t.Fatalf("seed demo cases: %v", err)
	}
	return db, node
}

func newTestService(t *testing.T, db *gorm.DB, node *snowflake.Node) analysisdomain.Service {
	t.Helper()
	snapshot, err := policy.Load()
	if err != nil {
		t.Fatalf("load policy: %v", err)
	}

	var cfg config.Config
	cfg.Dispute.ResponseTimeoutHours = 24

	log := zap.NewNop()
	return NewService(ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clock.SystemClock{},
		Cases: casefileservice.NewService(casefileservice.ServiceParam{
			Log:  log,
			Repo: caserepo.Provide(db),
		}),
		Gate:       eligibility.NewGate(eligibility.DefaultConfig()),
		Classifier: snad.NewClassifier(snad.ClassifierParam{Log: log}),
		Engine:     recommend.NewEngine(recommend.EngineParam{Log: log, Cfg: recommend.DefaultConfig()}),
		Renderer:   summary.NewRenderer(cfg),
		Policy:     snapshot,
		Outbox:     events.NewOutbox(db, node),
	})
}

func TestAnalyzeSnadCase(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	result, err := svc.Analyze(context.Background(), "TW-10567")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !result.Eligibility.R1 || !result.Eligibility.R2 || !result.Eligibility.R3 {
		t.Fatalf("expected all eligibility rules to pass: %+v", result.Eligibility)
	}
	if result.SnadResult.Label != "SNAD" {
		t.Fatalf("expected SNAD, got %q (%s)", result.SnadResult.Label, result.SnadResult.Reason)
	}
	if result.Recommendation.PrimaryOption.Label != "Return & Full Refund" {
		t.Fatalf("expected full-refund primary, got %q", result.Recommendation.PrimaryOption.Label)
	}
	if result.Recommendation.AlternativeOption == nil {
		t.Fatalf("expected a partial-refund alternative")
	}
	if !strings.Contains(result.CaseSummary, "TW-10567") {
		t.Fatalf("summary does not mention the case:\n%s", result.CaseSummary)
	}
	if result.NegotiationScript == "" {
		t.Fatalf("expected a negotiation script")
	}
}

func TestAnalyzeOutOfScopeCase(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	result, err := svc.Analyze(context.Background(), "TW-16852")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Eligibility.R2 {
		t.Fatalf("expected the dispute window check to fail: %+v", result.Eligibility)
	}
	if result.SnadResult.Label != "Neutral" {
		t.Fatalf("expected Neutral for out-of-scope, got %q", result.SnadResult.Label)
	}
	if !hasAnchor(result.SnadResult.PolicyAnchors, policy.AnchorOutOfScope) {
		t.Fatalf("expected out-of-scope anchor, got %v", result.SnadResult.PolicyAnchors)
	}
	if result.Recommendation.PrimaryOption.Label != "Self-Negotiation" {
		t.Fatalf("expected self-negotiation guidance, got %q", result.Recommendation.PrimaryOption.Label)
	}
	if len(result.EvidenceChecklist) != 4 {
		t.Fatalf("expected the full evidence checklist, got %v", result.EvidenceChecklist)
	}
}

func TestAnalyzeSizingCase(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	result, err := svc.Analyze(context.Background(), "TW-11021")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SnadResult.Label != "Neutral" {
		t.Fatalf("expected Neutral, got %q", result.SnadResult.Label)
	}
	alt := result.Recommendation.AlternativeOption
	if alt == nil || !strings.Contains(alt.Details, "sizing") {
		t.Fatalf("expected sizing-convention goodwill, got %+v", alt)
	}
}

func TestAnalyzeChangeOfMindCase(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	result, err := svc.Analyze(context.Background(), "TW-14012")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SnadResult.Label != "Not SNAD" {
		t.Fatalf("expected Not SNAD, got %q", result.SnadResult.Label)
	}
	if result.Recommendation.PrimaryOption.Label != "Seller May Decline" {
		t.Fatalf("expected decline option, got %q", result.Recommendation.PrimaryOption.Label)
	}
}

func TestAnalyzeUnknownCase(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	_, err := svc.Analyze(context.Background(), "TW-00000")
	if !errors.Is(err, casefiledomain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestLastResultReplaysPersisted(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	first, err := svc.Analyze(context.Background(), "TW-10567")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// A fresh service instance has an empty cache, so the replay must come
	// from the persisted record.
	fresh := newTestService(t, db, node)
	replayed, err := fresh.LastResult(context.Background(), "TW-10567")
	if err != nil {
		t.Fatalf("LastResult: %v", err)
	}
	if replayed.SnadResult.Label != first.SnadResult.Label {
		t.Fatalf("replayed label %q differs from %q", replayed.SnadResult.Label, first.SnadResult.Label)
	}
	if replayed.CaseSummary != first.CaseSummary {
		t.Fatalf("replayed summary differs from the original")
	}
}

func TestLastResultNoAnalysis(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	_, err := svc.LastResult(context.Background(), "TW-11021")
	if !errors.Is(err, analysisdomain.ErrNoAnalysis) {
		t.Fatalf("expected ErrNoAnalysis, got %v", err)
	}
}

func TestAnalyzeWritesOutboxEvent(t *testing.T) {
	db, node := setupAnalysisDB(t)
	svc := newTestService(t, db, node)

	if _, err := svc.Analyze(context.Background(), "TW-10567"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var count int64
	err := db.Table("case_events").
		Where("event_type = ?", events.EventAnalysisCompleted).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one analysis event, got %d", count)
	}
}

func hasAnchor(anchors []string, anchor string) bool {
	for _, a := range anchors {
		if a == anchor {
			return true
		}
	}
	return false
}
