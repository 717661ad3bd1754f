package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/clock"
	"github.com/smallbiznis/arbiter/internal/events"
	"github.com/smallbiznis/arbiter/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkerParams struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    casefiledomain.Repository
	Outbox  *events.Outbox
	Clock   clock.Clock
	Metrics *metrics.CaseMetrics `optional:"true"`
	Config  Config               `optional:"true"`
}

// Worker sweeps pending cases and escalates the ones whose deadlines
// lapsed. One sweep is one transaction; a crashed sweep leaves every case
// untouched and the next tick retries.
type Worker struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    casefiledomain.Repository
	outbox  *events.Outbox
	clock   clock.Clock
	metrics *metrics.CaseMetrics
	cfg     Config
}

func NewWorker(p WorkerParams) *Worker {
	return &Worker{
		db:      p.DB,
		log:     p.Log.Named("lifecycle.worker"),
		repo:    p.Repo,
		outbox:  p.Outbox,
		clock:   p.Clock,
		metrics: p.Metrics,
		cfg:     p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("escalation sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single sweep and returns how many cases escalated.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.db == nil || w.repo == nil || w.outbox == nil {
		return 0, errors.New("escalation_worker_unavailable")
	}

	now := w.clock.Now()
	escalated := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cases, err := w.repo.ListPendingResponse(ctx, tx, w.cfg.BatchSize)
		if err != nil {
			return err
		}
		w.metrics.SetPendingBacklog(len(cases))
		for _, c := range cases {
			trigger, ok := CheckTrigger(c, now, w.cfg.Deadlines)
			if !ok {
				continue
			}
			if err := w.escalate(ctx, tx, c, trigger, now); err != nil {
				return err
			}
			w.metrics.IncEscalations(string(trigger))
			escalated++
		}
		return nil
	})
	if err != nil {
		return escalated, err
	}
	if escalated > 0 {
		w.log.Info("cases auto-escalated", zap.Int("count", escalated))
	}
	return escalated, nil
}

func (w *Worker) escalate(ctx context.Context, tx *gorm.DB, c casefiledomain.DisputeCase, trigger Trigger, now time.Time) error {
	if err := Guard(c.Status, casefiledomain.CaseStatusEscalated); err != nil {
		return err
	}

	escalatedAt := now
	update := casefiledomain.StatusUpdate{
		CaseID:      c.ID,
		Status:      casefiledomain.CaseStatusEscalated,
		EscalatedAt: &escalatedAt,
	}
	if err := w.repo.UpdateStatus(ctx, tx, update); err != nil {
		return err
	}

	payload := events.EscalationPayload{
		CaseRef: c.Ref,
		Trigger: string(trigger),
	}
	return w.outbox.PublishTx(ctx, tx, events.Event{
		CaseID:    c.ID,
		Type:      events.EventDisputeEscalated,
		Payload:   payload.ToMap(),
		DedupeKey: fmt.Sprintf("escalate:%d", c.ID),
	})
}
