package lifecycle

import (
	"context"
	"fmt"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/internal/clock"
	"github.com/smallbiznis/arbiter/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   casefiledomain.Repository
	Outbox *events.Outbox
	Clock  clock.Clock
}

// Service applies party-initiated lifecycle changes. The worker owns the
// time-based ones.
type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   casefiledomain.Repository
	outbox *events.Outbox
	clock  clock.Clock
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("lifecycle.service"),
		repo:   p.Repo,
		outbox: p.Outbox,
		clock:  p.Clock,
	}
}

// Escalate moves a case to staff review at either party's request. Allowed
// from any non-terminal state.
func (s *Service) Escalate(ctx context.Context, caseRef string) (*casefiledomain.DisputeCase, error) {
	c, err := s.repo.FindCaseByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, casefiledomain.ErrCaseNotFound
	}
	if err := Guard(c.Status, casefiledomain.CaseStatusEscalated); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := casefiledomain.StatusUpdate{
			CaseID:      c.ID,
			Status:      casefiledomain.CaseStatusEscalated,
			EscalatedAt: &now,
		}
		if err := s.repo.UpdateStatus(ctx, tx, update); err != nil {
			return err
		}
		payload := events.EscalationPayload{
			CaseRef: c.Ref,
			Trigger: string(TriggerManual),
			Manual:  true,
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			CaseID:    c.ID,
			Type:      events.EventDisputeEscalated,
			Payload:   payload.ToMap(),
			DedupeKey: fmt.Sprintf("escalate:%d", c.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	c.Status = casefiledomain.CaseStatusEscalated
	c.EscalatedAt = &now
	s.log.Info("case escalated manually", zap.String("case_ref", caseRef))
	return c, nil
}

// Resolve closes an escalated case with a staff decision. Only escalated
// cases can be resolved by staff; everything else resolves between the
// parties.
func (s *Service) Resolve(ctx context.Context, caseRef string) (*casefiledomain.DisputeCase, error) {
	c, err := s.repo.FindCaseByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, casefiledomain.ErrCaseNotFound
	}
	if err := Guard(c.Status, casefiledomain.CaseStatusResolvedByStaff); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := casefiledomain.StatusUpdate{
			CaseID:     c.ID,
			Status:     casefiledomain.CaseStatusResolvedByStaff,
			ResolvedAt: &now,
		}
		if err := s.repo.UpdateStatus(ctx, tx, update); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			CaseID:    c.ID,
			Type:      events.EventDisputeResolved,
			Payload:   map[string]any{"case_ref": c.Ref, "resolved_by": "staff"},
			DedupeKey: fmt.Sprintf("resolve:%d", c.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	c.Status = casefiledomain.CaseStatusResolvedByStaff
	c.ResolvedAt = &now
	s.log.Info("case resolved by staff", zap.String("case_ref", caseRef))
	return c, nil
}

var Module = fx.Module("lifecycle",
	fx.Provide(provideConfig),
	fx.Provide(NewService),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

// runWorker ties the sweep loop to the fx lifecycle. OnStop cancels the loop
// context and waits for the current sweep to finish.
func runWorker(lc fx.Lifecycle, worker *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				worker.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
