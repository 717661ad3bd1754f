package service

import (
	"context"
	"fmt"

	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo casefiledomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo casefiledomain.Repository
}

func NewService(p ServiceParam) casefiledomain.Service {
	return &Service{
		log:  p.Log.Named("casefile.builder"),
		repo: p.Repo,
	}
}

// Build assembles the evaluation context for a case. Every piece must be
// present; a dispute without a listing snapshot or order facts cannot be
// evaluated.
func (s *Service) Build(ctx context.Context, caseRef string) (*casefiledomain.CaseContext, error) {
	record, err := s.repo.FindCaseByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, casefiledomain.ErrCaseNotFound
	}

	listing, err := s.repo.FindListing(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindOrder(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	complaint, err := s.repo.FindComplaint(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if listing == nil || order == nil || complaint == nil {
		return nil, fmt.Errorf("%w: case %s", casefiledomain.ErrIncompleteContext, caseRef)
	}

	chat, err := s.repo.ListChat(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	return &casefiledomain.CaseContext{
		Case:      *record,
		Listing:   *listing,
		Order:     *order,
		Complaint: *complaint,
		Chat:      chat,
	}, nil
}
