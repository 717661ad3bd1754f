package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	casefiledomain "github.com/smallbiznis/arbiter/internal/casefile/domain"
	"github.com/smallbiznis/arbiter/pkg/repository"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB

	cases      repository.Repository[casefiledomain.DisputeCase]
	listings   repository.Repository[casefiledomain.ListingSnapshot]
	orders     repository.Repository[casefiledomain.OrderContext]
	complaints repository.Repository[casefiledomain.ComplaintRecord]
}

// Provide builds the gorm-backed case repository.
func Provide(db *gorm.DB) casefiledomain.Repository {
	return &Store{
		db:         db,
		cases:      repository.ProvideStore[casefiledomain.DisputeCase](db),
		listings:   repository.ProvideStore[casefiledomain.ListingSnapshot](db),
		orders:     repository.ProvideStore[casefiledomain.OrderContext](db),
		complaints: repository.ProvideStore[casefiledomain.ComplaintRecord](db),
	}
}

func (s *Store) FindCaseByRef(ctx context.Context, ref string) (*casefiledomain.DisputeCase, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	return s.cases.First(ctx, "ref = ?", ref)
}

func (s *Store) FindListing(ctx context.Context, caseID snowflake.ID) (*casefiledomain.ListingSnapshot, error) {
	return s.listings.First(ctx, "case_id = ?", caseID)
}

func (s *Store) FindOrder(ctx context.Context, caseID snowflake.ID) (*casefiledomain.OrderContext, error) {
	return s.orders.First(ctx, "case_id = ?", caseID)
}

func (s *Store) FindComplaint(ctx context.Context, caseID snowflake.ID) (*casefiledomain.ComplaintRecord, error) {
	complaint, err := s.complaints.First(ctx, "case_id = ?", caseID)
	if err != nil || complaint == nil {
		return complaint, err
	}

	var items []casefiledomain.EvidenceItem
	err = s.db.WithContext(ctx).
		Where("complaint_id = ?", complaint.ID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	complaint.Evidence = items
	return complaint, nil
}

func (s *Store) ListChat(ctx context.Context, caseID snowflake.ID) ([]casefiledomain.ChatMessage, error) {
	var messages []casefiledomain.ChatMessage
	err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("sent_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListPendingResponse locks the cases waiting on a party response so the
// escalation worker can examine their deadlines.
func (s *Store) ListPendingResponse(ctx context.Context, tx *gorm.DB, limit int) ([]casefiledomain.DisputeCase, error) {
	if tx == nil {
		return nil, errors.New("missing_transaction")
	}
	var cases []casefiledomain.DisputeCase
	err := tx.WithContext(ctx).
		Where("status IN ?", []casefiledomain.CaseStatus{
			casefiledomain.CaseStatusPendingSellerResponse,
			casefiledomain.CaseStatusPendingBuyerResponse,
		}).
		Order("respond_by").
		Limit(limit).
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *Store) UpdateStatus(ctx context.Context, tx *gorm.DB, update casefiledomain.StatusUpdate) error {
	if tx == nil {
		tx = s.db
	}
	values := map[string]any{
		"status": update.Status,
	}
	if update.RespondBy != nil {
		values["respond_by"] = timeOrNil(update.RespondBy)
	}
	if update.EscalatedAt != nil {
		values["escalated_at"] = *update.EscalatedAt
	}
	if update.ResolvedAt != nil {
		values["resolved_at"] = *update.ResolvedAt
	}
	return tx.WithContext(ctx).
		Model(&casefiledomain.DisputeCase{}).
		Where("id = ?", update.CaseID).
		Updates(values).Error
}

func timeOrNil(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}
