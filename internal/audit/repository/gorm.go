package repository

import (
	"context"
	"errors"
	"strings"

	auditdomain "github.com/smallbiznis/arbiter/internal/audit/domain"
	"gorm.io/gorm"
)

const defaultListLimit = 50

type store struct{}

// Provide returns the gorm-backed audit repository.
func Provide() auditdomain.Repository {
	return &store{}
}

func (store) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	if db == nil {
		return errors.New("missing_database")
	}
	if entry == nil {
		return errors.New("missing_audit_entry")
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (store) List(ctx context.Context, db *gorm.DB, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	if db == nil {
		return nil, errors.New("missing_database")
	}

	query := db.WithContext(ctx).Model(&auditdomain.AuditLog{})
	if ref := strings.TrimSpace(filter.CaseRef); ref != "" {
		query = query.Where("case_ref = ?", ref)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if actorType := strings.TrimSpace(filter.ActorType); actorType != "" {
		query = query.Where("actor_type = ?", actorType)
	}
	if filter.StartAt != nil {
		query = query.Where("created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		query = query.Where("created_at < ?", *filter.EndAt)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var entries []*auditdomain.AuditLog
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
