package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/arbiter/internal/audit/domain"
	"github.com/smallbiznis/arbiter/internal/auditcontext"
	obslogger "github.com/smallbiznis/arbiter/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordInput describes one auditable action. Actor, IP and user agent are
// read from the context when not set explicitly.
type RecordInput struct {
	CaseRef    string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

// Service records and lists audit entries.
type Service interface {
	Record(ctx context.Context, input RecordInput) error
	List(ctx context.Context, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error)
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p ServiceParam) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Record(ctx context.Context, input RecordInput) error {
	actorType, actorID := auditcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = string(auditdomain.ActorTypeSystem)
	}

	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		Action:     strings.TrimSpace(input.Action),
		TargetType: strings.TrimSpace(input.TargetType),
		Metadata:   datatypes.JSONMap(obslogger.MaskJSON(input.Metadata)),
		CreatedAt:  time.Now().UTC(),
	}
	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}
	if ref := strings.TrimSpace(input.CaseRef); ref != "" {
		entry.CaseRef = &ref
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if targetID := strings.TrimSpace(input.TargetID); targetID != "" {
		entry.TargetID = &targetID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		// Audit failures must not fail the underlying action.
		s.log.Error("audit insert failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
	return nil
}

func (s *service) List(ctx context.Context, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
