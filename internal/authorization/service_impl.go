package authorization

import (
	"context"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Staff roles. ADMIN may do everything on cases; AGENT handles the dispute
// workflow; VIEWER is read-only.
const (
	RoleAdmin  = "ADMIN"
	RoleAgent  = "AGENT"
	RoleViewer = "VIEWER"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// rolePolicies maps each staff role to the case actions it may perform.
var rolePolicies = [][3]string{
	{"role:" + RoleAdmin, ObjectCase, ActionCaseRead},
	{"role:" + RoleAdmin, ObjectCase, ActionCaseEscalate},
	{"role:" + RoleAdmin, ObjectCase, ActionCaseResolve},
	{"role:" + RoleAgent, ObjectCase, ActionCaseRead},
	{"role:" + RoleAgent, ObjectCase, ActionCaseEscalate},
	{"role:" + RoleViewer, ObjectCase, ActionCaseRead},
}

// NewEnforcer builds the casbin enforcer backed by the casbin_rule table and
// seeds the role policies. Seeding is idempotent; AddPolicy skips existing
// rows.
func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}

	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	for _, policy := range rolePolicies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return nil, fmt.Errorf("seed policy %v: %w", policy, err)
		}
	}
	return enforcer, nil
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.Enforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.Enforcer
}

func NewService(p ServiceParam) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor, object, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	if strings.TrimSpace(object) == "" {
		return ErrInvalidObject
	}
	if strings.TrimSpace(action) == "" {
		return ErrInvalidAction
	}

	// Internal jobs bypass role checks.
	if actor == "system" {
		return nil
	}

	userID, ok := strings.CutPrefix(actor, "user:")
	if !ok || strings.TrimSpace(userID) == "" {
		return ErrInvalidActor
	}

	role, err := s.lookupRole(ctx, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return fmt.Errorf("%w: unknown staff member", ErrForbidden)
	}

	allowed, err := s.enforcer.Enforce("role:"+role, object, action)
	if err != nil {
		return fmt.Errorf("enforce: %w", err)
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("actor", actor),
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return fmt.Errorf("%w: %s on %s", ErrForbidden, action, object)
	}
	return nil
}

func (s *ServiceImpl) lookupRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.db.WithContext(ctx).
		Raw(`SELECT role FROM staff_members WHERE user_id = ? LIMIT 1`, userID).
		Scan(&role).Error
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(role)), nil
}
