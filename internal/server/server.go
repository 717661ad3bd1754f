package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	analysisdomain "github.com/smallbiznis/arbiter/internal/analysis/domain"
	auditservice "github.com/smallbiznis/arbiter/internal/audit/service"
	"github.com/smallbiznis/arbiter/internal/authorization"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/lifecycle"
	obslogger "github.com/smallbiznis/arbiter/internal/observability/logger"
	"github.com/smallbiznis/arbiter/internal/observability/metrics"
	"github.com/smallbiznis/arbiter/internal/policy"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServerParam struct {
	fx.In

	Log          *zap.Logger
	Config       config.Config
	AnalysisSvc  analysisdomain.Service
	LifecycleSvc *lifecycle.Service
	AuthzSvc     authorization.Service
	AuditSvc     auditservice.Service
	Policy       *policy.Snapshot
	HTTPMetrics  *metrics.HTTPMetrics `optional:"true"`
}

// Server owns the HTTP surface. Handlers live in sibling files, one file per
// resource.
type Server struct {
	log          *zap.Logger
	cfg          config.Config
	analysisSvc  analysisdomain.Service
	lifecycleSvc *lifecycle.Service
	authzSvc     authorization.Service
	auditSvc     auditservice.Service
	policy       *policy.Snapshot
	httpMetrics  *metrics.HTTPMetrics
	limiter      *rateLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:          p.Log.Named("server"),
		cfg:          p.Config,
		analysisSvc:  p.AnalysisSvc,
		lifecycleSvc: p.LifecycleSvc,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		policy:       p.Policy,
		httpMetrics:  p.HTTPMetrics,
		limiter:      newRateLimiter(60, time.Minute),
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if s.httpMetrics != nil {
		r.Use(metrics.GinMiddleware(s.httpMetrics))
	}
	r.Use(s.rateLimitMiddleware())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/analysis/:caseId", s.RunAnalysis)
		api.GET("/analysis/:caseId", s.GetAnalysis)
		api.GET("/policy/:lang", s.GetPolicyDocument)
		api.POST("/cases/:caseId/escalate", s.staffContext(), s.EscalateCase)
		api.POST("/cases/:caseId/resolve", s.staffContext(), s.ResolveCase)
	}

	return r
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(runServer),
)

func runServer(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
