package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vantagehq/vantage/internal/config"
	entitydomain "github.com/vantagehq/vantage/internal/entity/domain"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
	"github.com/vantagehq/vantage/internal/identity/replay"
	"github.com/vantagehq/vantage/internal/identity/webhook"
	"github.com/vantagehq/vantage/internal/idp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine    *gin.Engine
	log       *zap.Logger
	verifier  *webhook.Verifier
	guard     *replay.Guard
	syncSvc   identitydomain.Service
	entitySvc entitydomain.Service
	idpClient *idp.Client
}

type Params struct {
	fx.In

	Engine    *gin.Engine
	Log       *zap.Logger
	Verifier  *webhook.Verifier
	Guard     *replay.Guard
	SyncSvc   identitydomain.Service
	EntitySvc entitydomain.Service
	IdPClient *idp.Client
}

func NewServer(p Params) *Server {
	return &Server{
		engine:    p.Engine,
		log:       p.Log.Named("http.server"),
		verifier:  p.Verifier,
		guard:     p.Guard,
		syncSvc:   p.SyncSvc,
		entitySvc: p.EntitySvc,
		idpClient: p.IdPClient,
	}
}

// RegisterAPIRoutes mounts the webhook and entity routes. Entity routes are
// keyed by handle throughout; gin requires one wildcard name per path
// position, so the public lookup and the authed subroutes share it.
func (s *Server) RegisterAPIRoutes() {
	s.engine.POST("/webhooks/clerk", s.HandleClerkWebhook)

	api := s.engine.Group("/api")
	api.GET("/entities/:handle", s.GetEntityByHandle)

	authed := api.Group("")
	authed.Use(s.RequirePrincipal())
	authed.POST("/entities/:handle/links", s.AddEntitySocialLink)
	authed.DELETE("/entities/:handle/links/:linkID", s.RemoveEntitySocialLink)
	authed.GET("/entities/:handle/config", s.ListEntityConfiguration)
	authed.PUT("/entities/:handle/config/:key", s.SetEntityConfiguration)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
