package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tenantgate/tenantgate/internal/auth"
	authdomain "github.com/tenantgate/tenantgate/internal/auth/domain"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/authz"
	"github.com/tenantgate/tenantgate/internal/config"
	"github.com/tenantgate/tenantgate/internal/item"
	itemdomain "github.com/tenantgate/tenantgate/internal/item/domain"
	"github.com/tenantgate/tenantgate/internal/observability"
	obslogger "github.com/tenantgate/tenantgate/internal/observability/logger"
	obsmetrics "github.com/tenantgate/tenantgate/internal/observability/metrics"
	obstracing "github.com/tenantgate/tenantgate/internal/observability/tracing"
	"github.com/tenantgate/tenantgate/internal/organization"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	"github.com/tenantgate/tenantgate/internal/permission"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
	"github.com/tenantgate/tenantgate/internal/role"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	"github.com/tenantgate/tenantgate/internal/user"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authz.Module,
	auth.Module,
	organization.Module,
	user.Module,
	role.Module,
	permission.Module,
	item.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	db        *gorm.DB
	genID     *snowflake.Node
	codec     *token.Codec
	evaluator *authz.Evaluator
	authSvc   authdomain.Service
	orgSvc    orgdomain.Service
	userSvc   userdomain.Service
	roleSvc   roledomain.Service
	permSvc   permdomain.Service
	itemSvc   itemdomain.Service
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	DB        *gorm.DB
	GenID     *snowflake.Node
	Codec     *token.Codec
	Evaluator *authz.Evaluator
	AuthSvc   authdomain.Service
	OrgSvc    orgdomain.Service
	UserSvc   userdomain.Service
	RoleSvc   roledomain.Service
	PermSvc   permdomain.Service
	ItemSvc   itemdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		db:        p.DB,
		genID:     p.GenID,
		codec:     p.Codec,
		evaluator: p.Evaluator,
		authSvc:   p.AuthSvc,
		orgSvc:    p.OrgSvc,
		userSvc:   p.UserSvc,
		roleSvc:   p.RoleSvc,
		permSvc:   p.PermSvc,
		itemSvc:   p.ItemSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.GET("/users/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/", s.AuthRequired())

	orgs := api.Group("/organizations")
	{
		orgs.GET("", s.RequirePermission("read:organizations"), s.ListOrganizations)
		orgs.POST("", s.RequirePermission("create:organizations"), s.CreateOrganization)
		orgs.GET("/:id", s.RequirePermission("read:organizations"), s.GetOrganization)
		orgs.PATCH("/:id", s.RequirePermission("update:organizations"), s.UpdateOrganization)
		orgs.DELETE("/:id", s.RequirePermission("delete:organizations"), s.DeleteOrganization)
	}

	users := api.Group("/users")
	{
		users.GET("", s.RequirePermission("read:users"), s.ListUsers)
		users.POST("", s.RequirePermission("create:users"), s.CreateUser)
		users.GET("/:id", s.RequirePermission("read:users"), s.GetUser)
		users.PATCH("/:id", s.RequirePermission("update:users"), s.UpdateUser)
		users.DELETE("/:id", s.RequirePermission("delete:users"), s.DeleteUser)

		users.GET("/:id/roles", s.RequirePermission("read:users"), s.ListUserRoles)
		users.POST("/:id/roles", s.RequirePermission("update:users"), s.SetUserRoles)
		users.GET("/:id/organization", s.RequirePermission("read:users"), s.GetUserOrganization)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", s.RequirePermission("read:roles"), s.ListRoles)
		roles.POST("", s.RequirePermission("create:roles"), s.CreateRole)
		roles.GET("/:id", s.RequirePermission("read:roles"), s.GetRole)
		roles.PATCH("/:id", s.RequirePermission("update:roles"), s.UpdateRole)
		roles.DELETE("/:id", s.RequirePermission("delete:roles"), s.DeleteRole)

		roles.GET("/:id/permissions", s.RequirePermission("read:roles"), s.ListRolePermissions)
		roles.POST("/:id/permissions", s.RequirePermission("update:roles"), s.SetRolePermissions)
	}

	perms := api.Group("/permissions")
	{
		perms.GET("", s.RequirePermission("read:permissions"), s.ListPermissions)
		perms.POST("", s.RequirePermission("create:permissions"), s.CreatePermission)
		perms.GET("/:id", s.RequirePermission("read:permissions"), s.GetPermission)
		perms.PATCH("/:id", s.RequirePermission("update:permissions"), s.UpdatePermission)
		perms.DELETE("/:id", s.RequirePermission("delete:permissions"), s.DeletePermission)
	}

	items := api.Group("/items")
	{
		items.GET("", s.RequirePermission("read:items"), s.ListItems)
		items.POST("", s.RequirePermission("create:items"), s.CreateItem)
		items.GET("/:id", s.RequirePermission("read:items"), s.GetItem)
		items.PATCH("/:id", s.RequirePermission("update:items"), s.UpdateItem)
		items.DELETE("/:id", s.RequirePermission("delete:items"), s.DeleteItem)
	}
}
