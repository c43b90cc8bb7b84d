package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ieee-synapse/synapse-api/docs"
	v1 "github.com/ieee-synapse/synapse-api/internal/api/handler/v1"
	"github.com/ieee-synapse/synapse-api/internal/api/middleware"
	"github.com/ieee-synapse/synapse-api/internal/config"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

const basePath = "/api/v1"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	store    repository.Store
	sessions service.Sessions
	identity *service.IdentityService
}

func NewServer(conf *config.AppConfig, store repository.Store, sessions service.Sessions, verifier service.TokenVerifier) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:   conf,
		Router:   engine,
		store:    store,
		sessions: sessions,
		identity: service.NewIdentityService(store, sessions),
	}

	s.MountMiddlewares()
	s.MountHandlers(handlers{
		auth:   v1.NewAuthHandler(service.NewAuthService(store, sessions, s.identity, verifier, conf.API.JWTSigningKey)),
		user:   s.initUserHandler(),
		team:   v1.NewTeamHandler(service.NewTeamService(store, sessions)),
		event:  v1.NewEventHandler(service.NewEventService(store, sessions, conf.API.MaxImageBytes), conf.API.MaxImageBytes),
		remark: v1.NewRemarkHandler(service.NewRemarkService(store, sessions, s.identity)),
		super:  v1.NewSuperHandler(service.NewAdminService(store, sessions, s.identity)),
		admin:  v1.NewAdminHandler(),
		root:   v1.NewRootHandler(service.NewReportService(store, sessions)),
	})

	return s
}

type handlers struct {
	auth   *v1.AuthHandler
	user   *v1.UserHandler
	team   *v1.TeamHandler
	event  *v1.EventHandler
	remark *v1.RemarkHandler
	super  *v1.SuperHandler
	admin  *v1.AdminHandler
	root   *v1.RootHandler
}

func (s *Server) initUserHandler() *v1.UserHandler {
	registration := service.NewRegistrationService(s.store, s.sessions)
	svc := service.NewUserService(s.store, s.sessions)

	return v1.NewUserHandler(registration, svc)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(middleware.Metrics())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

// guard verifies the bearer token and resolves a principal of variant v.
func (s *Server) guard(v service.Variant) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT(),
		middleware.RequirePrincipal(s.identity, v),
	}
}

func (s *Server) MountHandlers(h handlers) {
	auth := s.Router.Group(basePath + "/auth")
	{
		auth.POST("/user", h.auth.HandleUserSignIn)
		auth.POST("/admin", h.auth.HandleAdminSignIn)
		auth.POST("/superadmin", h.auth.HandleSuperadminSignIn)
	}

	users := s.Router.Group(basePath+"/users", s.guard(service.VariantUser)...)
	{
		users.PATCH("/register", h.user.HandleRegisterProfile)
		users.PATCH("/change-details", h.user.HandleChangeDetails)
		users.PATCH("/register-event", h.user.HandleRegisterEvent)
		users.DELETE("/unregister-event", h.user.HandleUnregisterEvent)
		users.GET("/profile", h.user.HandleGetProfile)
		users.GET("/registered", h.user.HandleGetRegistrations)
		users.GET("/event", h.user.HandleGetRegisteredEvent)
		users.GET("/team", h.user.HandleGetTeam)
		users.GET("/events", h.user.HandleGetEvents)
		users.GET("/archive", h.user.HandleGetArchive)
		users.GET("/image/:image_id", h.user.HandleGetImage)
		users.GET("/archive/image/:year/:image_id", h.user.HandleGetImage)
	}

	team := s.Router.Group(basePath+"/team", s.guard(service.VariantUser)...)
	{
		team.POST("/register", h.team.HandleRegisterTeam)
		team.PATCH("/join", h.team.HandleJoinTeam)
		team.DELETE("/delete", h.team.HandleDeleteTeam)
		team.PATCH("/leave", h.team.HandleLeaveTeam)
	}

	root := s.Router.Group(basePath+"/root", s.guard(service.VariantSudo)...)
	{
		root.POST("/events", h.event.HandleCreateEvent)
		root.PATCH("/events/:event_id", h.event.HandleUpdateEvent)
		root.DELETE("/events/:event_id", h.event.HandleDeleteEvent)

		root.PATCH("/remarks/user", h.remark.HandleAttachUserRemark)
		root.DELETE("/remarks/user", h.remark.HandleDetachUserRemark)
		root.PATCH("/remarks/event", h.remark.HandleAttachEventRemark)
		root.DELETE("/remarks/event", h.remark.HandleDetachEventRemark)
		root.PATCH("/remarks/team", h.remark.HandleAttachTeamRemark)
		root.DELETE("/remarks/team", h.remark.HandleDetachTeamRemark)

		root.GET("/getUser/all-users", h.root.HandleGetAllUsers)
		root.GET("/getUser/:year", h.root.HandleGetUsers)
		root.GET("/getUser/:year/:user_id", h.root.HandleGetUser)
		root.GET("/getTeam/all-teams", h.root.HandleGetAllTeams)
		root.GET("/getTeam/:year", h.root.HandleGetTeams)
		root.GET("/getTeam/:year/:team_id", h.root.HandleGetTeam)
		root.GET("/getEvent/all-events", h.root.HandleGetAllEvents)
		root.GET("/getEvent/:year", h.root.HandleGetEvents)
		root.GET("/getEvent/:year/:event_id", h.root.HandleGetEvent)
		root.GET("/getEvent/image/:year/:image_id", h.root.HandleGetArchiveImage)
	}

	super := s.Router.Group(basePath+"/super", s.guard(service.VariantSuperadmin)...)
	{
		super.POST("/register-admin", h.super.HandleRegisterAdmin)
		super.GET("/all-admins", h.super.HandleGetAllAdmins)
		super.GET("/:year/admins", h.super.HandleGetAdmins)
		super.DELETE("/delete-admin", h.super.HandleDeleteAdmin)
	}

	s.Router.GET(basePath+"/admin/profile", append(s.guard(service.VariantAdmin), h.admin.HandleGetAdminProfile)...)
	s.Router.GET(basePath+"/admin/super/profile", append(s.guard(service.VariantSuperadmin), h.admin.HandleGetSuperadminProfile)...)

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Synapse API"
	docs.SwaggerInfo.Description = "Event registration and team formation across academic sessions."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
