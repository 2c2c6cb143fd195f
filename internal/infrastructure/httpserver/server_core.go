package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/ports"
	customMiddleware "github.com/acmshq/acms/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	AuthService         ports.AuthService
	UserService         ports.UserService
	StudentService      ports.StudentService
	OnDutyService       ports.OnDutyService
	AnnouncementService ports.AnnouncementService
	DashboardService    ports.DashboardService
	AuditService        ports.AuditService
	RateLimiterService  ports.RateLimiterService
	HealthCheckers      []ports.HealthChecker
}

type Server struct {
	echo            *echo.Echo
	config          *ServerConfig
	logger          *logrus.Logger
	authSvc         ports.AuthService
	userService     ports.UserService
	studentService  ports.StudentService
	ondutyService   ports.OnDutyService
	announcementSvc ports.AnnouncementService
	dashboardSvc    ports.DashboardService
	auditSvc        ports.AuditService
	rateLimiterSvc  ports.RateLimiterService
	middleware      *customMiddleware.MiddlewareCollection
	healthCheckers  []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:            e,
		config:          serverConfig,
		logger:          logger,
		authSvc:         deps.AuthService,
		userService:     deps.UserService,
		studentService:  deps.StudentService,
		ondutyService:   deps.OnDutyService,
		announcementSvc: deps.AnnouncementService,
		dashboardSvc:    deps.DashboardService,
		auditSvc:        deps.AuditService,
		rateLimiterSvc:  deps.RateLimiterService,
		healthCheckers:  deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.UserService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
