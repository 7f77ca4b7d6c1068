package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/rs/cors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		UserSvc         user.Service
		AnnouncementSvc announcement.Service
		QuizSvc         quiz.Service
		Validate        *validator.Validate
		Translator      ut.Translator
	}

	Server struct {
		deps      ServerDeps
		app       *echo.Echo
		startedAt time.Time
		errors    chan error
		shutdown  chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:      deps,
		app:       echo.New(),
		startedAt: time.Now(),
		errors:    make(chan error, 1),
		shutdown:  make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   conf.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposedHeaders:   []string{echo.HeaderXRequestID},
		AllowCredentials: !allowsAnyOrigin(conf.Server.AllowedOrigins),
	}).Handler))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)

	api := s.app.Group("/api")
	api.GET("/health", s.health)

	auth := authMiddleware(s.deps.UserSvc)
	registerUserAPI(api, auth, s.deps.UserSvc)
	registerAnnouncementAPI(api, auth, s.deps.AnnouncementSvc, s.deps.Conf)
	registerQuizAPI(api, auth, s.deps.QuizSvc, s.deps.Conf)

	// unknown routes
	s.app.RouteNotFound("/*", routeNotFound)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// Start listens on conf.Server.Host. Errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
