package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	auth2 "gitlab.com/judgecore-2026.net/internal/core/services/auth"
	"gitlab.com/judgecore-2026.net/internal/core/services/judge"
	"gitlab.com/judgecore-2026.net/internal/handlers"
	"gitlab.com/judgecore-2026.net/internal/handlers/auth"
	"gitlab.com/judgecore-2026.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	judgeService   judge.IJudgeService
	submissionRepo secondary.SubmissionRepository
	resultCache    secondary.ResultCache

	ggAuth    auth2.IAuthService
	localAuth auth2.IAuthService
}

func NewServiceProvider(
	judgeService judge.IJudgeService,
	submissionRepo secondary.SubmissionRepository,
	resultCache secondary.ResultCache,
	ggAuth auth2.IAuthService,
	localAuth auth2.IAuthService,
) *ServiceProvider {
	return &ServiceProvider{
		judgeService:   judgeService,
		submissionRepo: submissionRepo,
		resultCache:    resultCache,
		ggAuth:         ggAuth,
		localAuth:      localAuth,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	sysCfg          *config.AppConfig
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, sysCfg *config.AppConfig, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		sysCfg:          sysCfg,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.NewMiddlewareProvider(s.sysCfg.JwtConfig.Secret)
	submissions.
		NewSubmissionHandler(s.ServiceProvider.judgeService, s.ServiceProvider.submissionRepo, s.ServiceProvider.resultCache, s.logger).
		RegisterRoutes(r, mw)
	auth.NewHandler(s.sysCfg.GGAuthConfig).RegisterRoutes(r, &auth.ServiceDependencies{
		GGAuthService:    s.ServiceProvider.ggAuth,
		LocalAuthService: s.ServiceProvider.localAuth,
	})
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // synchronous judging can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
