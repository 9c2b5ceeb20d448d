package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/judgecore-2026.net/internal/adapter/crypto"
	"gitlab.com/judgecore-2026.net/internal/adapter/docker"
	"gitlab.com/judgecore-2026.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/judgecore-2026.net/internal/adapter/postgres/userrepository"
	"gitlab.com/judgecore-2026.net/internal/adapter/redis/resultcache"
	"gitlab.com/judgecore-2026.net/internal/adapter/remote"
	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	auth2 "gitlab.com/judgecore-2026.net/internal/core/services/auth"
	"gitlab.com/judgecore-2026.net/internal/core/services/judge"
	logger2 "gitlab.com/judgecore-2026.net/internal/global/logger"
	http2 "gitlab.com/judgecore-2026.net/internal/http"
	"gitlab.com/judgecore-2026.net/internal/schedulerengine"
)

func main() {
	InitReader()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judge service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	submissionRepo := submissionrepository.New(db, logger, "public")
	userPort := userrepository.New(db, logger, "public")
	cache := resultcache.New(redisClient, sysCfg.SandboxCfg.ResultCacheTTL, logger)

	var runner secondary.SandboxRunner
	if sysCfg.SandboxCfg.Mode == config.RunnerModeRemote {
		runner = remote.NewClient(sysCfg.SandboxCfg, logger)
	} else {
		runner = docker.NewRunner(sysCfg.SandboxCfg, logger)
	}

	// PRIMARY PORTS
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	// services
	judgeSvc := judge.NewJudgeService(runner, logger)
	ggAuth := auth2.NewGoogleAuthService(userPort, jwtProvider)
	localAuth := auth2.NewLocalAuthService(userPort, jwtProvider)
	serviceProvider := http2.NewServiceProvider(judgeSvc, submissionRepo, cache, ggAuth, localAuth)

	// server
	httServer := http2.NewServer(8082, "judgeCore", *serviceProvider, sysCfg, logger)
	if err := httServer.Init(); err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httServer.Start(ctxBg)

	dispatcher := schedulerengine.NewDispatchEngine(sysCfg.DispatchCfg, judgeSvc, submissionRepo, cache, logger)
	if !sysCfg.DebugMode {
		dispatcher.StartDispatchEngine(ctxBg)
	}

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	dispatcher.Stop()
	httServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
