package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"Wildography/cache"
	"Wildography/config"
	"Wildography/jobs"
	"Wildography/mailer"
	"Wildography/middlewares"
	"Wildography/migrations"
	"Wildography/models"
	"Wildography/services"
	"Wildography/storage"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Server struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Graph    *services.SocialGraph
	Config   *config.Config
	Log      *zap.Logger
	Uploader storage.Uploader
	Mailer   mailer.Sender
	Registry *prometheus.Registry

	apiLimiter  *middlewares.RateLimiter
	authLimiter *middlewares.RateLimiter
	jobs        *cron.Cron
	httpServer  *http.Server
}

// NewServer wires the router and services around an open database.
func NewServer(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Server {
	server := &Server{
		DB:          db,
		Config:      cfg,
		Log:         log,
		Graph:       services.NewSocialGraph(db, cfg.FollowRequestDedup),
		Mailer:      mailer.New(cfg.SendgridAPIKey, cfg.MailFrom, cfg.FrontendURL),
		Registry:    prometheus.NewRegistry(),
		apiLimiter:  middlewares.NewAPIRateLimiter(),
		authLimiter: middlewares.NewAuthRateLimiter(),
	}
	server.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.Router = gin.New()
	server.Router.Use(gin.Recovery())
	server.Router.Use(middlewares.RequestLogger(log))
	server.Router.Use(middlewares.NewMetricsBuilder("wildography", "http", "gin", "HTTP request latency in milliseconds", hostname()).Build(server.Registry))
	server.Router.Use(server.apiLimiter.Middleware())
	server.initializeRoutes()
	return server
}

// Initialize connects to Postgres, migrates the schema and starts the
// optional integrations. Redis, S3 and Sentry failures only disable the
// feature that needs them.
func Initialize(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(sqlDB); err != nil {
		return nil, err
	}

	if err := cache.InitFromEnv(); err != nil {
		log.Warn("could not connect to redis, caching disabled", zap.Error(err))
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			log.Warn("sentry init failed", zap.Error(err))
		}
	}

	server := NewServer(db, cfg, log)

	if cfg.S3Bucket != "" {
		uploader, err := storage.NewS3Uploader(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Warn("S3 uploads disabled", zap.Error(err))
		} else {
			server.Uploader = uploader
		}
	} else {
		log.Warn("S3_BUCKET not set, uploads disabled")
	}

	scheduler, err := jobs.InitJobs(db, log)
	if err != nil {
		return nil, fmt.Errorf("scheduling jobs: %w", err)
	}
	if _, err := scheduler.AddFunc("0 */10 * * * *", func() {
		server.apiLimiter.Cleanup(10 * time.Minute)
		server.authLimiter.Cleanup(10 * time.Minute)
	}); err != nil {
		return nil, fmt.Errorf("scheduling limiter cleanup: %w", err)
	}
	server.jobs = scheduler

	return server, nil
}

// Handler is the router wrapped with CORS for the configured frontends.
func (server *Server) Handler() http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   server.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})(server.Router)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context, addr string) error {
	server.httpServer = &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if server.jobs != nil {
		server.jobs.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	server.Log.Info("Server started", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	server.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if server.jobs != nil {
		<-server.jobs.Stop().Done()
	}
	if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	sentry.Flush(2 * time.Second)
	if sqlDB, err := server.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if cache.Client != nil {
		_ = cache.Client.Close()
	}
	return nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
