package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const seedTimeout = 10 * time.Second

type Server struct {
	Engine  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Session *session.Session
	Config  *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	setupLogging(cfg)

	s := &Server{Config: cfg}

	// Seed the board
	var (
		boards *repository.BoardRepository
		users  repository.UserRepositoryInterface
	)
	if cfg.SeedSource == "postgres" {
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
		}
		log.Info("✅ Connected to database")
		s.DB = db
		boards = repository.NewBoardRepository(db)
		users = repository.NewUserRepository(db)
	}

	source, err := repository.NewSeedSource(cfg.SeedSource, boards, users)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	seed, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to load seed: %w", err)
	}
	log.WithFields(log.Fields{
		"source":  cfg.SeedSource,
		"columns": len(seed.Board.Columns),
		"tasks":   len(seed.Board.Tasks),
		"users":   len(seed.Users),
	}).Info("✅ Board seeded")

	// Setup session
	opts := []session.Option{
		session.WithHistoryLimit(cfg.HistoryLimit),
		session.WithOutboxSize(cfg.OutboxSize),
		session.WithLogger(log.WithField("component", "session")),
	}
	if cfg.RedisAddr != "" {
		s.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("⚠️  Redis unreachable, comment dedupe is disabled until it answers")
		} else {
			log.Info("✅ Connected to Redis")
		}
		opts = append(opts, session.WithDeduper(session.NewRedisDeduper(s.Redis, cfg.DedupeWindow)))
	} else {
		opts = append(opts, session.WithDeduper(session.NewMemoryDeduper(cfg.DedupeWindow)))
	}
	s.Session = session.New(seed.Board, seed.Users, opts...)

	// Setup Gin
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(s.Session)
	wsHandler := handler.NewWSHandler(s.Session, log.WithField("component", "ws"), cfg.AllowedOrigins)

	// Public routes
	r.GET("/health", boardHandler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes that act on behalf of a user
	identified := r.Group("/")
	identified.Use(middleware.Identity())
	{
		identified.GET("/board", boardHandler.GetBoard)
		identified.GET("/ws", wsHandler.Serve)
	}

	s.Engine = r
	return s, nil
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Close disconnects every client and releases the Redis and database
// connections.
func (s *Server) Close() {
	if s.Session != nil {
		s.Session.Close()
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.WithError(err).Warn("close redis")
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	// Hijacked websocket connections are not tracked by Shutdown; closing
	// the session ends their pumps.
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Info("✅ Server exited properly")
}
