package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/msadki/applytrack/internal/config"
	"github.com/msadki/applytrack/internal/database"
	"github.com/msadki/applytrack/internal/handler"
	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/queue"
	"github.com/msadki/applytrack/internal/router"
	"github.com/msadki/applytrack/internal/store"
	"github.com/msadki/applytrack/internal/store/jsonfile"
	"github.com/msadki/applytrack/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if cfg.Env == "dev" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	st := openStore(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.SeedDefaultAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		logger.Fatal("seed default admin", zap.Error(err))
	}
	cancel()

	notifier := queue.NewNotifier(cfg.AMQPURL, st, logger)
	if cfg.AMQPURL != "" {
		go queue.StartNotificationConsumer(cfg.AMQPURL, st, logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))

	rlCfg := config.LoadRateLimitConfig()
	var counter middleware.Counter = middleware.NewMemoryCounter()
	if rdb := config.NewRedisClient(); rdb != nil {
		counter = middleware.NewRedisCounter(rdb)
		logger.Info("rate limiting backed by redis")
	}
	e.Use(middleware.RateLimit(rlCfg, counter, logger))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, st))
	router.RegisterRecruiters(e, handler.NewRecruiterHandler(st), cfg.JWTSecret)
	router.RegisterClients(e, handler.NewClientHandler(st), cfg.JWTSecret)
	router.RegisterJobs(e, handler.NewJobHandler(st, notifier), cfg.JWTSecret)
	router.RegisterSessions(e, handler.NewSessionHandler(st, notifier), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, st), cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreDriver))

	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// seeder is the bootstrap surface both store drivers share beyond the
// Store contract itself.
type seeder interface {
	store.Store
	SeedDefaultAdmin(ctx context.Context, email, password string, cost int) error
}

func openStore(cfg config.Config, logger *zap.Logger) seeder {
	switch cfg.StoreDriver {
	case config.DriverJSONFile:
		st, err := jsonfile.Open(cfg.DataDir)
		if err != nil {
			logger.Fatal("open jsonfile store", zap.Error(err))
		}
		return st
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		st := postgres.New(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := st.Migrate(ctx); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		return st
	}
}
