package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/api"
	"github.com/remedyexcel/clinic-server/internal/blog"
	"github.com/remedyexcel/clinic-server/internal/config"
	"github.com/remedyexcel/clinic-server/internal/db"
	"github.com/remedyexcel/clinic-server/internal/logging"
	"github.com/remedyexcel/clinic-server/internal/notify"
	"github.com/remedyexcel/clinic-server/internal/redisclient"
	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic("logger init error: " + err.Error())
	}
	defer log.Sync()

	log.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.String("lock_driver", cfg.LockDriver),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store  scheduling.Store
		posts  blog.Store
		pgPool *pgxpool.Pool
	)
	switch cfg.StorageDriver {
	case "postgres":
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatal("postgres connection error", zap.Error(err))
		}
		defer pgPool.Close()

		pgStore := scheduling.NewPgStore(pgPool)
		if err := pgStore.EnsureSchema(rootCtx); err != nil {
			log.Fatal("schema error", zap.Error(err))
		}
		store = pgStore

		// Blog posts stay on disk even with Postgres scheduling storage;
		// they are editorial content, not booking state.
		posts, err = blog.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal("blog store error", zap.Error(err))
		}
		log.Info("connected to Postgres")
	default:
		fileStore, err := scheduling.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal("file store error", zap.Error(err))
		}
		store = fileStore

		posts, err = blog.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal("blog store error", zap.Error(err))
		}
		log.Info("using JSON file storage", zap.String("data_dir", cfg.DataDir))
	}

	var (
		locker scheduling.Locker
		rdb    *redis.Client
	)
	if cfg.LockDriver == "redis" {
		rdb, err = redisclient.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatal("redis connection error", zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("error closing redis", zap.Error(err))
			}
		}()
		locker = redisclient.NewSlotLocker(rdb, cfg.LockTTL)
		log.Info("connected to Redis")
	} else {
		locker = scheduling.NewMutexLocker()
	}

	mailer, err := notify.NewMailer(cfg, log)
	if err != nil {
		log.Fatal("mailer init error", zap.Error(err))
	}

	svc := scheduling.NewService(store, locker, mailer, log, cfg.DoctorName)

	router := api.NewRouter(api.RouterConfig{
		Scheduling: svc,
		Blog:       posts,
		Validate:   validator.New(),
		Log:        log,
		PgPool:     pgPool,
		Redis:      rdb,
		Env:        cfg.Env,
		Version:    version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
