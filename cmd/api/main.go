package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medivault/clinical-portal/internal/api"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
	"github.com/medivault/clinical-portal/internal/core/service"
	"github.com/medivault/clinical-portal/internal/crypto/fieldcipher"
	"github.com/medivault/clinical-portal/internal/infrastructure/audit"
	"github.com/medivault/clinical-portal/internal/infrastructure/backup"
	"github.com/medivault/clinical-portal/internal/infrastructure/config"
	mongodb "github.com/medivault/clinical-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/medivault/clinical-portal/internal/infrastructure/db/redis"
	"github.com/medivault/clinical-portal/internal/infrastructure/session"
	"github.com/medivault/clinical-portal/pkg/logger"
)

// @title        Clinical Portal API
// @version      1.0
// @description  Role-based clinical portal with field-level encryption of personal data.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	sink, err := audit.NewSink(log, cfg.AuditLogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("audit sink init failed")
	}
	defer sink.Close()

	resolved, err := fieldcipher.ResolveKey(cfg.EncryptionKey, cfg.EncryptionKeyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("encryption key resolution failed")
	}
	if resolved.Generated() {
		// Data encrypted under this key is unreadable after restart;
		// the operator is expected to persist the printed key.
		sink.Record("generated new ENCRYPTION_KEY, configure it to keep data readable across restarts", domain.AuditWarning)
		log.Warn().Str("encryption_key", fieldcipher.EncodeKey(resolved.Key)).
			Msg("no encryption key configured, generated a fresh one")
	}
	cipher, err := fieldcipher.New(resolved.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("field cipher init failed")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	userRepo := mongodb.NewUserRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)

	var rdb *goredis.Client
	var sessionStore ports.SessionStore
	switch cfg.SessionStore {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		sessionStore = redisdb.NewSessionStore(rdb)
	default:
		sessionStore = session.NewMemoryStore()
	}

	sessions := service.NewSessionManager(sessionStore, userRepo, sink, cfg.SessionSecret)
	authService := service.NewAuthService(userRepo, sessions, sink)
	userService := service.NewUserService(userRepo, cipher, sink)
	apptService := service.NewAppointmentService(apptRepo, userRepo, cipher, sink)
	backupService := backup.NewService(userRepo, apptRepo, sink, cfg.BackupDir)

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Mongo:        db,
		Redis:        rdb,
		Sessions:     sessions,
		Auth:         authService,
		Users:        userService,
		Appointments: apptService,
		Backup:       backupService,
		Audit:        sink,
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("session_store", cfg.SessionStore).Msg("clinical portal started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("clinical portal stopped")
}
