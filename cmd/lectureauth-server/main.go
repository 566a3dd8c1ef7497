package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	lectureauth "github.com/ktnu/lectureauth"
	"github.com/ktnu/lectureauth/config"
	"github.com/ktnu/lectureauth/httpserver"
	"github.com/ktnu/lectureauth/logging"
	"github.com/ktnu/lectureauth/memberstore"
	"github.com/ktnu/lectureauth/password"
)

func main() {
	logger := logging.New("lectureauth-server")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	members := memberstore.New(db)
	if err := members.Migrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	engineCfg := lectureauth.DefaultConfig()
	engineCfg.JWT.Secret = []byte(cfg.JWTSecret)
	engineCfg.JWT.Issuer = cfg.JWTIssuer
	engineCfg.JWT.AccessTTL = cfg.AccessTTL
	engineCfg.JWT.RefreshTTL = cfg.RefreshTTL
	engineCfg.Session.RedisPrefix = cfg.RedisPrefix
	engineCfg.PasswordReset.ResetTTL = cfg.ResetTTL

	hasher := password.NewBcrypt(cfg.BcryptCost)

	engine, err := lectureauth.New().
		WithConfig(engineCfg).
		WithRedis(redisClient).
		WithPrincipalProvider(members).
		WithHasher(hasher).
		WithAuditSink(lectureauth.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		logger.Error("engine build failed", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	server := httpserver.New(engine, members, hasher, httpserver.CookieConfig{
		Secure:     cfg.CookieSecure,
		Domain:     cfg.CookieDomain,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}, logger)

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
