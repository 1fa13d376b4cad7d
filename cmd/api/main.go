package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-client/internal/audit"
	"github.com/BruksfildServices01/barber-client/internal/booking"
	"github.com/BruksfildServices01/barber-client/internal/cache"
	"github.com/BruksfildServices01/barber-client/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-client/internal/db"
	"github.com/BruksfildServices01/barber-client/internal/history"
	"github.com/BruksfildServices01/barber-client/internal/infra"
	"github.com/BruksfildServices01/barber-client/internal/infra/authprovider"
	"github.com/BruksfildServices01/barber-client/internal/logger"
	"github.com/BruksfildServices01/barber-client/internal/middleware"
	"github.com/BruksfildServices01/barber-client/internal/routes"
	"github.com/BruksfildServices01/barber-client/internal/session"
	"github.com/BruksfildServices01/barber-client/internal/timezone"
)

const revalidateEvery = time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if !timezone.IsValid(cfg.ShopTimezone) {
		log.Warn("invalid shop timezone, using default",
			zap.String("timezone", cfg.ShopTimezone),
			zap.String("default", timezone.DefaultTimezone),
		)
		cfg.ShopTimezone = timezone.DefaultTimezone
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg, log)

	// ======================================================
	// SESSION PERSISTENCE
	// ======================================================
	var sessionCache cache.Cache = cache.NewNoop()
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, sessions will not survive restarts", zap.Error(err))
	} else {
		sessionCache = redisCache
		defer redisCache.Close()
	}
	cancel()

	provider := authprovider.New(db, cache.NewSessionStore(sessionCache), authprovider.Options{
		Secret:                   cfg.JWTSecret,
		TTL:                      cfg.SessionTTL,
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
	}, log)
	remote := infra.NewRemote(db, provider)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	// ======================================================
	// CORE
	// ======================================================
	sessions := session.NewManager(remote, remote, auditDispatcher, log)
	if err := sessions.Start(ctx); err != nil {
		log.Warn("starting without a restored session", zap.Error(err))
	}
	defer sessions.Stop()

	workflow := booking.NewWorkflow(remote, remote, sessions, auditDispatcher, log,
		booking.WithTimezone(cfg.ShopTimezone),
	)
	unfollow := booking.Follow(workflow, sessions)
	defer unfollow()

	aggregator := history.NewAggregator(remote, sessions, cfg.ShopTimezone, log)

	go revalidate(ctx, provider, log)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORSMiddleware())

	routes.RegisterRoutes(r, routes.Deps{
		Sessions:   sessions,
		Workflow:   workflow,
		Aggregator: aggregator,
		DB:         db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// revalidate re-checks the session token so expiry and revocation reach
// the session manager through the change stream.
func revalidate(ctx context.Context, provider *authprovider.Provider, log *zap.Logger) {
	ticker := time.NewTicker(revalidateEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := provider.Revalidate(ctx); err != nil {
				log.Warn("session revalidation failed", zap.Error(err))
			}
		}
	}
}
