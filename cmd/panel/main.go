package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"procpanel.org/internal/authflow"
	"procpanel.org/internal/config"
	"procpanel.org/internal/gateway"
	"procpanel.org/internal/obs"
	"procpanel.org/internal/session"
	"procpanel.org/internal/webapp"
)

var (
	version = "1.2.0"
	// commit подставляется при сборке: -ldflags "-X main.commit=$(git rev-parse --short HEAD)"
	commit = "none"
)

func main() {
	// .env подхватывается только локально; в проде переменные задаёт окружение
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		obs.InitLogger(obs.LogConfig{Level: "info"})
		obs.Logger().Fatal("config", zap.Error(err))
	}

	// Инициализация observability (метрики + общий логгер)
	obs.InitLogger(obs.LogConfig{Level: os.Getenv("PANEL_LOG_LEVEL"), Development: cfg.Development()})
	obs.Init()
	obs.InitBuildInfo(version, commit)
	log := obs.Logger()

	// Хранилище сессий: Postgres, если задан DSN, иначе память процесса
	var store session.Store
	var pg *session.PGStore
	if cfg.PostgresDSN != "" {
		pg, err = session.OpenPG(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("open session store", zap.Error(err))
		}
		store = pg
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	codec, err := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionTTL, !cfg.Development())
	if err != nil {
		log.Fatal("cookie codec", zap.Error(err))
	}
	sessions := session.NewManager(store, codec)

	// 401 от процессинга на аутентифицированном вызове гасит сессию целиком
	gw := gateway.New(cfg.UpstreamURL,
		gateway.WithOnUnauthorized(func(ctx context.Context) {
			if id, ok := session.IDFromContext(ctx); ok {
				sessions.Drop(ctx, id)
			}
		}))

	flows := authflow.NewRegistry(gw, 15*time.Minute)
	app := webapp.New(gw, sessions, flows, log)
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	go flows.Sweep(rootCtx, time.Minute)
	if pg != nil {
		go purgeExpiredSessions(rootCtx, pg, cfg.SessionTTL, log)
	}

	log.Info("starting processing-panel",
		zap.String("version", version),
		zap.String("addr", cfg.Addr),
		zap.String("upstream", cfg.UpstreamURL))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("shutting down")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pg != nil {
		_ = pg.Close()
	}
	log.Info("stopped")
}

// purgeExpiredSessions периодически чистит протухшие сессии в Postgres.
func purgeExpiredSessions(ctx context.Context, pg *session.PGStore, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := pg.Purge(ctx, ttl); err != nil {
				log.Warn("session purge failed", zap.Error(err))
			} else if n > 0 {
				log.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
