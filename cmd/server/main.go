package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soaringjerry/SurveyFlow/internal/api"
	"github.com/soaringjerry/SurveyFlow/internal/config"
	"github.com/soaringjerry/SurveyFlow/internal/log"
	"github.com/soaringjerry/SurveyFlow/internal/middleware"
	"github.com/soaringjerry/SurveyFlow/internal/services"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.JSONLogs {
		log.UseJSON()
	}
	if cfg.JWTSecret == "" {
		log.Warn("SURVEYFLOW_JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closer, err := openRequirementStore(ctx, cfg)
	if err != nil {
		log.Fatal("main.kv:", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warnf("close requirement store: %v", err)
		}
	}()

	store := api.NewMemoryStore()
	authn := middleware.NewAuth(cfg.JWTSecret, cfg.AuthRequired)
	flows := services.NewFlowService(api.NewFlowStore(store), kv, cfg.LinkHost)
	router := api.NewRouter(api.Deps{
		Store:       store,
		Flows:       flows,
		Auth:        services.NewAuthService(api.NewAuthStore(store), authn.SignToken, cfg.TokenTTL),
		Generator:   services.NewScreenerGenerator(flows, cfg.AIDelay),
		Authn:       authn,
		CORSOrigins: cfg.CORSOrigins,
		Commit:      cfg.Commit,
		BuildTime:   cfg.BuildTime,
	})

	if err := runServer(ctx, cfg, router.Handler()); err != nil {
		log.Fatal("main.server:", err)
	}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": cfg.Addr, "kv": cfg.KVBackend, "auth_required": cfg.AuthRequired}).Info("SurveyFlow server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
