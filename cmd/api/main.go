package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotellink/internal/adapters/http_server"
	"hotellink/internal/adapters/observability"
	"hotellink/internal/adapters/webshell"
	"hotellink/internal/bootstrap"
	"hotellink/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	deps, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer deps.Close()

	if cfg.LabelsDir != "" {
		go func() {
			if err := deps.Labels.Watch(ctx, 250*time.Millisecond); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("dir", cfg.LabelsDir).Msg("label watcher stopped")
			}
		}()
	}

	// the SPA is optional; without a build only the JSON API is served
	index, err := webshell.Load(cfg.WebIndex)
	if err != nil {
		log.Warn().Err(err).Msg("web index not found, SPA disabled")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Shell: deps.Shell, Site: deps.Site, Content: deps.Content, Loc: deps.Loc})
	srv.MountSPA(&server.SPA{
		Shell:  deps.Shell,
		Index:  index,
		Static: http.FileServer(http.Dir(cfg.WebRoot)),
		Runtime: webshell.RuntimeConfig{
			APIBaseURL:    cfg.APIBaseURL,
			PropertyID:    cfg.PropertyID,
			TenantCode:    cfg.TenantCode,
			DefaultLocale: cfg.DefaultLocale,
			CDNBaseURL:    cfg.CDNBaseURL,
			LogoURL:       cfg.LogoURL,
			BookingURL:    cfg.BookingURL,
		},
		PublicURL: cfg.PublicURL,
	})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Int64("property", cfg.PropertyID).
		Str("tenant", cfg.TenantCode).
		Msg("API listening")
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
