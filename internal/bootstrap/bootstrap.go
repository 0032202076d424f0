// Package bootstrap wires adapters and services from config for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotellink/internal/adapters/contentapi"
	"hotellink/internal/adapters/labels"
	redisad "hotellink/internal/adapters/redis"
	"hotellink/internal/adapters/richtext"
	"hotellink/internal/app"
	"hotellink/internal/domain"
	"hotellink/internal/pathloc"
	"hotellink/internal/shared"
	mysqlrepo "hotellink/internal/storage/mysql"
)

type Deps struct {
	Content *app.ContentService
	Site    *app.SiteService
	Shell   *app.ShellService
	Labels  *labels.Catalog
	Loc     *pathloc.Localizer
	Misses  *mysqlrepo.Repo // nil without MYSQL_DSN

	closers []func() error
}

// Close releases redis and mysql connections.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// Tokens picks client credentials when configured, then a static token.
func Tokens(cfg shared.Config) contentapi.TokenProvider {
	switch {
	case cfg.ClientID != "" && cfg.TokenURL != "":
		return contentapi.NewClientCredentials(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL)
	case cfg.StaticToken != "":
		return contentapi.StaticToken(cfg.StaticToken)
	}
	return nil
}

// Build connects the optional stores and assembles the services. Redis and
// MySQL are skipped when their address is empty.
func Build(ctx context.Context, cfg shared.Config) (*Deps, error) {
	d := &Deps{}

	client, err := contentapi.New(contentapi.Options{
		BaseURL:    cfg.APIBaseURL,
		TenantCode: cfg.TenantCode,
		PropertyID: cfg.PropertyID,
		RPS:        cfg.APIRPS,
		Tokens:     Tokens(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("content api client: %w", err)
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, fmt.Sprintf("hotellink:%s:", cfg.TenantCode))
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		perr := rc.Ping(pctx)
		cancel()
		if perr != nil {
			log.Warn().Err(perr).Str("addr", cfg.RedisAddr).Msg("redis ping failed, continuing")
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		}
		cache = rc
		d.closers = append(d.closers, rc.Close)
	}

	var misses domain.MissLog
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, db.Close)
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			d.Close()
			return nil, err
		}
		log.Info().Msg("database connection ok")
		d.Misses = repo
		misses = repo
	}

	d.Labels, err = labels.New(cfg.DefaultLocale, cfg.LabelsDir)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Loc = pathloc.New(cfg.DefaultLocale, pathloc.SupportedCodes)

	d.Content = app.NewContentService(client, cache, app.ContentOptions{
		PropertyID:    cfg.PropertyID,
		MediaBaseURL:  cfg.CDNBaseURL,
		DefaultLocale: cfg.DefaultLocale,
		CacheTTL:      cfg.CacheTTL,
		SettingsTTL:   cfg.SettingsTTL,
		Misses:        misses,
		Text:          richtext.New(),
	})
	d.Site = app.NewSiteService(d.Content, cfg.LogoURL, cfg.BookingURL)
	d.Shell = app.NewShellService(d.Site, d.Content, d.Labels, d.Loc)
	return d, nil
}

