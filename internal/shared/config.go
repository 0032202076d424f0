package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// content API
	APIBaseURL   string
	PropertyID   int64
	TenantCode   string
	ClientID     string
	ClientSecret string
	TokenURL     string
	StaticToken  string
	APIRPS       int

	// presentation
	CDNBaseURL    string
	LogoURL       string
	BookingURL    string
	DefaultLocale string
	LabelsDir     string
	WebRoot       string
	WebIndex      string
	PublicURL     string

	// storage
	RedisAddr string
	RedisDB   int
	RedisPass string
	MySQLDSN  string

	CacheTTL    time.Duration
	SettingsTTL time.Duration
	WarmWorkers int
}

// Load reads the environment. The VITE_* names are what the browser build used;
// they are honoured so one .env serves both.
func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		APIBaseURL:    strings.TrimRight(env("API_BASE_URL", env("VITE_API_BASE_URL", "")), "/"),
		TenantCode:    env("TENANT_CODE", env("VITE_TENANT_CODE", "")),
		ClientID:      env("API_CLIENT_ID", ""),
		ClientSecret:  env("API_CLIENT_SECRET", ""),
		TokenURL:      env("API_TOKEN_URL", ""),
		StaticToken:   env("API_TOKEN", ""),
		APIRPS:        atoi("API_RPS", 10),
		CDNBaseURL:    strings.TrimRight(env("CDN_BASE_URL", ""), "/"),
		LogoURL:       env("LOGO_URL", ""),
		BookingURL:    env("BOOKING_URL", ""),
		DefaultLocale: env("DEFAULT_LOCALE", "vi"),
		LabelsDir:     env("LABELS_DIR", ""),
		WebRoot:       env("WEB_ROOT", "web/dist"),
		PublicURL:     strings.TrimRight(env("PUBLIC_URL", ""), "/"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		MySQLDSN:      env("MYSQL_DSN", ""),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SettingsTTL:   time.Duration(atoi("SETTINGS_TTL_SECONDS", 86400)) * time.Second,
		WarmWorkers:   atoi("WARM_WORKERS", 4),
	}
	c.WebIndex = env("WEB_INDEX", c.WebRoot+"/index.html")
	if v := env("PROPERTY_ID", env("VITE_PROPERTY_ID", "")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Warn().Str("value", v).Msg("PROPERTY_ID is not a number")
		}
		c.PropertyID = id
	}
	if c.CDNBaseURL == "" {
		c.CDNBaseURL = c.APIBaseURL
	}
	if c.APIBaseURL == "" {
		log.Warn().Msg("API_BASE_URL is empty")
	}
	if c.TenantCode == "" {
		log.Warn().Msg("TENANT_CODE is empty")
	}
	if c.PropertyID == 0 {
		log.Warn().Msg("PROPERTY_ID is empty")
	}
	return c
}

// Dev reports a development environment.
func (c Config) Dev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
