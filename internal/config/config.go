package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	IdentityURL         string // Supabase project URL, e.g. https://xyzcompany.supabase.co — used for auth admin invites
	IdentityServiceKey  string // must be the service_role key (Dashboard → API), not the anon key
	ResendAPIKey        string
	MailFrom            string // sender address for transactional email (default hello@atelier.studio)
	LeadNotifyTo        string // inbox that receives lead-capture alerts
	GeminiAPIKey        string
	GeminiModel         string
	PageSpeedAPIKey     string
	AdminEmails         []string // allowlist for admin routes; single source of truth for admin access
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	PortalBaseURL       string // base URL for portal links in invite emails
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	model := viper.GetString("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		IdentityURL:         viper.GetString("SUPABASE_URL"),
		IdentityServiceKey:  viper.GetString("SUPABASE_SERVICE_KEY"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		MailFrom:            mailFrom(viper.GetString("MAIL_FROM")),
		LeadNotifyTo:        viper.GetString("LEAD_NOTIFY_TO"),
		GeminiAPIKey:        viper.GetString("GEMINI_API_KEY"),
		GeminiModel:         model,
		PageSpeedAPIKey:     viper.GetString("PAGESPEED_API_KEY"),
		AdminEmails:         splitEmails(viper.GetString("ADMIN_EMAILS")),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		PortalBaseURL:       portalBaseURL(viper.GetString("PORTAL_BASE_URL")),
	}, nil
}

func splitEmails(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func portalBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "https://atelier.studio"
	}
	return s
}

func mailFrom(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "hello@atelier.studio"
	}
	return s
}
