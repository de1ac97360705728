package app

import (
	"context"

	"atelier-backend/internal/agent"
	"atelier-backend/internal/audit"
	"atelier-backend/internal/auth"
	"atelier-backend/internal/config"
	"atelier-backend/internal/dashboard"
	"atelier-backend/internal/database"
	"atelier-backend/internal/deliverables"
	"atelier-backend/internal/emails"
	"atelier-backend/internal/health"
	"atelier-backend/internal/identity"
	"atelier-backend/internal/leads"
	"atelier-backend/internal/middleware"
	"atelier-backend/internal/provisioning"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so main can verify
// connectivity before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Database
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)

	// Shared clients
	mailer := &emails.ResendClient{
		APIKey:   cfg.ResendAPIKey,
		MailFrom: cfg.MailFrom,
		NotifyTo: cfg.LeadNotifyTo,
	}
	identityClient := &identity.HTTPClient{
		BaseURL:    cfg.IdentityURL,
		ServiceKey: cfg.IdentityServiceKey,
	}

	// Auth (no auth middleware)
	var finder auth.ProfileFinder
	if db != nil {
		finder = &auth.GormProfileFinder{DB: db}
	}
	authHandlers := &auth.Handlers{ProfileFinder: finder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Audit proxy (public)
	auditHandlers := &audit.Handlers{Service: &audit.Service{APIKey: cfg.PageSpeedAPIKey}}
	app.Post("/api/v1/audit/run", auditHandlers.Run)

	// Agent / completion proxy (public). Missing key degrades to 503 instead
	// of failing startup.
	agentHandlers := &agent.Handlers{}
	if cfg.GeminiAPIKey != "" {
		completer, err := agent.NewGenAIClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, nil, err
		}
		agentHandlers.Completer = completer
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; completion routes will return 503")
	}
	app.Post("/api/v1/chat", agentHandlers.Chat)
	app.Post("/api/v1/completion", agentHandlers.Completion)
	app.Post("/api/v1/agent/:type", agentHandlers.Agent)

	if db != nil {
		// Lead capture (public create, admin list)
		leadService := &leads.Service{DB: db, Mailer: mailer}
		leadHandlers := &leads.Handlers{Service: leadService}
		app.Post("/api/v1/leads", leadHandlers.Create)

		// Dashboard (auth required)
		dashboardService := &dashboard.Service{DB: db, Rdb: rdb}
		dashboardHandlers := &dashboard.Handlers{Service: dashboardService}
		app.Get("/api/v1/dashboard", middleware.RequireAuth(), dashboardHandlers.GetDashboard)

		// Deliverables (auth required)
		deliverableService := &deliverables.Service{DB: db, Rdb: rdb}
		deliverableHandlers := &deliverables.Handlers{Service: deliverableService}
		deliverableGroup := app.Group("/api/v1/deliverables", middleware.RequireAuth())
		deliverableGroup.Post("/approve", deliverableHandlers.Approve)
		deliverableGroup.Post("/request-changes", deliverableHandlers.RequestChanges)

		// Admin (auth + allowlist)
		provisionService := &provisioning.Service{
			DB:            db,
			Identity:      identityClient,
			Mailer:        mailer,
			Rdb:           rdb,
			PortalBaseURL: cfg.PortalBaseURL,
		}
		provisionHandlers := &provisioning.Handlers{Service: provisionService}
		adminGroup := app.Group("/api/v1/admin", middleware.RequireAuth(), middleware.RequireAdmin(cfg.AdminEmails))
		adminGroup.Post("/provision-client", provisionHandlers.ProvisionClient)
		adminGroup.Post("/invite", provisionHandlers.Invite)
		adminGroup.Get("/leads", leadHandlers.List)
	}

	return app, db, rdb, nil
}
