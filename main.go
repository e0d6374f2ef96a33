package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	orchestratorx "github.com/aryansharma/shopassistant/agent/agents/orchestrator"
	specialistx "github.com/aryansharma/shopassistant/agent/agents/specialist"
	contractx "github.com/aryansharma/shopassistant/agent/contract"
	llmx "github.com/aryansharma/shopassistant/agent/llm"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
	toolx "github.com/aryansharma/shopassistant/agent/tool"
	catalogx "github.com/aryansharma/shopassistant/catalog"
	ordersx "github.com/aryansharma/shopassistant/orders"
	configx "github.com/aryansharma/shopassistant/pkg/config"
	_ "github.com/aryansharma/shopassistant/pkg/logger/autoload"
	openrouterx "github.com/aryansharma/shopassistant/pkg/openrouter"
	"github.com/aryansharma/shopassistant/server"
)

type AppConfig struct {
	ProductsFile string `envconfig:"PRODUCTS_FILE" default:"products.json"`
	SQLitePath   string `envconfig:"SQLITE_DATABASE_PATH" default:"ecommerce.db"`
	PostgresDSN  string `envconfig:"POSTGRES_DSN"`

	SessionID string `envconfig:"SESSION_ID"`
	UserID    string `envconfig:"DEFAULT_USER_ID"`

	UpstashRedisURL string        `envconfig:"UPSTASH_REDIS_URL"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	serverCfg := configx.MustNew[server.Config]("SERVER")

	catalog := catalogx.Load(appCfg.ProductsFile)

	db, err := openDB(appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open order database")
	}
	defer db.Close()
	if err := ordersx.Init(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("initialize order schema")
	}

	userID := appCfg.UserID
	if userID == "" {
		userID = orchestratorx.DefaultUserID
	}
	store := ordersx.NewStore(db, catalog, userID)
	gateway := toolx.NewGateway(catalog, store)

	registry := newRegistry(ctx, *llmCfg)
	sessions := newSessionStore(appCfg)

	orchestrator, err := orchestratorx.New(sessions, registry, gateway, orchestratorx.Config{
		SessionID: appCfg.SessionID,
		UserID:    userID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	srv := server.New(orchestrator, *serverCfg)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Int("port", serverCfg.Port).Msg("shopping assistant listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, appCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openDB(cfg *AppConfig) (*bun.DB, error) {
	if cfg.PostgresDSN != "" {
		log.Info().Msg("using postgres order database")
		return ordersx.NewPostgresDB(cfg.PostgresDSN)
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite order database")
	return ordersx.NewSQLiteDB(cfg.SQLitePath)
}

// newRegistry picks the LLM-backed registry when OpenRouter credentials are
// present and the deterministic rule-based one otherwise, so the service
// still answers without credentials.
func newRegistry(ctx context.Context, cfg llmx.Config) contractx.Registry {
	if !cfg.Configured() {
		log.Warn().Msg("OPENROUTER_API_KEY or OPENROUTER_MODEL missing, using rule-based agents")
		return specialistx.NewRuleRegistry()
	}

	pingOpenRouter(ctx, cfg)

	registry, err := specialistx.NewRegistry(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent registry")
	}
	return registry
}

// pingOpenRouter verifies the credentials reach the API at startup. A failure
// is logged, not fatal: the key may simply lack the models endpoint.
func pingOpenRouter(ctx context.Context, cfg llmx.Config) {
	client := openrouterx.NewClient(cfg.OpenRouterFor(contractx.AgentOrchestrator))
	if client == nil {
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Models.List(pingCtx); err != nil {
		log.Warn().Err(err).Msg("openrouter connectivity check failed")
		return
	}
	log.Info().Str("model", cfg.Model).Msg("openrouter credentials verified")
}

func newSessionStore(cfg *AppConfig) sessionx.Store {
	if cfg.UpstashRedisURL == "" {
		return sessionx.NewMemoryStore()
	}

	redisCfg, err := configx.New[sessionx.UpstashRedisConfig]("UPSTASH_REDIS")
	if err != nil {
		log.Warn().Err(err).Msg("upstash redis misconfigured, using in-memory sessions")
		return sessionx.NewMemoryStore()
	}
	store, err := sessionx.NewUpstashRedisStore(*redisCfg)
	if err != nil {
		log.Warn().Err(err).Msg("upstash redis unavailable, using in-memory sessions")
		return sessionx.NewMemoryStore()
	}
	log.Info().Msg("using upstash redis session store")
	return store
}
