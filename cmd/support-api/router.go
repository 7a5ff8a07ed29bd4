// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/helpdesk-ai/support-engine/cmd/support-api/handlers"
	"github.com/helpdesk-ai/support-engine/cmd/support-api/middleware"
	"github.com/helpdesk-ai/support-engine/internal/cache"
	"github.com/helpdesk-ai/support-engine/internal/classify"
	"github.com/helpdesk-ai/support-engine/internal/compose"
	"github.com/helpdesk-ai/support-engine/internal/config"
	"github.com/helpdesk-ai/support-engine/internal/extract"
	"github.com/helpdesk-ai/support-engine/internal/genai"
	"github.com/helpdesk-ai/support-engine/internal/knowledge"
	"github.com/helpdesk-ai/support-engine/internal/monitoring"
	"github.com/helpdesk-ai/support-engine/internal/observability"
	"github.com/helpdesk-ai/support-engine/internal/source"
)

// NewRouter wires the service dependencies and creates the API router. The
// returned cleanup closes the reply cache and the audit database.
func NewRouter(logger *observability.Logger, cfg *config.Config) (http.Handler, func(), error) {
	replyCache, err := newReplyCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	fetcher := source.NewFetcher(logger, source.FetcherConfig{
		Timeout: cfg.Sources.FetchTimeout,
		URLs:    cfg.Sources.Domains,
	})
	store := knowledge.NewStore(cfg.Corpus.Dir)
	sources := source.NewCache(logger, fetcher, store, source.CacheConfig{
		TTL: cfg.Sources.TTL,
	})

	var generative compose.Generative
	if cfg.Generative.Enabled {
		generative = genai.NewClient(cfg.Generative.APIKey,
			genai.WithModel(cfg.Generative.Model),
			genai.WithBaseURL(cfg.Generative.BaseURL),
			genai.WithTimeout(cfg.Generative.Timeout),
		)
	}

	var auditor *monitoring.AuditLogger
	if cfg.Audit.Enabled {
		auditor, err = monitoring.NewAuditLogger(logger, cfg.Audit.Path)
		if err != nil {
			replyCache.Close()
			return nil, nil, err
		}
	}

	composer := compose.NewComposer(
		logger,
		classify.New(),
		sources,
		extract.DefaultChain(logger),
		replyCache,
		generative,
		auditorOrNil(auditor),
	)

	chatHandler := handlers.NewChatHandler(logger, composer)
	adminHandler := handlers.NewAdminHandler(logger, sources, replyCache, auditor)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"support-engine"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chat", func(r chi.Router) {
			r.Post("/query", chatHandler.Query)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/sources/{domain}", func(r chi.Router) {
				r.Get("/", adminHandler.Inspect)
				r.Post("/clear", adminHandler.Clear)
				r.Post("/refresh", adminHandler.Refresh)
			})
			r.Get("/audit/events", adminHandler.AuditEvents)
		})
	})

	cleanup := func() {
		replyCache.Close()
		if auditor != nil {
			auditor.Close()
		}
	}
	return r, cleanup, nil
}

func newReplyCache(cfg *config.Config) (cache.Client, error) {
	if cfg.Cache.Driver == "redis" {
		return cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil
}

// auditorOrNil avoids storing a typed nil in the composer's interface field.
func auditorOrNil(a *monitoring.AuditLogger) compose.Auditor {
	if a == nil {
		return nil
	}
	return a
}
