package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shijra-api/internal/application/dna"
	"github.com/shijra-api/internal/application/hint"
	"github.com/shijra-api/internal/application/notification"
	"github.com/shijra-api/internal/application/story"
	"github.com/shijra-api/internal/config"
	"github.com/shijra-api/internal/transport/http/handler"
	appmiddleware "github.com/shijra-api/internal/transport/http/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work owned by the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	broadcastRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.BroadcastRate), cfg.BroadcastBurst,
		appmiddleware.WithTrustedProxyHeaders(cfg.TrustProxyHeaders))

	notifSvc := notification.NewService(notification.ServiceDeps{
		Repo:      deps.NotificationRepo,
		Publisher: deps.Publisher,
		Timeout:   cfg.StoreTimeout,
		Logger:    log,
	})
	storySvc := story.NewService(deps.Storyteller)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(notifSvc, log)
	storyH := handler.NewStoryHandler(storySvc, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(broadcastRL.Limit).Post("/broadcast/send", notifH.Broadcast)
		r.Get("/notifications", notifH.List)

		r.HandleFunc("/generate-story", storyH.Generate)

		if deps.HintRepo != nil {
			hintH := handler.NewHintHandler(hint.NewService(deps.HintRepo, cfg.StoreTimeout), log)
			r.Get("/hints/{individualId}", hintH.List)
		}

		if deps.JWTProvider != nil && deps.Objects != nil && deps.DNAUploadRepo != nil {
			dnaSvc := dna.NewService(dna.ServiceDeps{
				Objects: deps.Objects,
				Repo:    deps.DNAUploadRepo,
				Timeout: cfg.StoreTimeout,
				Logger:  log,
			})
			dnaH := handler.NewDNAHandler(dnaSvc, cfg.DNAMaxUploadMB, log)
			r.With(appmiddleware.Auth(deps.JWTProvider)).Post("/dna/upload", dnaH.Upload)
		}
	})

	return r
}
