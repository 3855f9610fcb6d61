package rest

import (
	"net/http"

	"vibewire/application/services"
	"vibewire/infrastructure/config"
	"vibewire/interfaces/http/rest/handlers"
	"vibewire/interfaces/http/rest/middleware"
	"vibewire/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg             *config.Config
	metrics         *observability.Metrics
	vibeService     *services.VibeService
	packetService   *services.PacketService
	timelineService *services.TimelineService
	logger          *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	metrics *observability.Metrics,
	vibeService *services.VibeService,
	packetService *services.PacketService,
	timelineService *services.TimelineService,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:             cfg,
		metrics:         metrics,
		vibeService:     vibeService,
		packetService:   packetService,
		timelineService: timelineService,
		logger:          logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.vibewire.dev"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))

		r.Route("/vibes", func(r chi.Router) {
			vibeHandler := handlers.NewVibeHandler(rt.vibeService, rt.logger)
			r.Post("/analyze", vibeHandler.Analyze)
		})

		r.Route("/packets", func(r chi.Router) {
			packetHandler := handlers.NewPacketHandler(rt.packetService, rt.logger)
			r.Post("/", packetHandler.Send)
		})

		r.Route("/recipients/{recipientID}", func(r chi.Router) {
			stateHandler := handlers.NewStateHandler(rt.timelineService, rt.logger)
			r.Get("/state", stateHandler.GetState)
			r.Get("/timeline", stateHandler.GetTimeline)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
