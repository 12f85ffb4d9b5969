package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	"ms-listing/internal/artists/artist_api"
	artist_db "ms-listing/internal/artists/db"
	artists "ms-listing/internal/artists/service"
	"ms-listing/internal/config"
	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/middleware"
	"ms-listing/internal/monitoring"
	"ms-listing/internal/share"
	show_db "ms-listing/internal/shows/db"
	shows "ms-listing/internal/shows/service"
	"ms-listing/internal/shows/show_api"
	venue_db "ms-listing/internal/venues/db"
	venues "ms-listing/internal/venues/service"
	"ms-listing/internal/venues/venue_api"
	"ms-listing/internal/web"
)

// NewRouter wires every listing page onto one chi router.
func NewRouter(cfg *config.Config, bunDB *bun.DB, app *web.App, events kafka.Publisher, log *logger.Logger) http.Handler {
	showStore := &show_db.DB{Bun: bunDB}
	qr := share.NewQRGenerator(cfg.Server.PublicBaseURL)

	venueService := venues.NewVenueService(&venue_db.DB{Bun: bunDB}, showStore, events, cfg.Kafka.Topics.VenueEvents, log)
	artistService := artists.NewArtistService(&artist_db.DB{Bun: bunDB}, showStore, events, cfg.Kafka.Topics.ArtistEvents, log)
	showService := shows.NewShowService(showStore, events, cfg.Kafka.Topics.ShowEvents, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(app.Recoverer)

	r.NotFound(app.NotFoundHandler())
	r.Handle("/metrics", monitoring.Handler())
	r.Get("/", app.Handle(func(*http.Request) web.Response { return web.Home() }))

	venue_api.NewHandler(venueService, app, qr, log).RegisterRoutes(r)
	log.Info("ROUTER", "Venue routes registered under /venues")

	artist_api.NewHandler(artistService, app, qr, log).RegisterRoutes(r)
	log.Info("ROUTER", "Artist routes registered under /artists")

	show_api.NewHandler(showService, app, log).RegisterRoutes(r)
	log.Info("ROUTER", "Show routes registered under /shows")

	return r
}

// NewHTTPServer applies the configured timeouts to handler.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
