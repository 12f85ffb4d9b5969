package show_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-listing/internal/forms"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
	"ms-listing/internal/monitoring"
	shows "ms-listing/internal/shows/service"
	"ms-listing/internal/web"
)

type Service interface {
	ListShows(ctx context.Context) ([]models.ShowListing, error)
	CreateShow(ctx context.Context, show *models.Show) error
}

type Handler struct {
	ShowService Service
	App         *web.App
	Logger      *logger.Logger
	Now         func() time.Time
}

func NewHandler(service Service, app *web.App, log *logger.Logger) *Handler {
	return &Handler{ShowService: service, App: app, Logger: log, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.App.Handle(h.ListShows))
		r.Get("/create", h.App.Handle(h.CreateShowForm))
		r.Post("/create", h.App.Handle(h.CreateShow))
	})
}

func (h *Handler) ListShows(r *http.Request) web.Response {
	rows, err := h.ShowService.ListShows(r.Context())
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to list shows: %v", err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/shows", map[string]interface{}{"shows": rows})
}

func (h *Handler) CreateShowForm(r *http.Request) web.Response {
	return web.Page(http.StatusOK, "forms/new_show", map[string]interface{}{
		"form":   forms.NewShowForm(h.Now()),
		"errors": forms.Errors{},
	})
}

func (h *Handler) CreateShow(r *http.Request) web.Response {
	const failed = "An error occurred. Show could not be listed."

	r.ParseForm()
	form := forms.ParseShowForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		return web.Page(http.StatusBadRequest, "forms/new_show",
			map[string]interface{}{"form": form, "errors": errs}, web.Failure(failed))
	}

	show, err := form.ToShow()
	if err != nil {
		return web.Page(http.StatusBadRequest, "forms/new_show",
			map[string]interface{}{"form": form, "errors": forms.Errors{}}, web.Failure(failed))
	}

	if err := h.ShowService.CreateShow(r.Context(), show); err != nil {
		monitoring.TrackPersistenceFailure("show_create")
		if errors.Is(err, shows.ErrInvalidReference) {
			h.Logger.Warn("DATABASE", fmt.Sprintf("show_create rejected: %v", err))
		} else {
			h.Logger.Error("DATABASE", fmt.Sprintf("show_create rolled back: %v", err))
		}
		return web.ServerError(web.Failure(failed))
	}
	return web.Home(web.Success("Show was successfully listed!"))
}
