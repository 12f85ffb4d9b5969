package venue_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-listing/internal/forms"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
	"ms-listing/internal/monitoring"
	"ms-listing/internal/share"
	venues "ms-listing/internal/venues/service"
	"ms-listing/internal/web"
)

// Service is the part of venues.VenueService the handlers call.
type Service interface {
	ListAreas(ctx context.Context) ([]models.Area, error)
	Search(ctx context.Context, term string) (models.SearchResult[models.VenueSummary], error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	GetVenueDetail(ctx context.Context, id int64) (*models.VenueDetail, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, id int64, apply func(*models.Venue)) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) (*models.Venue, error)
}

type Handler struct {
	VenueService Service
	App          *web.App
	QR           *share.QRGenerator
	Logger       *logger.Logger
}

func NewHandler(service Service, app *web.App, qr *share.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{VenueService: service, App: app, QR: qr, Logger: log}
}

// RegisterRoutes mounts the venue pages under /venues.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.App.Handle(h.ListVenues))
		r.Post("/search", h.App.Handle(h.SearchVenues))
		r.Get("/create", h.App.Handle(h.CreateVenueForm))
		r.Post("/create", h.App.Handle(h.CreateVenue))
		r.Get("/{venueID}", h.App.Handle(h.ShowVenue))
		r.Delete("/{venueID}", h.App.Handle(h.DeleteVenue))
		r.Post("/{venueID}/delete", h.App.Handle(h.DeleteVenue))
		r.Get("/{venueID}/edit", h.App.Handle(h.EditVenueForm))
		r.Post("/{venueID}/edit", h.App.Handle(h.EditVenue))
		r.Get("/{venueID}/qr.png", h.VenueQR)
	})
}

func (h *Handler) ListVenues(r *http.Request) web.Response {
	areas, err := h.VenueService.ListAreas(r.Context())
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to list venues: %v", err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/venues", map[string]interface{}{"areas": areas})
}

func (h *Handler) SearchVenues(r *http.Request) web.Response {
	term := strings.TrimSpace(r.PostFormValue("search_term"))
	results, err := h.VenueService.Search(r.Context(), term)
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Venue search %q failed: %v", term, err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/search_venues", map[string]interface{}{
		"search_term": term,
		"results":     results,
	})
}

func (h *Handler) ShowVenue(r *http.Request) web.Response {
	id, ok := venueID(r)
	if !ok {
		return web.NotFound()
	}

	detail, err := h.VenueService.GetVenueDetail(r.Context(), id)
	if errors.Is(err, venues.ErrVenueNotFound) {
		return web.NotFound()
	}
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load venue %d: %v", id, err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/show_venue", map[string]interface{}{"venue": detail})
}

func (h *Handler) CreateVenueForm(r *http.Request) web.Response {
	return web.Page(http.StatusOK, "forms/new_venue", formData(forms.VenueForm{}, nil))
}

func (h *Handler) CreateVenue(r *http.Request) web.Response {
	if err := r.ParseForm(); err != nil {
		return web.Page(http.StatusBadRequest, "forms/new_venue", formData(forms.VenueForm{}, nil),
			web.Failure("An error occurred. Venue could not be listed."))
	}

	form := forms.ParseVenueForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		return web.Page(http.StatusBadRequest, "forms/new_venue", formData(form, errs),
			web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be listed.", form.Name)))
	}

	venue := form.ToVenue()
	if err := h.VenueService.CreateVenue(r.Context(), venue); err != nil {
		h.persistenceFailure("venue_create", err)
		return web.ServerError(web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be listed.", form.Name)))
	}
	return web.Home(web.Success(fmt.Sprintf("Venue %s was successfully listed!", venue.Name)))
}

func (h *Handler) EditVenueForm(r *http.Request) web.Response {
	id, ok := venueID(r)
	if !ok {
		return web.NotFound()
	}

	venue, err := h.VenueService.GetVenue(r.Context(), id)
	if errors.Is(err, venues.ErrVenueNotFound) {
		return web.NotFound()
	}
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load venue %d: %v", id, err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "forms/edit_venue", editData(venue, forms.VenueFormFrom(venue), nil))
}

func (h *Handler) EditVenue(r *http.Request) web.Response {
	id, ok := venueID(r)
	if !ok {
		return web.NotFound()
	}

	ctx := r.Context()
	current, err := h.VenueService.GetVenue(ctx, id)
	if errors.Is(err, venues.ErrVenueNotFound) {
		return web.NotFound()
	}
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load venue %d: %v", id, err))
		return web.ServerError()
	}

	if err := r.ParseForm(); err != nil {
		return web.Page(http.StatusBadRequest, "forms/edit_venue", editData(current, forms.VenueFormFrom(current), nil),
			web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be updated.", current.Name)))
	}

	form := forms.ParseVenueForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		return web.Page(http.StatusBadRequest, "forms/edit_venue", editData(current, form, errs),
			web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be updated.", current.Name)))
	}

	updated, err := h.VenueService.UpdateVenue(ctx, id, form.ApplyTo)
	if errors.Is(err, venues.ErrVenueNotFound) {
		return web.NotFound()
	}
	if err != nil {
		h.persistenceFailure("venue_update", err)
		return web.ServerError(web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be updated.", form.Name)))
	}
	return web.SeeOther(fmt.Sprintf("/venues/%d", id),
		web.Success(fmt.Sprintf("Venue %s was successfully updated!", updated.Name)))
}

func (h *Handler) DeleteVenue(r *http.Request) web.Response {
	id, ok := venueID(r)
	if !ok {
		return web.NotFound()
	}

	ctx := r.Context()
	venue, err := h.VenueService.GetVenue(ctx, id)
	if errors.Is(err, venues.ErrVenueNotFound) {
		return web.NotFound()
	}
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load venue %d: %v", id, err))
		return web.ServerError()
	}

	if _, err := h.VenueService.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			return web.NotFound()
		}
		h.persistenceFailure("venue_delete", err)
		return web.ServerError(web.Failure(fmt.Sprintf("An error occurred. Venue %s could not be deleted.", venue.Name)))
	}
	return web.Home(web.Success(fmt.Sprintf("Venue %s was successfully deleted.", venue.Name)))
}

// VenueQR serves a PNG QR code pointing at the venue's public page.
func (h *Handler) VenueQR(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.App.Write(w, r, web.NotFound())
		return
	}

	if _, err := h.VenueService.GetVenue(r.Context(), id); err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			h.App.Write(w, r, web.NotFound())
			return
		}
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load venue %d: %v", id, err))
		h.App.Write(w, r, web.ServerError())
		return
	}

	png, err := h.QR.VenuePNG(id)
	if err != nil {
		h.Logger.Error("QR", err.Error())
		h.App.Write(w, r, web.ServerError())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) persistenceFailure(operation string, err error) {
	monitoring.TrackPersistenceFailure(operation)
	h.Logger.Error("DATABASE", fmt.Sprintf("%s rolled back: %v", operation, err))
}

func venueID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	return id, err == nil && id > 0
}

func formData(form forms.VenueForm, errs forms.Errors) map[string]interface{} {
	if errs == nil {
		errs = forms.Errors{}
	}
	return map[string]interface{}{
		"form":   form,
		"errors": errs,
		"states": forms.StateChoices,
		"genres": forms.GenreChoices,
	}
}

func editData(venue *models.Venue, form forms.VenueForm, errs forms.Errors) map[string]interface{} {
	data := formData(form, errs)
	data["venue_id"] = venue.ID
	data["venue_name"] = venue.Name
	return data
}
