package artist_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	artists "ms-listing/internal/artists/service"
	"ms-listing/internal/forms"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
	"ms-listing/internal/monitoring"
	"ms-listing/internal/share"
	"ms-listing/internal/web"
)

type Service interface {
	ListArtists(ctx context.Context) ([]models.ArtistSummary, error)
	Search(ctx context.Context, term string) (models.SearchResult[models.ArtistSummary], error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	GetArtistDetail(ctx context.Context, id int64) (*models.ArtistDetail, error)
	CreateArtist(ctx context.Context, artist *models.Artist) error
	UpdateArtist(ctx context.Context, id int64, apply func(*models.Artist)) (*models.Artist, error)
}

type Handler struct {
	ArtistService Service
	App           *web.App
	QR            *share.QRGenerator
	Logger        *logger.Logger
}

func NewHandler(service Service, app *web.App, qr *share.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{ArtistService: service, App: app, QR: qr, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.App.Handle(h.ListArtists))
		r.Post("/search", h.App.Handle(h.SearchArtists))
		r.Get("/create", h.App.Handle(h.CreateArtistForm))
		r.Post("/create", h.App.Handle(h.CreateArtist))
		r.Get("/{artistID}", h.App.Handle(h.ShowArtist))
		r.Get("/{artistID}/edit", h.App.Handle(h.EditArtistForm))
		r.Post("/{artistID}/edit", h.App.Handle(h.EditArtist))
		r.Get("/{artistID}/qr.png", h.ArtistQR)
	})
}

func (h *Handler) ListArtists(r *http.Request) web.Response {
	rows, err := h.ArtistService.ListArtists(r.Context())
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Failed to list artists: %v", err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/artists", map[string]interface{}{"artists": rows})
}

func (h *Handler) SearchArtists(r *http.Request) web.Response {
	term := strings.TrimSpace(r.PostFormValue("search_term"))
	results, err := h.ArtistService.Search(r.Context(), term)
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("Artist search %q failed: %v", term, err))
		return web.ServerError()
	}
	return web.Page(http.StatusOK, "pages/search_artists", map[string]interface{}{
		"search_term": term,
		"results":     results,
	})
}

func (h *Handler) ShowArtist(r *http.Request) web.Response {
	id, ok := artistID(r)
	if !ok {
		return web.NotFound()
	}

	detail, err := h.ArtistService.GetArtistDetail(r.Context(), id)
	if err != nil {
		return h.lookupFailure(id, err)
	}
	return web.Page(http.StatusOK, "pages/show_artist", map[string]interface{}{"artist": detail})
}

func (h *Handler) CreateArtistForm(r *http.Request) web.Response {
	return web.Page(http.StatusOK, "forms/new_artist", formData(forms.ArtistForm{}, nil))
}

func (h *Handler) CreateArtist(r *http.Request) web.Response {
	r.ParseForm()
	form := forms.ParseArtistForm(r.PostForm)
	failed := web.Failure(fmt.Sprintf("An error occurred. Artist %s could not be listed.", form.Name))

	if errs := form.Validate(); len(errs) > 0 {
		return web.Page(http.StatusBadRequest, "forms/new_artist", formData(form, errs), failed)
	}

	artist := form.ToArtist()
	if err := h.ArtistService.CreateArtist(r.Context(), artist); err != nil {
		monitoring.TrackPersistenceFailure("artist_create")
		h.Logger.Error("DATABASE", fmt.Sprintf("artist_create rolled back: %v", err))
		return web.ServerError(failed)
	}
	return web.Home(web.Success(fmt.Sprintf("Artist %s was successfully listed!", artist.Name)))
}

func (h *Handler) EditArtistForm(r *http.Request) web.Response {
	artist, resp := h.loadArtist(r)
	if artist == nil {
		return resp
	}
	return web.Page(http.StatusOK, "forms/edit_artist", editData(artist, forms.ArtistFormFrom(artist), nil))
}

func (h *Handler) EditArtist(r *http.Request) web.Response {
	current, resp := h.loadArtist(r)
	if current == nil {
		return resp
	}

	r.ParseForm()
	form := forms.ParseArtistForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		return web.Page(http.StatusBadRequest, "forms/edit_artist", editData(current, form, errs),
			web.Failure(fmt.Sprintf("An error occurred. Artist %s could not be updated.", current.Name)))
	}

	updated, err := h.ArtistService.UpdateArtist(r.Context(), current.ID, form.ApplyTo)
	if errors.Is(err, artists.ErrArtistNotFound) {
		return web.NotFound()
	}
	if err != nil {
		monitoring.TrackPersistenceFailure("artist_update")
		h.Logger.Error("DATABASE", fmt.Sprintf("artist_update rolled back: %v", err))
		return web.ServerError(web.Failure(fmt.Sprintf("An error occurred. Artist %s could not be updated.", form.Name)))
	}
	return web.SeeOther(fmt.Sprintf("/artists/%d", current.ID),
		web.Success(fmt.Sprintf("Artist %s was successfully updated!", updated.Name)))
}

func (h *Handler) ArtistQR(w http.ResponseWriter, r *http.Request) {
	artist, resp := h.loadArtist(r)
	if artist == nil {
		h.App.Write(w, r, resp)
		return
	}

	png, err := h.QR.ArtistPNG(artist.ID)
	if err != nil {
		h.Logger.Error("QR", err.Error())
		h.App.Write(w, r, web.ServerError())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// loadArtist resolves {artistID}. A nil artist comes with the response to send.
func (h *Handler) loadArtist(r *http.Request) (*models.Artist, web.Response) {
	id, ok := artistID(r)
	if !ok {
		return nil, web.NotFound()
	}
	artist, err := h.ArtistService.GetArtist(r.Context(), id)
	if err != nil {
		return nil, h.lookupFailure(id, err)
	}
	return artist, web.Response{}
}

func (h *Handler) lookupFailure(id int64, err error) web.Response {
	if errors.Is(err, artists.ErrArtistNotFound) {
		return web.NotFound()
	}
	h.Logger.Error("DATABASE", fmt.Sprintf("Failed to load artist %d: %v", id, err))
	return web.ServerError()
}

func artistID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	return id, err == nil && id > 0
}

func formData(form forms.ArtistForm, errs forms.Errors) map[string]interface{} {
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

func editData(artist *models.Artist, form forms.ArtistForm, errs forms.Errors) map[string]interface{} {
	data := formData(form, errs)
	data["artist_id"] = artist.ID
	data["artist_name"] = artist.Name
	return data
}
