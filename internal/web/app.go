package web

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"ms-listing/internal/logger"
)

const SessionCookie = "listing_session"

type HandlerFunc func(r *http.Request) Response

// App turns Responses into HTTP: it renders pages, performs redirects and
// moves flashes through the FlashStore.
type App struct {
	Renderer *Renderer
	Flashes  FlashStore
	Logger   *logger.Logger
}

func NewApp(renderer *Renderer, flashes FlashStore, log *logger.Logger) *App {
	return &App{Renderer: renderer, Flashes: flashes, Logger: log}
}

func (a *App) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.Write(w, r, fn(r))
	}
}

func (a *App) Write(w http.ResponseWriter, r *http.Request, resp Response) {
	session, isNew := a.session(w, r)
	ctx := r.Context()

	if resp.Redirect != "" {
		if err := a.Flashes.Push(ctx, session, resp.Flashes...); err != nil {
			a.Logger.Error("FLASH", fmt.Sprintf("Failed to store flashes: %v", err))
		}
		status := resp.Status
		if status < 300 || status > 399 {
			status = http.StatusSeeOther
		}
		http.Redirect(w, r, resp.Redirect, status)
		return
	}

	var messages []Flash
	if !isNew {
		pending, err := a.Flashes.Pop(ctx, session)
		if err != nil {
			a.Logger.Error("FLASH", fmt.Sprintf("Failed to load flashes: %v", err))
		}
		messages = pending
	}
	messages = append(messages, resp.Flashes...)

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	a.render(w, status, resp.Template, resp.Data, messages)
}

func (a *App) render(w http.ResponseWriter, status int, name string, data map[string]interface{}, messages []Flash) {
	view := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		view[k] = v
	}
	view["messages"] = messages

	if err := a.Renderer.Render(w, status, name, view); err != nil {
		a.Logger.Error("RENDER", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// session returns the visitor's session id, issuing a cookie when absent.
func (a *App) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, false
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}

// NotFoundHandler renders errors/404 for unmatched routes.
func (a *App) NotFoundHandler() http.HandlerFunc {
	return a.Handle(func(*http.Request) Response { return NotFound() })
}

// Recoverer turns a handler panic into the 500 page.
func (a *App) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				a.Logger.Error("HTTP", fmt.Sprintf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				a.render(w, http.StatusInternalServerError, "errors/500", nil, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
