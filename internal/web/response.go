package web

import (
	"net/http"
)

// Response is what a page handler decides: a page to render with its data,
// or a redirect. Flashes travel with it instead of living in request state.
type Response struct {
	Status   int
	Template string
	Data     map[string]interface{}
	Redirect string
	Flashes  []Flash
}

func Page(status int, template string, data map[string]interface{}, flashes ...Flash) Response {
	return Response{Status: status, Template: template, Data: data, Flashes: flashes}
}

// SeeOther redirects with 303 so a POSTed form is followed by a GET.
func SeeOther(target string, flashes ...Flash) Response {
	return Response{Status: http.StatusSeeOther, Redirect: target, Flashes: flashes}
}

func NotFound() Response {
	return Response{Status: http.StatusNotFound, Template: "errors/404"}
}

func ServerError(flashes ...Flash) Response {
	return Response{Status: http.StatusInternalServerError, Template: "errors/500", Flashes: flashes}
}

// Home is the landing page, also shown after a successful create or delete.
func Home(flashes ...Flash) Response {
	return Page(http.StatusOK, "pages/home", nil, flashes...)
}
