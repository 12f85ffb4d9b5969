package models

import "errors"

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrArtistNotFound   = errors.New("artist not found")
	ErrInvalidReference = errors.New("show references a missing artist or venue")
)
