package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Show struct {
	bun.BaseModel `bun:"table:shows,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ArtistID  int64     `bun:"artist_id,notnull"`
	VenueID   int64     `bun:"venue_id,notnull"`
	StartTime time.Time `bun:"start_time,notnull"`

	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id"`
	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id"`
}

// ArtistShow is a show as seen from a venue page.
type ArtistShow struct {
	ArtistID        int64     `bun:"artist_id"`
	ArtistName      string    `bun:"artist_name"`
	ArtistImageLink string    `bun:"artist_image_link"`
	StartTime       time.Time `bun:"start_time"`
}

// VenueShow is a show as seen from an artist page.
type VenueShow struct {
	VenueID        int64     `bun:"venue_id"`
	VenueName      string    `bun:"venue_name"`
	VenueImageLink string    `bun:"venue_image_link"`
	StartTime      time.Time `bun:"start_time"`
}

// ShowListing is one row of the /shows page.
type ShowListing struct {
	ID              int64     `bun:"id"`
	VenueID         int64     `bun:"venue_id"`
	VenueName       string    `bun:"venue_name"`
	ArtistID        int64     `bun:"artist_id"`
	ArtistName      string    `bun:"artist_name"`
	ArtistImageLink string    `bun:"artist_image_link"`
	StartTime       time.Time `bun:"start_time"`
}

// IsUpcoming reports whether a show starting at start has not started before now.
func IsUpcoming(start, now time.Time) bool {
	return !start.Before(now)
}
