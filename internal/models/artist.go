package models

import (
	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	Name               string `bun:"name,notnull"`
	City               string `bun:"city,type:varchar(120),notnull"`
	State              string `bun:"state,type:varchar(120),notnull"`
	Phone              string `bun:"phone,type:varchar(120)"`
	Website            string `bun:"website,type:varchar(500)"`
	FacebookLink       string `bun:"facebook_link,type:varchar(500)"`
	ImageLink          string `bun:"image_link,type:varchar(500)"`
	Genres             Genres `bun:"genres,type:varchar(500)"`
	SeekingVenue       bool   `bun:"seeking_venue,notnull,default:false"`
	SeekingDescription string `bun:"seeking_description,type:varchar(500)"`

	Shows []*Show `bun:"rel:has-many,join:id=artist_id"`
}

type ArtistSummary struct {
	ID               int64  `bun:"id"`
	Name             string `bun:"name"`
	City             string `bun:"city"`
	State            string `bun:"state"`
	NumUpcomingShows int    `bun:"-"`
}

type ArtistDetail struct {
	Artist
	PastShows          []VenueShow
	UpcomingShows      []VenueShow
	PastShowsCount     int
	UpcomingShowsCount int
}
