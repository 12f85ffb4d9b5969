package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	Name               string `bun:"name,notnull"`
	City               string `bun:"city,type:varchar(120),notnull"`
	State              string `bun:"state,type:varchar(120),notnull"`
	Address            string `bun:"address,type:varchar(120),notnull"`
	Phone              string `bun:"phone,type:varchar(120)"`
	Website            string `bun:"website,type:varchar(500)"`
	FacebookLink       string `bun:"facebook_link,type:varchar(500)"`
	ImageLink          string `bun:"image_link,type:varchar(500)"`
	Genres             Genres `bun:"genres,type:varchar(500)"`
	SeekingTalent      bool   `bun:"seeking_talent,notnull,default:false"`
	SeekingDescription string `bun:"seeking_description,type:varchar(500)"`

	Shows []*Show `bun:"rel:has-many,join:id=venue_id"`
}

// VenueSummary is one venue line in the area listing and search results.
type VenueSummary struct {
	ID               int64  `bun:"id"`
	Name             string `bun:"name"`
	City             string `bun:"city"`
	State            string `bun:"state"`
	NumUpcomingShows int    `bun:"-"`
}

// Area groups the venues sharing a city and state.
type Area struct {
	City   string
	State  string
	Venues []VenueSummary
}

type VenueDetail struct {
	Venue
	PastShows          []ArtistShow
	UpcomingShows      []ArtistShow
	PastShowsCount     int
	UpcomingShowsCount int
}
