package forms

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"ms-listing/internal/models"
)

type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,us_state"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=500"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,us_state"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=500"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// ShowForm keeps the raw submitted strings so an invalid form can be
// re-rendered exactly as typed.
type ShowForm struct {
	ArtistID  string `form:"artist_id" validate:"required,positive_id"`
	VenueID   string `form:"venue_id" validate:"required,positive_id"`
	StartTime string `form:"start_time" validate:"required,start_time"`
}

func ParseVenueForm(values url.Values) VenueForm {
	return VenueForm{
		Name:               field(values, "name"),
		City:               field(values, "city"),
		State:              field(values, "state"),
		Address:            field(values, "address"),
		Phone:              field(values, "phone"),
		ImageLink:          field(values, "image_link"),
		Genres:             multi(values, "genres"),
		FacebookLink:       field(values, "facebook_link"),
		WebsiteLink:        field(values, "website_link"),
		SeekingTalent:      checked(values, "seeking_talent"),
		SeekingDescription: field(values, "seeking_description"),
	}
}

func ParseArtistForm(values url.Values) ArtistForm {
	return ArtistForm{
		Name:               field(values, "name"),
		City:               field(values, "city"),
		State:              field(values, "state"),
		Phone:              field(values, "phone"),
		ImageLink:          field(values, "image_link"),
		Genres:             multi(values, "genres"),
		FacebookLink:       field(values, "facebook_link"),
		WebsiteLink:        field(values, "website_link"),
		SeekingVenue:       checked(values, "seeking_venue"),
		SeekingDescription: field(values, "seeking_description"),
	}
}

func ParseShowForm(values url.Values) ShowForm {
	return ShowForm{
		ArtistID:  field(values, "artist_id"),
		VenueID:   field(values, "venue_id"),
		StartTime: field(values, "start_time"),
	}
}

func (f VenueForm) Validate() Errors  { return check(f) }
func (f ArtistForm) Validate() Errors { return check(f) }
func (f ShowForm) Validate() Errors   { return check(f) }

func (f VenueForm) ToVenue() *models.Venue {
	v := &models.Venue{}
	f.ApplyTo(v)
	return v
}

// ApplyTo overwrites the form-backed fields of v. ID and shows are untouched.
func (f VenueForm) ApplyTo(v *models.Venue) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.ImageLink = f.ImageLink
	v.Genres = models.Genres(append([]string(nil), f.Genres...))
	v.FacebookLink = f.FacebookLink
	v.Website = f.WebsiteLink
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}

func VenueFormFrom(v *models.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             []string(v.Genres),
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.Website,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

func (f ArtistForm) ToArtist() *models.Artist {
	a := &models.Artist{}
	f.ApplyTo(a)
	return a
}

func (f ArtistForm) ApplyTo(a *models.Artist) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.ImageLink = f.ImageLink
	a.Genres = models.Genres(append([]string(nil), f.Genres...))
	a.FacebookLink = f.FacebookLink
	a.Website = f.WebsiteLink
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}

func ArtistFormFrom(a *models.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             []string(a.Genres),
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.Website,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

// NewShowForm pre-fills start_time with now.
func NewShowForm(now time.Time) ShowForm {
	return ShowForm{StartTime: now.UTC().Format("2006-01-02 15:04:05")}
}

// ToShow converts a validated form. Call Validate first.
func (f ShowForm) ToShow() (*models.Show, error) {
	artistID, err := strconv.ParseInt(f.ArtistID, 10, 64)
	if err != nil {
		return nil, err
	}
	venueID, err := strconv.ParseInt(f.VenueID, 10, 64)
	if err != nil {
		return nil, err
	}
	start, err := ParseStartTime(f.StartTime)
	if err != nil {
		return nil, err
	}
	return &models.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}

func field(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

func multi(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// checked reads a checkbox: present and not an explicit false value.
func checked(values url.Values, key string) bool {
	if _, ok := values[key]; !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(values.Get(key))) {
	case "", "false", "n", "0":
		return false
	}
	return true
}
