package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-listing/internal/models"
)

func validVenueValues() url.Values {
	return url.Values{
		"name":                {"The Musical Hop"},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Reggae", "Swing"},
		"image_link":          {"https://images.example.com/hop.jpg"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"website_link":        {"https://www.themusicalhop.com"},
		"seeking_talent":      {"y"},
		"seeking_description": {"We are on the lookout for a local artist."},
	}
}

func TestVenueFormValid(t *testing.T) {
	values := validVenueValues()
	values["genres"] = []string{"Jazz", "Reggae", "Classical"}

	form := ParseVenueForm(values)
	assert.Empty(t, form.Validate())
	assert.True(t, form.SeekingTalent)

	v := form.ToVenue()
	assert.Equal(t, models.Genres{"Jazz", "Reggae", "Classical"}, v.Genres)
	assert.Equal(t, "https://www.themusicalhop.com", v.Website)
}

func TestVenueFormErrors(t *testing.T) {
	values := validVenueValues()
	values.Del("name")
	values.Set("state", "ZZ")
	values.Set("website_link", "not a url")
	values["genres"] = []string{"Jazz", "Polka"}

	errs := ParseVenueForm(values).Validate()

	assert.Equal(t, "This field is required.", errs["name"])
	assert.Equal(t, "Not a valid choice.", errs["state"])
	assert.Equal(t, "Invalid URL.", errs["website_link"])
	assert.Equal(t, "Not a valid choice.", errs["genres"])
	assert.False(t, errs.Has("city"))
}

func TestGenresRequired(t *testing.T) {
	values := validVenueValues()
	values.Del("genres")
	errs := ParseVenueForm(values).Validate()
	assert.True(t, errs.Has("genres"))
}

func TestCheckbox(t *testing.T) {
	cases := map[string]bool{"y": true, "on": true, "true": true, "false": false, "n": false, "0": false, "": false}
	for raw, want := range cases {
		assert.Equal(t, want, checked(url.Values{"seeking_venue": {raw}}, "seeking_venue"), raw)
	}
	assert.False(t, checked(url.Values{}, "seeking_venue"))
}

func TestApplyToLeavesIDAndShows(t *testing.T) {
	venue := &models.Venue{ID: 7, Name: "Old", Shows: []*models.Show{{ID: 1}}}
	ParseVenueForm(validVenueValues()).ApplyTo(venue)

	assert.Equal(t, int64(7), venue.ID)
	assert.Len(t, venue.Shows, 1)
	assert.Equal(t, "The Musical Hop", venue.Name)
}

func TestVenueFormFromRoundTrip(t *testing.T) {
	form := ParseVenueForm(validVenueValues())
	back := VenueFormFrom(form.ToVenue())
	assert.Equal(t, form, back)
}

func TestArtistForm(t *testing.T) {
	values := url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"phone":         {"326-123-5000"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"y"},
	}
	form := ParseArtistForm(values)
	require.Empty(t, form.Validate())

	artist := form.ToArtist()
	assert.True(t, artist.SeekingVenue)
	assert.Equal(t, ArtistFormFrom(artist), form)

	values.Set("phone", "call me")
	assert.Equal(t, "Invalid phone number.", ParseArtistForm(values).Validate()["phone"])
}

func TestShowForm(t *testing.T) {
	form := ParseShowForm(url.Values{"artist_id": {"4"}, "venue_id": {"1"}, "start_time": {"2019-05-21T21:30:00Z"}})
	require.Empty(t, form.Validate())

	show, err := form.ToShow()
	require.NoError(t, err)
	assert.Equal(t, int64(4), show.ArtistID)
	assert.Equal(t, int64(1), show.VenueID)
	assert.Equal(t, time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC), show.StartTime)

	errs := ParseShowForm(url.Values{"artist_id": {"-1"}, "venue_id": {"x"}, "start_time": {"tomorrow"}}).Validate()
	assert.Equal(t, "Must be a positive whole number.", errs["artist_id"])
	assert.True(t, errs.Has("venue_id"))
	assert.Equal(t, "Not a valid datetime value.", errs["start_time"])
}

func TestParseStartTimeLayouts(t *testing.T) {
	want := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2035-04-01 20:00:00", "2035-04-01T20:00", "2035-04-01T20:00:00", "2035-04-01T22:00:00+02:00"} {
		got, err := ParseStartTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}
}

func TestNewShowFormDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2026-01-02 03:04:05", NewShowForm(now).StartTime)
}
