package artists_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	artists "ms-listing/internal/artists/service"
	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

type MockArtistDBLayer struct {
	mock.Mock
}

func (m *MockArtistDBLayer) ListArtists(ctx context.Context) ([]models.ArtistSummary, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.ArtistSummary)
	return rows, args.Error(1)
}

func (m *MockArtistDBLayer) SearchArtists(ctx context.Context, term string) ([]models.ArtistSummary, error) {
	args := m.Called(ctx, term)
	rows, _ := args.Get(0).([]models.ArtistSummary)
	return rows, args.Error(1)
}

func (m *MockArtistDBLayer) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	args := m.Called(ctx, id)
	artist, _ := args.Get(0).(*models.Artist)
	return artist, args.Error(1)
}

func (m *MockArtistDBLayer) CreateArtist(ctx context.Context, artist *models.Artist) error {
	return m.Called(ctx, artist).Error(0)
}

func (m *MockArtistDBLayer) UpdateArtist(ctx context.Context, id int64, apply func(*models.Artist)) (*models.Artist, error) {
	args := m.Called(ctx, id, apply)
	artist, _ := args.Get(0).(*models.Artist)
	if artist != nil {
		apply(artist)
	}
	return artist, args.Error(1)
}

type MockShowLookup struct {
	mock.Mock
}

func (m *MockShowLookup) ArtistShows(ctx context.Context, artistID int64, now time.Time) ([]models.VenueShow, []models.VenueShow, error) {
	args := m.Called(ctx, artistID, now)
	past, _ := args.Get(0).([]models.VenueShow)
	upcoming, _ := args.Get(1).([]models.VenueShow)
	return past, upcoming, args.Error(2)
}

func (m *MockShowLookup) UpcomingCountsByArtist(ctx context.Context, now time.Time) (map[int64]int, error) {
	args := m.Called(ctx, now)
	counts, _ := args.Get(0).(map[int64]int)
	return counts, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.Event) error {
	return m.Called(topic, event).Error(0)
}

var fixedNow = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

func newService() (*artists.ArtistService, *MockArtistDBLayer, *MockShowLookup, *MockPublisher) {
	mockDB := new(MockArtistDBLayer)
	shows := new(MockShowLookup)
	pub := new(MockPublisher)
	svc := artists.NewArtistService(mockDB, shows, pub, "listing.artists", logger.Discard())
	svc.Now = func() time.Time { return fixedNow }
	return svc, mockDB, shows, pub
}

func TestSearchCountsUpcomingShows(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	mockDB.On("SearchArtists", ctx, "a").Return([]models.ArtistSummary{
		{ID: 4, Name: "Guns N Petals"},
		{ID: 6, Name: "The Wild Sax Band"},
	}, nil)
	shows.On("UpcomingCountsByArtist", ctx, fixedNow).Return(map[int64]int{6: 3}, nil)

	result, err := svc.Search(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 0, result.Data[0].NumUpcomingShows)
	assert.Equal(t, 3, result.Data[1].NumUpcomingShows)
}

func TestSearchPropagatesErrors(t *testing.T) {
	svc, mockDB, _, _ := newService()
	ctx := context.Background()

	mockDB.On("SearchArtists", ctx, "x").Return(nil, errors.New("db down"))

	_, err := svc.Search(ctx, "x")
	assert.ErrorContains(t, err, "db down")
}

func TestGetArtistDetail(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	mockDB.On("GetArtist", ctx, int64(4)).Return(&models.Artist{ID: 4, Name: "Guns N Petals"}, nil)
	shows.On("ArtistShows", ctx, int64(4), fixedNow).Return(
		[]models.VenueShow{{VenueID: 1, VenueName: "The Musical Hop"}},
		[]models.VenueShow{{VenueID: 3}, {VenueID: 3}},
		nil,
	)

	detail, err := svc.GetArtistDetail(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 2, detail.UpcomingShowsCount)
	assert.Equal(t, "Guns N Petals", detail.Name)
}

func TestGetArtistDetailNotFound(t *testing.T) {
	svc, mockDB, _, _ := newService()
	ctx := context.Background()

	mockDB.On("GetArtist", ctx, int64(7)).Return(nil, models.ErrArtistNotFound)

	_, err := svc.GetArtistDetail(ctx, 7)
	assert.True(t, errors.Is(err, artists.ErrArtistNotFound))
}

func TestCreateArtistPublishesEvent(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	artist := &models.Artist{Name: "Matt Quevado"}
	mockDB.On("CreateArtist", ctx, artist).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Artist).ID = 5
	}).Return(nil)
	pub.On("PublishEvent", "listing.artists", mock.MatchedBy(func(ev kafka.Event) bool {
		return ev.Type == "listing.artist.created" && ev.EntityID == 5 && ev.Name == "Matt Quevado"
	})).Return(nil)

	require.NoError(t, svc.CreateArtist(ctx, artist))
	pub.AssertExpectations(t)
}

func TestPublishFailureDoesNotFailUpdate(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	mockDB.On("UpdateArtist", ctx, int64(5), mock.Anything).Return(&models.Artist{ID: 5, Name: "Matt Quevado"}, nil)
	pub.On("PublishEvent", "listing.artists", mock.Anything).Return(errors.New("broker unavailable"))

	artist, err := svc.UpdateArtist(ctx, 5, func(a *models.Artist) { a.City = "Brooklyn" })
	require.NoError(t, err)
	assert.Equal(t, "Brooklyn", artist.City)
}
