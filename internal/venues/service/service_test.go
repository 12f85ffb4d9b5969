package venues_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
	venues "ms-listing/internal/venues/service"
)

// MockVenueDBLayer is a mock implementation of the VenueDBLayer interface
type MockVenueDBLayer struct {
	mock.Mock
}

func (m *MockVenueDBLayer) ListVenues(ctx context.Context) ([]models.VenueSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VenueSummary), args.Error(1)
}

func (m *MockVenueDBLayer) SearchVenues(ctx context.Context, term string) ([]models.VenueSummary, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VenueSummary), args.Error(1)
}

func (m *MockVenueDBLayer) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueDBLayer) CreateVenue(ctx context.Context, venue *models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockVenueDBLayer) UpdateVenue(ctx context.Context, id int64, apply func(*models.Venue)) (*models.Venue, error) {
	args := m.Called(ctx, id, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	venue := args.Get(0).(*models.Venue)
	apply(venue)
	return venue, args.Error(1)
}

func (m *MockVenueDBLayer) DeleteVenue(ctx context.Context, id int64) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

type MockShowLookup struct {
	mock.Mock
}

func (m *MockShowLookup) VenueShows(ctx context.Context, venueID int64, now time.Time) ([]models.ArtistShow, []models.ArtistShow, error) {
	args := m.Called(ctx, venueID, now)
	past, _ := args.Get(0).([]models.ArtistShow)
	upcoming, _ := args.Get(1).([]models.ArtistShow)
	return past, upcoming, args.Error(2)
}

func (m *MockShowLookup) UpcomingCountsByVenue(ctx context.Context, now time.Time) (map[int64]int, error) {
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

func newService() (*venues.VenueService, *MockVenueDBLayer, *MockShowLookup, *MockPublisher) {
	mockDB := new(MockVenueDBLayer)
	shows := new(MockShowLookup)
	pub := new(MockPublisher)
	svc := venues.NewVenueService(mockDB, shows, pub, "listing.venues", logger.Discard())
	svc.Now = func() time.Time { return fixedNow }
	return svc, mockDB, shows, pub
}

func TestGroupAreasMergesDuplicates(t *testing.T) {
	areas := venues.GroupAreas([]models.VenueSummary{
		{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"},
		{ID: 2, Name: "The Dueling Pianos Bar", City: "New York", State: "NY"},
		{ID: 3, Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA"},
		{ID: 4, Name: "Portland Hall", City: "Portland", State: "ME"},
		{ID: 5, Name: "Portland Arena", City: "Portland", State: "OR"},
	})

	require.Len(t, areas, 4)
	assert.Equal(t, "San Francisco", areas[0].City)
	assert.Equal(t, []int64{1, 3}, []int64{areas[0].Venues[0].ID, areas[0].Venues[1].ID})
	assert.Equal(t, "New York", areas[1].City)
	assert.Equal(t, "ME", areas[2].State)
	assert.Equal(t, "OR", areas[3].State)
	assert.Empty(t, venues.GroupAreas(nil))
}

func TestListAreasAddsUpcomingCounts(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	mockDB.On("ListVenues", ctx).Return([]models.VenueSummary{
		{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"},
		{ID: 3, Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA"},
	}, nil)
	shows.On("UpcomingCountsByVenue", ctx, fixedNow).Return(map[int64]int{3: 2}, nil)

	areas, err := svc.ListAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, 0, areas[0].Venues[0].NumUpcomingShows)
	assert.Equal(t, 2, areas[0].Venues[1].NumUpcomingShows)
}

func TestSearch(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	mockDB.On("SearchVenues", ctx, "Music").Return([]models.VenueSummary{
		{ID: 1, Name: "The Musical Hop"},
		{ID: 3, Name: "Park Square Live Music & Coffee"},
	}, nil)
	mockDB.On("SearchVenues", ctx, "zzz").Return([]models.VenueSummary{}, nil)
	shows.On("UpcomingCountsByVenue", ctx, fixedNow).Return(map[int64]int{1: 1}, nil)

	result, err := svc.Search(ctx, "Music")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.Data[0].NumUpcomingShows)

	result, err = svc.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	shows.AssertNumberOfCalls(t, "UpcomingCountsByVenue", 1)
}

func TestGetVenueDetail(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	venue := &models.Venue{ID: 1, Name: "The Musical Hop", Genres: models.Genres{"Jazz", "Reggae"}}
	past := []models.ArtistShow{{ArtistID: 4, ArtistName: "Guns N Petals", StartTime: fixedNow.Add(-time.Hour)}}
	mockDB.On("GetVenue", ctx, int64(1)).Return(venue, nil)
	shows.On("VenueShows", ctx, int64(1), fixedNow).Return(past, []models.ArtistShow(nil), nil)

	detail, err := svc.GetVenueDetail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Musical Hop", detail.Name)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 0, detail.UpcomingShowsCount)
	assert.Equal(t, len(detail.PastShows), detail.PastShowsCount)
}

func TestGetVenueDetailNotFound(t *testing.T) {
	svc, mockDB, shows, _ := newService()
	ctx := context.Background()

	mockDB.On("GetVenue", ctx, int64(9)).Return(nil, models.ErrVenueNotFound)

	_, err := svc.GetVenueDetail(ctx, 9)
	assert.True(t, errors.Is(err, venues.ErrVenueNotFound))
	shows.AssertNotCalled(t, "VenueShows", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateVenuePublishes(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	venue := &models.Venue{Name: "The Musical Hop"}
	mockDB.On("CreateVenue", ctx, venue).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Venue).ID = 11
	}).Return(nil)
	pub.On("PublishEvent", "listing.venues", mock.MatchedBy(func(ev kafka.Event) bool {
		return ev.Type == "listing.venue.created" && ev.EntityID == 11
	})).Return(nil)

	require.NoError(t, svc.CreateVenue(ctx, venue))
	pub.AssertExpectations(t)
}

func TestCreateVenueFailureDoesNotPublish(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	mockDB.On("CreateVenue", ctx, mock.Anything).Return(errors.New("constraint failed"))

	err := svc.CreateVenue(ctx, &models.Venue{Name: "Broken"})
	assert.ErrorContains(t, err, "constraint failed")
	pub.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
}

func TestUpdateVenue(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	mockDB.On("UpdateVenue", ctx, int64(1), mock.Anything).Return(&models.Venue{ID: 1, Name: "Old"}, nil)
	pub.On("PublishEvent", "listing.venues", mock.MatchedBy(func(ev kafka.Event) bool {
		return ev.Type == "listing.venue.updated" && ev.Name == "New"
	})).Return(nil)

	venue, err := svc.UpdateVenue(ctx, 1, func(v *models.Venue) { v.Name = "New" })
	require.NoError(t, err)
	assert.Equal(t, "New", venue.Name)
	pub.AssertExpectations(t)
}

func TestDeleteVenue(t *testing.T) {
	svc, mockDB, _, pub := newService()
	ctx := context.Background()

	mockDB.On("DeleteVenue", ctx, int64(1)).Return(&models.Venue{ID: 1, Name: "The Musical Hop"}, nil)
	mockDB.On("DeleteVenue", ctx, int64(2)).Return(nil, models.ErrVenueNotFound)
	pub.On("PublishEvent", "listing.venues", mock.MatchedBy(func(ev kafka.Event) bool {
		return ev.Type == "listing.venue.deleted"
	})).Return(nil).Once()

	venue, err := svc.DeleteVenue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Musical Hop", venue.Name)

	_, err = svc.DeleteVenue(ctx, 2)
	assert.True(t, errors.Is(err, venues.ErrVenueNotFound))
	pub.AssertExpectations(t)
}
