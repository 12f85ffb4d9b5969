package venues

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

var ErrVenueNotFound = models.ErrVenueNotFound

type VenueDBLayer interface {
	ListVenues(ctx context.Context) ([]models.VenueSummary, error)
	SearchVenues(ctx context.Context, term string) ([]models.VenueSummary, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, id int64, apply func(*models.Venue)) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) (*models.Venue, error)
}

// ShowLookup is the part of the show store a venue page needs.
type ShowLookup interface {
	VenueShows(ctx context.Context, venueID int64, now time.Time) ([]models.ArtistShow, []models.ArtistShow, error)
	UpcomingCountsByVenue(ctx context.Context, now time.Time) (map[int64]int, error)
}

type VenueService struct {
	DB     VenueDBLayer
	Shows  ShowLookup
	Events kafka.Publisher
	Topic  string
	Logger *logger.Logger
	Now    func() time.Time
}

func NewVenueService(db VenueDBLayer, shows ShowLookup, events kafka.Publisher, topic string, log *logger.Logger) *VenueService {
	return &VenueService{
		DB:     db,
		Shows:  shows,
		Events: events,
		Topic:  topic,
		Logger: log,
		Now:    time.Now,
	}
}

// ListAreas groups all venues by city and state.
func (s *VenueService) ListAreas(ctx context.Context) ([]models.Area, error) {
	venues, err := s.DB.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	if err := s.withUpcomingCounts(ctx, venues); err != nil {
		return nil, err
	}
	return GroupAreas(venues), nil
}

// GroupAreas merges venues sharing a (city, state) pair, keeping areas and
// the venues inside them in first-seen order.
func GroupAreas(venues []models.VenueSummary) []models.Area {
	type areaKey struct{ city, state string }

	var areas []models.Area
	index := make(map[areaKey]int)
	for _, v := range venues {
		key := areaKey{v.City, v.State}
		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, models.Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, v)
	}
	return areas
}

func (s *VenueService) Search(ctx context.Context, term string) (models.SearchResult[models.VenueSummary], error) {
	venues, err := s.DB.SearchVenues(ctx, term)
	if err != nil {
		return models.SearchResult[models.VenueSummary]{}, fmt.Errorf("search venues: %w", err)
	}
	if err := s.withUpcomingCounts(ctx, venues); err != nil {
		return models.SearchResult[models.VenueSummary]{}, err
	}
	return models.SearchResult[models.VenueSummary]{Count: len(venues), Data: venues}, nil
}

func (s *VenueService) withUpcomingCounts(ctx context.Context, venues []models.VenueSummary) error {
	if len(venues) == 0 {
		return nil
	}
	counts, err := s.Shows.UpcomingCountsByVenue(ctx, s.Now())
	if err != nil {
		return fmt.Errorf("count upcoming shows: %w", err)
	}
	for i := range venues {
		venues[i].NumUpcomingShows = counts[venues[i].ID]
	}
	return nil
}

func (s *VenueService) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	venue, err := s.DB.GetVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

// GetVenueDetail loads the venue with its shows split into past and upcoming.
func (s *VenueService) GetVenueDetail(ctx context.Context, id int64) (*models.VenueDetail, error) {
	venue, err := s.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}

	past, upcoming, err := s.Shows.VenueShows(ctx, id, s.Now())
	if err != nil {
		return nil, fmt.Errorf("venue %d shows: %w", id, err)
	}

	return &models.VenueDetail{
		Venue:              *venue,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *VenueService) CreateVenue(ctx context.Context, venue *models.Venue) error {
	if err := s.DB.CreateVenue(ctx, venue); err != nil {
		return fmt.Errorf("create venue %q: %w", venue.Name, err)
	}
	s.Logger.LogListing("CREATE", "venue", strconv.FormatInt(venue.ID, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("venue", kafka.ActionCreated, venue.ID, venue.Name))
	return nil
}

func (s *VenueService) UpdateVenue(ctx context.Context, id int64, apply func(*models.Venue)) (*models.Venue, error) {
	venue, err := s.DB.UpdateVenue(ctx, id, apply)
	if err != nil {
		return nil, fmt.Errorf("update venue %d: %w", id, err)
	}
	s.Logger.LogListing("UPDATE", "venue", strconv.FormatInt(id, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("venue", kafka.ActionUpdated, id, venue.Name))
	return venue, nil
}

func (s *VenueService) DeleteVenue(ctx context.Context, id int64) (*models.Venue, error) {
	venue, err := s.DB.DeleteVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete venue %d: %w", id, err)
	}
	s.Logger.LogListing("DELETE", "venue", strconv.FormatInt(id, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("venue", kafka.ActionDeleted, id, venue.Name))
	return venue, nil
}
