package artists

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

var ErrArtistNotFound = models.ErrArtistNotFound

type ArtistDBLayer interface {
	ListArtists(ctx context.Context) ([]models.ArtistSummary, error)
	SearchArtists(ctx context.Context, term string) ([]models.ArtistSummary, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	CreateArtist(ctx context.Context, artist *models.Artist) error
	UpdateArtist(ctx context.Context, id int64, apply func(*models.Artist)) (*models.Artist, error)
}

type ShowLookup interface {
	ArtistShows(ctx context.Context, artistID int64, now time.Time) ([]models.VenueShow, []models.VenueShow, error)
	UpcomingCountsByArtist(ctx context.Context, now time.Time) (map[int64]int, error)
}

type ArtistService struct {
	DB     ArtistDBLayer
	Shows  ShowLookup
	Events kafka.Publisher
	Topic  string
	Logger *logger.Logger
	Now    func() time.Time
}

func NewArtistService(db ArtistDBLayer, shows ShowLookup, events kafka.Publisher, topic string, log *logger.Logger) *ArtistService {
	return &ArtistService{DB: db, Shows: shows, Events: events, Topic: topic, Logger: log, Now: time.Now}
}

func (s *ArtistService) ListArtists(ctx context.Context) ([]models.ArtistSummary, error) {
	artists, err := s.DB.ListArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

func (s *ArtistService) Search(ctx context.Context, term string) (models.SearchResult[models.ArtistSummary], error) {
	var result models.SearchResult[models.ArtistSummary]

	artists, err := s.DB.SearchArtists(ctx, term)
	if err != nil {
		return result, fmt.Errorf("search artists: %w", err)
	}
	if len(artists) > 0 {
		counts, err := s.Shows.UpcomingCountsByArtist(ctx, s.Now())
		if err != nil {
			return result, fmt.Errorf("count upcoming shows: %w", err)
		}
		for i := range artists {
			artists[i].NumUpcomingShows = counts[artists[i].ID]
		}
	}

	result.Count = len(artists)
	result.Data = artists
	return result, nil
}

func (s *ArtistService) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	artist, err := s.DB.GetArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

func (s *ArtistService) GetArtistDetail(ctx context.Context, id int64) (*models.ArtistDetail, error) {
	artist, err := s.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	past, upcoming, err := s.Shows.ArtistShows(ctx, id, s.Now())
	if err != nil {
		return nil, fmt.Errorf("artist %d shows: %w", id, err)
	}

	return &models.ArtistDetail{
		Artist:             *artist,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *ArtistService) CreateArtist(ctx context.Context, artist *models.Artist) error {
	if err := s.DB.CreateArtist(ctx, artist); err != nil {
		return fmt.Errorf("create artist %q: %w", artist.Name, err)
	}
	s.Logger.LogListing("CREATE", "artist", strconv.FormatInt(artist.ID, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("artist", kafka.ActionCreated, artist.ID, artist.Name))
	return nil
}

func (s *ArtistService) UpdateArtist(ctx context.Context, id int64, apply func(*models.Artist)) (*models.Artist, error) {
	artist, err := s.DB.UpdateArtist(ctx, id, apply)
	if err != nil {
		return nil, fmt.Errorf("update artist %d: %w", id, err)
	}
	s.Logger.LogListing("UPDATE", "artist", strconv.FormatInt(id, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("artist", kafka.ActionUpdated, id, artist.Name))
	return artist, nil
}
