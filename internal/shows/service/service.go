package shows

import (
	"context"
	"fmt"
	"strconv"

	"ms-listing/internal/kafka"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

var ErrInvalidReference = models.ErrInvalidReference

type ShowDBLayer interface {
	ListShows(ctx context.Context) ([]models.ShowListing, error)
	CreateShow(ctx context.Context, show *models.Show) error
}

type ShowService struct {
	DB     ShowDBLayer
	Events kafka.Publisher
	Topic  string
	Logger *logger.Logger
}

func NewShowService(db ShowDBLayer, events kafka.Publisher, topic string, log *logger.Logger) *ShowService {
	return &ShowService{DB: db, Events: events, Topic: topic, Logger: log}
}

func (s *ShowService) ListShows(ctx context.Context) ([]models.ShowListing, error) {
	rows, err := s.DB.ListShows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return rows, nil
}

func (s *ShowService) CreateShow(ctx context.Context, show *models.Show) error {
	if err := s.DB.CreateShow(ctx, show); err != nil {
		return fmt.Errorf("create show: %w", err)
	}

	s.Logger.LogListing("CREATE", "show", strconv.FormatInt(show.ID, 10))
	kafka.Notify(ctx, s.Events, s.Logger, s.Topic, kafka.NewEvent("show", kafka.ActionCreated, show.ID, ""))
	return nil
}
