package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-listing/internal/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishEventKeysByEntity(t *testing.T) {
	w := new(mockWriter)
	p := &Producer{Writer: w, Logger: logger.Discard()}

	w.On("WriteMessages", mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != "listing.venues" || string(msgs[0].Key) != "12" {
			return false
		}
		var ev Event
		if err := json.Unmarshal(msgs[0].Value, &ev); err != nil {
			return false
		}
		return ev.Type == "listing.venue.created" && ev.Name == "The Musical Hop"
	})).Return(nil)

	err := p.PublishEvent(context.Background(), "listing.venues", NewEvent("venue", ActionCreated, 12, "The Musical Hop"))
	require.NoError(t, err)
	w.AssertExpectations(t)
}

func TestPublishEventWrapsWriterError(t *testing.T) {
	w := new(mockWriter)
	p := &Producer{Writer: w, Logger: logger.Discard()}
	boom := errors.New("broker down")
	w.On("WriteMessages", mock.Anything).Return(boom)

	err := p.PublishEvent(context.Background(), "listing.shows", NewEvent("show", ActionCreated, 1, ""))
	assert.ErrorIs(t, err, boom)
}

type failingPublisher struct{}

func (failingPublisher) PublishEvent(context.Context, string, Event) error {
	return errors.New("unreachable")
}

func TestNotifyLogsAndSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "INFO")

	Notify(context.Background(), failingPublisher{}, log, "listing.artists", NewEvent("artist", ActionUpdated, 3, "Matt Quevado"))
	assert.Contains(t, buf.String(), "Failed to publish listing.artist.updated")

	Notify(context.Background(), NoopPublisher{}, log, "listing.artists", NewEvent("artist", ActionUpdated, 3, ""))
	Notify(context.Background(), nil, log, "listing.artists", NewEvent("artist", ActionUpdated, 3, ""))
}
