package db

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-listing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ListShows returns every show joined with its artist and venue, ordered by id.
func (d *DB) ListShows(ctx context.Context) ([]models.ShowListing, error) {
	var rows []models.ShowListing
	err := d.Bun.NewSelect().
		TableExpr("shows AS s").
		ColumnExpr("s.id, s.venue_id, v.name AS venue_name").
		ColumnExpr("s.artist_id, a.name AS artist_name, a.image_link AS artist_image_link, s.start_time").
		Join("JOIN venues AS v ON v.id = s.venue_id").
		Join("JOIN artists AS a ON a.id = s.artist_id").
		OrderExpr("s.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateShow inserts a show after checking both parents exist in the same
// transaction, so dialects without enforced foreign keys behave the same.
func (d *DB) CreateShow(ctx context.Context, show *models.Show) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		artistExists, err := tx.NewSelect().Model((*models.Artist)(nil)).Where("id = ?", show.ArtistID).Exists(ctx)
		if err != nil {
			return err
		}
		venueExists, err := tx.NewSelect().Model((*models.Venue)(nil)).Where("id = ?", show.VenueID).Exists(ctx)
		if err != nil {
			return err
		}
		if !artistExists || !venueExists {
			return fmt.Errorf("artist %d, venue %d: %w", show.ArtistID, show.VenueID, models.ErrInvalidReference)
		}

		show.StartTime = show.StartTime.UTC()
		_, err = tx.NewInsert().Model(show).Exec(ctx)
		return err
	})
}

// VenueShows splits the shows at a venue into past (start_time < now) and
// upcoming (start_time >= now), each ordered by start_time.
func (d *DB) VenueShows(ctx context.Context, venueID int64, now time.Time) ([]models.ArtistShow, []models.ArtistShow, error) {
	query := func(op string) ([]models.ArtistShow, error) {
		var rows []models.ArtistShow
		err := d.Bun.NewSelect().
			TableExpr("shows AS s").
			ColumnExpr("a.id AS artist_id, a.name AS artist_name, a.image_link AS artist_image_link, s.start_time").
			Join("JOIN artists AS a ON a.id = s.artist_id").
			Where("s.venue_id = ?", venueID).
			Where("s.start_time "+op+" ?", now.UTC()).
			OrderExpr("s.start_time ASC, s.id ASC").
			Scan(ctx, &rows)
		return rows, err
	}

	past, err := query("<")
	if err != nil {
		return nil, nil, err
	}
	upcoming, err := query(">=")
	if err != nil {
		return nil, nil, err
	}
	return past, upcoming, nil
}

// ArtistShows is VenueShows from the artist side.
func (d *DB) ArtistShows(ctx context.Context, artistID int64, now time.Time) ([]models.VenueShow, []models.VenueShow, error) {
	query := func(op string) ([]models.VenueShow, error) {
		var rows []models.VenueShow
		err := d.Bun.NewSelect().
			TableExpr("shows AS s").
			ColumnExpr("v.id AS venue_id, v.name AS venue_name, v.image_link AS venue_image_link, s.start_time").
			Join("JOIN venues AS v ON v.id = s.venue_id").
			Where("s.artist_id = ?", artistID).
			Where("s.start_time "+op+" ?", now.UTC()).
			OrderExpr("s.start_time ASC, s.id ASC").
			Scan(ctx, &rows)
		return rows, err
	}

	past, err := query("<")
	if err != nil {
		return nil, nil, err
	}
	upcoming, err := query(">=")
	if err != nil {
		return nil, nil, err
	}
	return past, upcoming, nil
}

type upcomingCount struct {
	OwnerID int64 `bun:"owner_id"`
	Count   int   `bun:"num"`
}

// UpcomingCountsByVenue maps venue id to the number of shows starting at or after now.
func (d *DB) UpcomingCountsByVenue(ctx context.Context, now time.Time) (map[int64]int, error) {
	return d.upcomingCounts(ctx, "venue_id", now)
}

func (d *DB) UpcomingCountsByArtist(ctx context.Context, now time.Time) (map[int64]int, error) {
	return d.upcomingCounts(ctx, "artist_id", now)
}

func (d *DB) upcomingCounts(ctx context.Context, column string, now time.Time) (map[int64]int, error) {
	var rows []upcomingCount
	err := d.Bun.NewSelect().
		Model((*models.Show)(nil)).
		ColumnExpr("? AS owner_id", bun.Ident(column)).
		ColumnExpr("COUNT(*) AS num").
		Where("start_time >= ?", now.UTC()).
		GroupExpr("?", bun.Ident(column)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.OwnerID] = r.Count
	}
	return counts, nil
}
