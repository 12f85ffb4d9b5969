package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-listing/internal/database"
	"ms-listing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListArtists(ctx context.Context) ([]models.ArtistSummary, error) {
	var artists []models.ArtistSummary
	err := d.Bun.NewSelect().
		Model((*models.Artist)(nil)).
		Column("id", "name", "city", "state").
		Order("id ASC").
		Scan(ctx, &artists)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) SearchArtists(ctx context.Context, term string) ([]models.ArtistSummary, error) {
	pattern := database.ContainsPattern(term)
	like := "LIKE ? " + database.LikeEscape

	var artists []models.ArtistSummary
	err := d.Bun.NewSelect().
		Model((*models.Artist)(nil)).
		Column("id", "name", "city", "state").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(name) "+like, pattern).
				WhereOr("LOWER(city) "+like, pattern).
				WhereOr("LOWER(state) "+like, pattern)
		}).
		Order("id ASC").
		Scan(ctx, &artists)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	return getArtist(ctx, d.Bun, id)
}

func getArtist(ctx context.Context, idb bun.IDB, id int64) (*models.Artist, error) {
	artist := new(models.Artist)
	if err := idb.NewSelect().Model(artist).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("artist %d: %w", id, models.ErrArtistNotFound)
		}
		return nil, err
	}
	return artist, nil
}

func (d *DB) CreateArtist(ctx context.Context, artist *models.Artist) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(artist).Exec(ctx)
		return err
	})
}

var editableColumns = []string{
	"name", "city", "state", "phone", "genres", "image_link",
	"facebook_link", "website", "seeking_venue", "seeking_description",
}

// UpdateArtist overwrites the form-backed columns of an existing artist.
func (d *DB) UpdateArtist(ctx context.Context, id int64, apply func(*models.Artist)) (*models.Artist, error) {
	var updated *models.Artist
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		artist, err := getArtist(ctx, tx, id)
		if err != nil {
			return err
		}
		apply(artist)
		artist.ID = id

		_, err = tx.NewUpdate().Model(artist).Column(editableColumns...).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		updated = artist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
