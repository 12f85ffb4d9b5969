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

func (d *DB) ListVenues(ctx context.Context) ([]models.VenueSummary, error) {
	var venues []models.VenueSummary
	err := d.Bun.NewSelect().
		Model((*models.Venue)(nil)).
		Column("id", "name", "city", "state").
		Order("id ASC").
		Scan(ctx, &venues)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// SearchVenues matches term case-insensitively against name, city and state.
func (d *DB) SearchVenues(ctx context.Context, term string) ([]models.VenueSummary, error) {
	pattern := database.ContainsPattern(term)
	like := "LIKE ? " + database.LikeEscape

	var venues []models.VenueSummary
	err := d.Bun.NewSelect().
		Model((*models.Venue)(nil)).
		Column("id", "name", "city", "state").
		Where("(LOWER(name) "+like+" OR LOWER(city) "+like+" OR LOWER(state) "+like+")", pattern, pattern, pattern).
		Order("id ASC").
		Scan(ctx, &venues)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	return getVenue(ctx, d.Bun, id)
}

func getVenue(ctx context.Context, idb bun.IDB, id int64) (*models.Venue, error) {
	var venue models.Venue
	err := idb.NewSelect().
		Model(&venue).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %d: %w", id, models.ErrVenueNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(venue).Exec(ctx)
		return err
	})
}

// editableColumns are the columns backed by the venue form.
var editableColumns = []string{
	"name", "city", "state", "address", "phone", "genres", "image_link",
	"facebook_link", "website", "seeking_talent", "seeking_description",
}

// UpdateVenue reloads the venue inside a transaction, lets apply overwrite
// the form-backed fields and writes exactly those columns back.
func (d *DB) UpdateVenue(ctx context.Context, id int64, apply func(*models.Venue)) (*models.Venue, error) {
	var updated *models.Venue
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		venue, err := getVenue(ctx, tx, id)
		if err != nil {
			return err
		}
		apply(venue)
		venue.ID = id

		if _, err := tx.NewUpdate().Model(venue).Column(editableColumns...).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated = venue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVenue removes the venue and its shows in one transaction and returns
// the deleted row.
func (d *DB) DeleteVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var deleted *models.Venue
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		venue, err := getVenue(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Show)(nil)).Where("venue_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(venue).WherePK().Exec(ctx); err != nil {
			return err
		}
		deleted = venue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
