// Command seed resets the postgres listing schema and loads sample venues,
// artists and shows.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-listing/internal/config"
	"ms-listing/internal/database"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stdout, cfg.Log.Level)
	ctx := context.Background()

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.PostgresDSN))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to database: %v", err))
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	log.Info("SEED", "Dropping tables...")
	if err := database.DropSchema(ctx, db); err != nil {
		log.Fatal("SEED", err.Error())
	}

	log.Info("SEED", "Creating tables...")
	if err := database.CreateSchema(ctx, db); err != nil {
		log.Fatal("SEED", err.Error())
	}

	log.Info("SEED", "Seeding sample data...")
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return seedData(ctx, tx, time.Now().UTC())
	}); err != nil {
		log.Fatal("SEED", fmt.Sprintf("Seeding failed: %v", err))
	}

	log.Info("SEED", "✅ Done.")
}

func seedData(ctx context.Context, tx bun.Tx, now time.Time) error {
	venues := []*models.Venue{
		{
			Name: "The Musical Hop", City: "San Francisco", State: "CA",
			Address: "1015 Folsom Street", Phone: "123-123-1234",
			Website:       "https://www.themusicalhop.com",
			FacebookLink:  "https://www.facebook.com/TheMusicalHop",
			ImageLink:     "https://images.unsplash.com/photo-1543900694-133f37abaaa5?w=400",
			Genres:        models.Genres{"Jazz", "Reggae", "Folk", "Classical"},
			SeekingTalent: true,
			SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
		},
		{
			Name: "The Dueling Pianos Bar", City: "New York", State: "NY",
			Address: "335 Delancey Street", Phone: "914-003-1132",
			Website:      "https://www.theduelingpianos.com",
			FacebookLink: "https://www.facebook.com/theduelingpianos",
			ImageLink:    "https://images.unsplash.com/photo-1497032205916-ac775f0649ae?w=750",
			Genres:       models.Genres{"Classical", "R&B", "Hip-Hop"},
		},
		{
			Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA",
			Address: "34 Whiskey Moore Ave", Phone: "415-000-1234",
			Website:      "https://www.parksquarelivemusicandcoffee.com",
			FacebookLink: "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
			ImageLink:    "https://images.unsplash.com/photo-1485686531765-ba63b07845a7?w=747",
			Genres:       models.Genres{"Rock n Roll", "Jazz", "Classical", "Folk"},
		},
	}
	if _, err := tx.NewInsert().Model(&venues).Exec(ctx); err != nil {
		return fmt.Errorf("insert venues: %w", err)
	}

	artists := []*models.Artist{
		{
			Name: "Guns N Petals", City: "San Francisco", State: "CA", Phone: "326-123-5000",
			Website:      "https://www.gunsnpetalsband.com",
			FacebookLink: "https://www.facebook.com/GunsNPetals",
			ImageLink:    "https://images.unsplash.com/photo-1549213783-8284d0336c4f?w=300",
			Genres:       models.Genres{"Rock n Roll"},
			SeekingVenue: true,
			SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
		},
		{
			Name: "Matt Quevado", City: "New York", State: "NY", Phone: "300-400-5000",
			FacebookLink: "https://www.facebook.com/mattquevedo923251523",
			ImageLink:    "https://images.unsplash.com/photo-1495223153807-b916f75de8c5?w=334",
			Genres:       models.Genres{"Jazz"},
		},
		{
			Name: "The Wild Sax Band", City: "San Francisco", State: "CA", Phone: "432-325-5432",
			ImageLink: "https://images.unsplash.com/photo-1558369981-f9ca78462e61?w=794",
			Genres:    models.Genres{"Jazz", "Classical"},
		},
	}
	if _, err := tx.NewInsert().Model(&artists).Exec(ctx); err != nil {
		return fmt.Errorf("insert artists: %w", err)
	}

	shows := []*models.Show{
		{VenueID: venues[0].ID, ArtistID: artists[0].ID, StartTime: time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)},
		{VenueID: venues[2].ID, ArtistID: artists[1].ID, StartTime: time.Date(2019, 6, 15, 23, 0, 0, 0, time.UTC)},
		{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: now.AddDate(0, 1, 0)},
		{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: now.AddDate(0, 1, 7)},
		{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: now.AddDate(0, 1, 14)},
	}
	if _, err := tx.NewInsert().Model(&shows).Exec(ctx); err != nil {
		return fmt.Errorf("insert shows: %w", err)
	}
	return nil
}
