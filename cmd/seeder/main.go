package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stay_pricer/internal/adapters/observability"
	"stay_pricer/internal/domain"
	"stay_pricer/internal/shared"
	mysqlrepo "stay_pricer/internal/storage/mysql"
)

const batchSize = 250

var (
	propertyTypes = []string{"Apartment", "House", "Villa", "Cabin", "Hotel", "Guesthouse", "Cave", "Farm"}

	// Cabins have no shared rooms; everything else offers all three.
	optionsByType = map[string][]string{
		"Cabin": {"An entire place", "A room"},
	}
	defaultOptions = []string{"An entire place", "A room", "A shared room"}

	amenityPool = []string{
		"WiFi", "Kitchen", "Swimming Pool", "Exercise equipment", "Free parking on premises",
		"Paid parking on premises", "Air Conditioning", "Dedicated workplace", "BBQ grill",
		"Pool table", "TV", "Outdoor shower", "Beach access", "Indoor fireplace", "Piano",
		"Ski-in/ski-out", "Smoke alarm", "First aid kit", "Fire extinguisher", "Carbon monoxide alarm",
	}
	bedTypes      = []string{"Single", "Double", "Queen", "King"}
	neighborhoods = []string{"Downtown", "Suburb", "Waterfront", "Mountain View"}
	guestTypes    = []string{"Any Airbnb guest", "An experienced guest"}
	seasons       = []string{"Autumn", "Winter", "Summer"}
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("count", cfg.SeedCount).
		Int("workers", cfg.SeedWorkers).
		Int64("seed", cfg.SeedSeed).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	faker := gofakeit.New(cfg.SeedSeed)

	// Generation is sequential so the corpus is reproducible for a given
	// seed; only the inserts fan out.
	records := make([]domain.RawRecord, cfg.SeedCount)
	for i := range records {
		records[i] = generate(faker)
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted, failed := 0, 0

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(batch []domain.RawRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.InsertListings(ctx, batch); err != nil {
				log.Warn().Err(err).Int("size", len(batch)).Msg("batch insert failed")
				mu.Lock()
				failed += len(batch)
				mu.Unlock()
				return
			}
			mu.Lock()
			inserted += len(batch)
			mu.Unlock()
		}(batch)
	}

	wg.Wait()
	log.Info().Int("inserted", inserted).Int("failed", failed).Msg("seeding completed")
}

func generate(f *gofakeit.Faker) domain.RawRecord {
	propertyType := random(f, propertyTypes)
	options := optionsByType[propertyType]
	if options == nil {
		options = defaultOptions
	}
	bedrooms := f.Number(1, 5)

	images := make([]string, 5)
	for i := range images {
		images[i] = f.ImageURL(800, 600)
	}

	return domain.RawRecord{
		Location:     f.City(),
		Latitude:     fmt.Sprintf("%.6f", f.Latitude()),
		Longitude:    fmt.Sprintf("%.6f", f.Longitude()),
		PropertyType: propertyType,
		Option:       random(f, options),
		Guests:       f.Number(1, 5),
		Bedrooms:     bedrooms,
		Bathrooms:    bedrooms + f.Number(0, 4),
		Beds:         bedrooms + f.Number(1, 4),
		BasePrice:    f.Float64Range(50, 5000),
		Amenities:    sample(f, amenityPool, f.Number(1, len(amenityPool))),
		Seasonality:  random(f, seasons),
		BedType:      random(f, bedTypes),
		Neighborhood: random(f, neighborhoods),
		GuestType:    random(f, guestTypes),
		Title:        f.Sentence(6),
		Description:  f.Paragraph(1, 3, 10, " "),
		Images:       images,
	}
}

func random(f *gofakeit.Faker, values []string) string {
	return values[f.Number(0, len(values)-1)]
}

func sample(f *gofakeit.Faker, pool []string, n int) []string {
	s := append([]string(nil), pool...)
	f.ShuffleStrings(s)
	return s[:n]
}
