//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"stay_pricer/internal/domain"
	mysqlrepo "stay_pricer/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=staypricer",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "staypricer")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_InsertAndLoadCorpus(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	batch := []domain.RawRecord{
		{
			Location:     "Istanbul",
			Latitude:     "41.015100",
			Longitude:    "28.979500",
			PropertyType: "Apartment",
			Option:       "An entire place",
			Guests:       2,
			Bedrooms:     1,
			Bathrooms:    1,
			Beds:         2,
			BasePrice:    120.50,
			Amenities:    []string{"WiFi", "Kitchen"},
			Seasonality:  "Summer",
			BedType:      "Queen",
			Neighborhood: "Downtown",
			GuestType:    "Any Airbnb guest",
			Title:        "Bright flat",
			Description:  "Lovely place near the water.",
			Images:       []string{"https://example.com/a.jpg"},
		},
		{
			Location:     "Berlin",
			Latitude:     "52.520000",
			Longitude:    "13.405000",
			PropertyType: "House",
			Option:       "A private room",
			Guests:       4,
			Bedrooms:     2,
			Bathrooms:    2,
			Beds:         3,
			BasePrice:    210,
			Amenities:    []string{},
			Seasonality:  "Winter",
			BedType:      "Double",
			Neighborhood: "Suburb",
			GuestType:    "Experienced guest",
			Title:        "Quiet house",
			Description:  "Calm street, big garden.",
			Images:       []string{},
		},
	}
	if err := repo.InsertListings(ctx, batch); err != nil {
		t.Fatalf("InsertListings: %v", err)
	}
	if err := repo.InsertListings(ctx, nil); err != nil {
		t.Fatalf("InsertListings empty batch: %v", err)
	}

	got, err := repo.LoadCorpus(ctx)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(got))
	}
	if got[0].Location != "Istanbul" || got[1].Location != "Berlin" {
		t.Fatalf("insertion order not preserved: %s, %s", got[0].Location, got[1].Location)
	}
	if got[0].Latitude != "41.015100" {
		t.Fatalf("latitude mangled: %q", got[0].Latitude)
	}
	if len(got[0].Amenities) != 2 || got[0].Amenities[1] != "Kitchen" {
		t.Fatalf("amenities round-trip: %v", got[0].Amenities)
	}
	if got[1].BasePrice != 210 {
		t.Fatalf("base price round-trip: %v", got[1].BasePrice)
	}
}

func TestRepo_MySQL_SaveAndGetSuggestion(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	want := domain.Suggestion{
		ID: "3e7c2a10-0f4b-4c55-9f4e-2b9b6c1d8a77",
		Listing: domain.Listing{
			Location:         "Istanbul",
			Lat:              41.0151,
			Lon:              28.9795,
			PropertyType:     "Apartment",
			Option:           "An entire place",
			Guests:           2,
			Bedrooms:         1,
			Bathrooms:        1,
			Beds:             2,
			BasePrice:        120.50,
			Amenities:        []string{"Kitchen", "WiFi"},
			Seasonality:      "Summer",
			BedType:          "Queen",
			Neighborhood:     "Downtown",
			GuestType:        "Any Airbnb guest",
			Description:      "Lovely place near the water.",
			AvgNeighborPrice: 131.25,
		},
		Title:          "Bright flat",
		Sentiment:      "positive",
		SuggestedPrice: 134.82,
		NearestPrice:   131.25,
	}
	if err := repo.SaveSuggestion(ctx, want); err != nil {
		t.Fatalf("SaveSuggestion: %v", err)
	}

	got, err := repo.GetSuggestion(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if got.ID != want.ID || got.Sentiment != "positive" {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
	if got.SuggestedPrice != want.SuggestedPrice || got.NearestPrice != want.NearestPrice {
		t.Fatalf("prices round-trip: %v / %v", got.SuggestedPrice, got.NearestPrice)
	}
	if got.Listing.Lat != want.Listing.Lat || got.Listing.Lon != want.Listing.Lon {
		t.Fatalf("coordinates round-trip: %v / %v", got.Listing.Lat, got.Listing.Lon)
	}
	if len(got.Listing.Amenities) != 2 {
		t.Fatalf("amenities round-trip: %v", got.Listing.Amenities)
	}

	if _, err := repo.GetSuggestion(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
