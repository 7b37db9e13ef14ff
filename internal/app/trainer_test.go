package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"stay_pricer/internal/app"
	"stay_pricer/internal/domain"
)

type fakeRepo struct {
	corpus      []domain.RawRecord
	suggestions []domain.Suggestion
}

func (f *fakeRepo) InsertListings(_ context.Context, rs []domain.RawRecord) error {
	f.corpus = append(f.corpus, rs...)
	return nil
}

func (f *fakeRepo) SaveSuggestion(_ context.Context, s domain.Suggestion) error {
	f.suggestions = append(f.suggestions, s)
	return nil
}

func (f *fakeRepo) LoadCorpus(_ context.Context) ([]domain.RawRecord, error) {
	return f.corpus, nil
}

type fakeStore struct {
	blobs map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{blobs: map[string][]byte{}} }

func (f *fakeStore) Save(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.blobs[key] = b
	return nil
}

func (f *fakeStore) Load(_ context.Context, key string, dst any) (bool, error) {
	b, ok := f.blobs[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.blobs, key)
	return nil
}

func fixtureCorpus(n int) []domain.RawRecord {
	cities := []string{"Istanbul", "Berlin", "Lisbon"}
	rs := make([]domain.RawRecord, n)
	for i := range rs {
		rs[i] = domain.RawRecord{
			Location:     cities[i%len(cities)],
			Latitude:     fmt.Sprintf("%.6f", 40.0+float64(i)*0.01),
			Longitude:    fmt.Sprintf("%.6f", -73.0-float64(i)*0.01),
			PropertyType: "Apartment",
			Option:       "An entire place",
			Guests:       1 + i%4,
			Bedrooms:     1 + i%3,
			Bathrooms:    1,
			Beds:         1 + i%3,
			BasePrice:    80 + float64(i%10)*15,
			Amenities:    []string{"WiFi", "Kitchen"},
			Seasonality:  "Summer",
			BedType:      "Queen",
			Neighborhood: "Downtown",
			GuestType:    "Any Airbnb guest",
			Title:        fmt.Sprintf("Stay %d", i),
			Description:  "A lovely, quiet spot close to everything.",
			Images:       []string{"https://example.com/img.jpg"},
		}
	}
	return rs
}

func trainingOpts() app.TrainingOptions {
	return app.TrainingOptions{
		NeighborK:      5,
		OutlierCeiling: 5000,
		RidgeAlpha:     1.0,
		TestFraction:   0.2,
		SplitSeed:      42,
	}
}

func TestTrain_ProducesArtifacts(t *testing.T) {
	repo := &fakeRepo{corpus: fixtureCorpus(60)}
	store := newFakeStore()
	svc := app.NewTrainingService(repo, store, trainingOpts())

	arts, err := svc.Train(context.Background())
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if arts.Encoder == nil || arts.Model == nil || arts.Index == nil {
		t.Fatal("artifact set incomplete")
	}
	if arts.TrainedAt.IsZero() {
		t.Fatal("trained-at not stamped")
	}
	if _, ok := store.blobs[app.ArtifactKey]; !ok {
		t.Fatalf("artifacts not persisted under %q", app.ArtifactKey)
	}

	loaded, ok, err := app.LoadArtifacts(context.Background(), store)
	if err != nil || !ok {
		t.Fatalf("load artifacts: ok=%v err=%v", ok, err)
	}
	if len(loaded.Model.Coef) != len(arts.Model.Coef) {
		t.Fatalf("restored model width %d, want %d", len(loaded.Model.Coef), len(arts.Model.Coef))
	}
	if loaded.Index.K != arts.Index.K {
		t.Fatalf("restored index k %d, want %d", loaded.Index.K, arts.Index.K)
	}
}

func TestTrain_NilStoreSkipsPersistence(t *testing.T) {
	repo := &fakeRepo{corpus: fixtureCorpus(40)}
	svc := app.NewTrainingService(repo, nil, trainingOpts())

	arts, err := svc.Train(context.Background())
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if arts == nil {
		t.Fatal("no artifacts returned")
	}
}

func TestTrain_EmptyCorpus(t *testing.T) {
	svc := app.NewTrainingService(&fakeRepo{}, newFakeStore(), trainingOpts())
	if _, err := svc.Train(context.Background()); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestLoadArtifacts_Miss(t *testing.T) {
	_, ok, err := app.LoadArtifacts(context.Background(), newFakeStore())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected miss on empty store")
	}
}
