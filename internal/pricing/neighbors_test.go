package pricing_test

import (
	"errors"
	"testing"

	"stay_pricer/internal/domain"
	"stay_pricer/internal/pricing"
)

func clusterFixture() []domain.Listing {
	// 5 listings tightly clustered around (40, -73), plus 3 far away.
	near := []float64{100, 150, 200, 120, 180}
	var ls []domain.Listing
	for i, p := range near {
		ls = append(ls, domain.Listing{
			Lat:       40.0 + float64(i)*0.001,
			Lon:       -73.0 - float64(i)*0.001,
			BasePrice: p,
		})
	}
	ls = append(ls,
		domain.Listing{Lat: 10, Lon: 10, BasePrice: 9000},
		domain.Listing{Lat: -35, Lon: 150, BasePrice: 75},
		domain.Listing{Lat: 52, Lon: 13, BasePrice: 60},
	)
	return ls
}

func TestNearestPrice_ClusterMean(t *testing.T) {
	ix := pricing.BuildNeighborIndex(clusterFixture(), 5)
	got, err := ix.NearestPrice(40.0, -73.0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != 150.0 {
		t.Fatalf("nearest price: got %v, want 150.0", got)
	}
}

func TestNearestPrice_Deterministic(t *testing.T) {
	ix := pricing.BuildNeighborIndex(clusterFixture(), 5)
	a, err := ix.NearestPrice(40.0005, -73.0005)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	b, err := ix.NearestPrice(40.0005, -73.0005)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if a != b {
		t.Fatalf("repeated query differs: %v vs %v", a, b)
	}
}

func TestMeanAt_MatchesEnrichUnrounded(t *testing.T) {
	// Prices chosen so the 3-neighbor mean carries more than 2 decimals.
	ls := []domain.Listing{
		{Lat: 40.000, Lon: -73.000, BasePrice: 100},
		{Lat: 40.001, Lon: -73.001, BasePrice: 100.01},
		{Lat: 40.002, Lon: -73.002, BasePrice: 100},
	}
	ix := pricing.BuildNeighborIndex(ls, 3)
	ix.Enrich(ls)

	mean, err := ix.MeanAt(40.0, -73.0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := (100 + 100.01 + 100.0) / 3; mean != want {
		t.Fatalf("mean: got %v, want %v", mean, want)
	}
	// the enriched feature is the same unrounded quantity
	if ls[0].AvgNeighborPrice != mean {
		t.Fatalf("enriched feature %v differs from query mean %v", ls[0].AvgNeighborPrice, mean)
	}
	// the presentation value rounds
	rounded, err := ix.NearestPrice(40.0, -73.0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rounded != 100.0 {
		t.Fatalf("nearest price: got %v, want 100.0", rounded)
	}
	if rounded == mean {
		t.Fatal("fixture does not exercise rounding")
	}
}

func TestNearestPrice_IndexNotBuilt(t *testing.T) {
	ix := pricing.BuildNeighborIndex(nil, 5)
	if _, err := ix.NearestPrice(0, 0); !errors.Is(err, domain.ErrIndexNotBuilt) {
		t.Fatalf("err: got %v, want ErrIndexNotBuilt", err)
	}
}

func TestEnrich_SelfInclusive(t *testing.T) {
	// k=1: the nearest neighbor of every listing is itself, so the enriched
	// feature equals its own price.
	ls := clusterFixture()
	ix := pricing.BuildNeighborIndex(ls, 1)
	ix.Enrich(ls)
	for i := range ls {
		if ls[i].AvgNeighborPrice != ls[i].BasePrice {
			t.Fatalf("listing %d: avg neighbor price %v, want own price %v",
				i, ls[i].AvgNeighborPrice, ls[i].BasePrice)
		}
	}
}

func TestNearestPrice_KLargerThanCorpus(t *testing.T) {
	ls := clusterFixture()[:2]
	ix := pricing.BuildNeighborIndex(ls, 5)
	got, err := ix.NearestPrice(40, -73)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := (100.0 + 150.0) / 2
	if got != want {
		t.Fatalf("nearest price: got %v, want %v", got, want)
	}
}
