package domain

import "context"

type ListingRepository interface {
	// Write paths
	InsertListings(ctx context.Context, rs []RawRecord) error
	SaveSuggestion(ctx context.Context, s Suggestion) error

	// Read paths
	LoadCorpus(ctx context.Context) ([]RawRecord, error)
}

// ArtifactStore is a durable key-value blob store for fitted model artifacts.
type ArtifactStore interface {
	Save(ctx context.Context, key string, v any) error
	Load(ctx context.Context, key string, dst any) (bool, error)
	Del(ctx context.Context, key string) error
}
