package app

import (
	"context"
	"time"

	"stay_pricer/internal/domain"
	"stay_pricer/internal/pricing"
)

// ArtifactKey is where the fitted artifact set lives in the blob store.
const ArtifactKey = "staypricer:artifacts:v1"

// ArtifactSet is the complete, immutable output of one training run: the
// fitted encoder, scaler+model, and neighbor index. It is the serialization
// boundary between training and serving; hot reload means swapping the whole
// set, never mutating one piece.
type ArtifactSet struct {
	Encoder   *pricing.Encoder       `json:"encoder"`
	Model     *pricing.RidgeModel    `json:"model"`
	Index     *pricing.NeighborIndex `json:"index"`
	TrainedAt time.Time              `json:"trained_at"`
}

func SaveArtifacts(ctx context.Context, store domain.ArtifactStore, a *ArtifactSet) error {
	return store.Save(ctx, ArtifactKey, a)
}

// LoadArtifacts restores a previously persisted artifact set; ok is false
// when the store holds none.
func LoadArtifacts(ctx context.Context, store domain.ArtifactStore) (*ArtifactSet, bool, error) {
	var a ArtifactSet
	ok, err := store.Load(ctx, ArtifactKey, &a)
	if err != nil || !ok {
		return nil, false, err
	}
	return &a, true, nil
}
