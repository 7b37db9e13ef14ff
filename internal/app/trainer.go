package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"stay_pricer/internal/adapters/observability"
	"stay_pricer/internal/domain"
	"stay_pricer/internal/pricing"
)

// TrainingOptions fix the pipeline constants for one run.
type TrainingOptions struct {
	NeighborK      int
	OutlierCeiling float64
	RidgeAlpha     float64
	TestFraction   float64
	SplitSeed      int64
}

// TrainingService runs the one-time initialization phase: load corpus,
// normalize, build the neighbor index, fit the encoder, train the model,
// persist the artifact set.
type TrainingService struct {
	repo  domain.ListingRepository
	store domain.ArtifactStore
	opts  TrainingOptions
}

func NewTrainingService(repo domain.ListingRepository, store domain.ArtifactStore, opts TrainingOptions) *TrainingService {
	return &TrainingService{repo: repo, store: store, opts: opts}
}

func (s *TrainingService) Train(ctx context.Context) (*ArtifactSet, error) {
	raw, err := s.repo.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("load corpus: no records")
	}

	listings, skipped := pricing.Normalize(raw)
	observability.AddCorpusSkipped(skipped)
	log.Info().
		Int("raw", len(raw)).
		Int("listings", len(listings)).
		Int("skipped", skipped).
		Msg("corpus loaded")

	index := pricing.BuildNeighborIndex(listings, s.opts.NeighborK)
	index.Enrich(listings)

	enc := pricing.FitEncoder(listings)
	X, y := enc.Matrix(listings)

	model, err := pricing.TrainRidge(X, y, pricing.TrainConfig{
		Alpha:        s.opts.RidgeAlpha,
		TestFraction: s.opts.TestFraction,
		Seed:         s.opts.SplitSeed,
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Float64("test_mse_log_space", model.TestMSE).
		Int("train_rows", model.TrainRows).
		Int("test_rows", model.TestRows).
		Float64("alpha", s.opts.RidgeAlpha).
		Msg("ridge model trained")

	// Reporting-only view: outliers stay in the training matrix and the
	// neighbor index, they are just excluded from this summary.
	report := pricing.AnalyzePrices(pricing.PriceAnalysisView(listings, s.opts.OutlierCeiling))
	log.Info().
		Int("rows", report.Count).
		Int("excluded", len(listings)-report.Count).
		Float64("mean_price", report.Mean).
		Float64("min_price", report.Min).
		Float64("max_price", report.Max).
		Msg("price analysis view")

	arts := &ArtifactSet{
		Encoder:   enc,
		Model:     model,
		Index:     index,
		TrainedAt: time.Now().UTC(),
	}
	if s.store != nil {
		if err := SaveArtifacts(ctx, s.store, arts); err != nil {
			return nil, fmt.Errorf("persist artifacts: %w", err)
		}
		log.Info().Str("key", ArtifactKey).Msg("artifacts persisted")
	}
	return arts, nil
}
