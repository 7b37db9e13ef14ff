package app

import (
	"context"
	"math"
	"strings"

	"stay_pricer/internal/domain"
	"stay_pricer/internal/pricing"
)

// requiredFields in corpus column order; every input field except amenities
// is required. Names match the wire field names so rejections read back to
// the caller's payload.
var requiredFields = []string{
	"location", "latitude", "longitude", "property_type", "option",
	"guests", "number_of_bedrooms", "seasonality", "base_price",
	"bathrooms", "bed_type", "beds", "neighborhood", "guest_type",
	"description", "title",
}

// Evaluation is the composed response for one listing.
type Evaluation struct {
	Sentiment      string
	SuggestedPrice float64
	NearestPrice   float64

	// Listing is the normalized record, handed back so the caller can
	// persist it; the facade itself never writes.
	Listing domain.Listing
}

// Predictor is the single entry point collaborators call with a new listing.
// All fitted artifacts it holds are read-only after construction, so one
// Predictor serves concurrent requests.
type Predictor struct {
	arts      *ArtifactSet
	sentiment *pricing.SentimentEstimator
}

func NewPredictor(arts *ArtifactSet) *Predictor {
	return &Predictor{arts: arts, sentiment: pricing.NewSentimentEstimator()}
}

// Evaluate validates the input, encodes it with the fit-time artifacts, and
// composes sentiment, suggested price, and nearest comparable price.
func (p *Predictor) Evaluate(ctx context.Context, in domain.ListingInput) (Evaluation, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return Evaluation{}, domain.InvalidListingError{Missing: missing}
	}
	if p.arts == nil || p.arts.Index == nil {
		return Evaluation{}, domain.ErrIndexNotBuilt
	}
	if p.arts.Model == nil || p.arts.Encoder == nil {
		return Evaluation{}, domain.ErrModelNotTrained
	}

	l := domain.Listing{
		Location:     in.Location,
		Lat:          *in.Latitude,
		Lon:          *in.Longitude,
		PropertyType: in.PropertyType,
		Option:       in.Option,
		Guests:       *in.Guests,
		Bedrooms:     *in.Bedrooms,
		Bathrooms:    *in.Bathrooms,
		Beds:         *in.Beds,
		BasePrice:    *in.BasePrice,
		Amenities:    normalizeAmenities(in.Amenities),
		Seasonality:  in.Seasonality,
		BedType:      in.BedType,
		Neighborhood: in.Neighborhood,
		GuestType:    in.GuestType,
		Description:  in.Description,
	}

	// Feature row gets the unrounded neighbor mean, exactly as Enrich
	// attached it at training time; the response value is rounded.
	mean, err := p.arts.Index.MeanAt(l.Lat, l.Lon)
	if err != nil {
		return Evaluation{}, err
	}
	l.AvgNeighborPrice = mean
	nearest := math.Round(mean*100) / 100

	suggested, err := p.arts.Model.Predict(p.arts.Encoder.Transform(l))
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Sentiment:      p.sentiment.Classify(in.Description),
		SuggestedPrice: suggested,
		NearestPrice:   nearest,
		Listing:        l,
	}, nil
}

func missingFields(in domain.ListingInput) []string {
	var missing []string
	for _, f := range requiredFields {
		if !hasField(in, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func hasField(in domain.ListingInput, name string) bool {
	switch name {
	case "location":
		return in.Location != ""
	case "latitude":
		return in.Latitude != nil
	case "longitude":
		return in.Longitude != nil
	case "property_type":
		return in.PropertyType != ""
	case "option":
		return in.Option != ""
	case "guests":
		return in.Guests != nil
	case "number_of_bedrooms":
		return in.Bedrooms != nil
	case "seasonality":
		return in.Seasonality != ""
	case "base_price":
		return in.BasePrice != nil
	case "bathrooms":
		return in.Bathrooms != nil
	case "bed_type":
		return in.BedType != ""
	case "beds":
		return in.Beds != nil
	case "neighborhood":
		return in.Neighborhood != ""
	case "guest_type":
		return in.GuestType != ""
	case "description":
		return in.Description != ""
	case "title":
		return in.Title != ""
	}
	return false
}

// normalizeAmenities trims whitespace and surrounding quotes from each tag
// and drops empties. The wire layer already split delimited strings.
func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		a = strings.Trim(a, `"'`)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
