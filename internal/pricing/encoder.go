package pricing

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"stay_pricer/internal/domain"
)

// Column sets. Numeric columns are mean-imputed; categorical columns are
// mode-imputed and label-encoded, one encoder per column. The feature matrix
// holds the numeric group minus base_price (the target source), plus the
// derived avg_neighbor_price, then the categorical codes.
var (
	NumericColumns = []string{
		"guests", "number_of_bedrooms", "bathrooms", "beds", "base_price",
	}
	CategoricalColumns = []string{
		"location", "property_type", "option", "amenities",
		"seasonality", "bed_type", "neighborhood", "guest_type",
	}
	featureNumerics = []string{
		"guests", "number_of_bedrooms", "bathrooms", "beds", "avg_neighbor_price",
	}
)

// Encoder holds the fit-time imputation statistics and per-column label
// codes. Fit once on the full training corpus and reused verbatim at
// prediction time; never refit on an incoming record. Immutable after
// FitEncoder, safe for concurrent Transform calls. Exported fields exist for
// artifact serialization.
type Encoder struct {
	NumericMeans map[string]float64        `json:"numeric_means"`
	Modes        map[string]string         `json:"modes"`
	Codes        map[string]map[string]int `json:"codes"`
}

// FitEncoder computes imputation statistics and assigns a dense integer code
// to every categorical value observed in the corpus. Codes follow the sorted
// order of the distinct value set.
func FitEncoder(ls []domain.Listing) *Encoder {
	e := &Encoder{
		NumericMeans: make(map[string]float64, len(NumericColumns)),
		Modes:        make(map[string]string, len(CategoricalColumns)),
		Codes:        make(map[string]map[string]int, len(CategoricalColumns)),
	}

	// Every numeric is positive by construction, so zero marks a missing
	// value; means are taken over the present values only.
	for _, col := range NumericColumns {
		var sum float64
		var n int
		for i := range ls {
			if v := numericValue(&ls[i], col); v != 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			e.NumericMeans[col] = sum / float64(n)
		}
	}

	for _, col := range CategoricalColumns {
		counts := make(map[string]int)
		for i := range ls {
			if v := categoricalValue(&ls[i], col); v != "" {
				counts[v]++
			}
		}
		values := make([]string, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		sort.Strings(values)

		codes := make(map[string]int, len(values))
		mode, best := "", -1
		for i, v := range values {
			codes[v] = i
			if counts[v] > best {
				mode, best = v, counts[v]
			}
		}
		e.Codes[col] = codes
		e.Modes[col] = mode
	}
	return e
}

// Code returns the integer code for a categorical value. A value unseen at
// fit time yields the column's reserved unknown code together with an
// UnseenCategoryError so callers can observe the substitution.
func (e *Encoder) Code(column, value string) (int, error) {
	codes := e.Codes[column]
	if c, ok := codes[value]; ok {
		return c, nil
	}
	return len(codes), domain.UnseenCategoryError{Column: column, Value: value}
}

// Transform produces the feature row for one listing, in FeatureNames order.
// Missing numerics (zero-valued) fall back to the fit-time column mean,
// missing categoricals to the fit-time mode; unseen categorical values map to
// the reserved unknown code. Deterministic for a fitted encoder.
func (e *Encoder) Transform(l domain.Listing) []float64 {
	row := make([]float64, 0, len(featureNumerics)+len(CategoricalColumns))
	for _, col := range featureNumerics {
		v := numericValue(&l, col)
		if v == 0 {
			if m, ok := e.NumericMeans[col]; ok {
				v = m
			}
		}
		row = append(row, v)
	}
	for _, col := range CategoricalColumns {
		v := categoricalValue(&l, col)
		if v == "" {
			v = e.Modes[col]
		}
		code, err := e.Code(col, v)
		if err != nil {
			log.Debug().Str("column", col).Str("value", v).Msg("unseen category, using reserved code")
		}
		row = append(row, float64(code))
	}
	return row
}

// Matrix assembles the training matrix X and target vector y = ln(base_price),
// preserving row order. A missing base price imputes to the column mean before
// the log.
func (e *Encoder) Matrix(ls []domain.Listing) (*mat.Dense, []float64) {
	cols := len(featureNumerics) + len(CategoricalColumns)
	X := mat.NewDense(len(ls), cols, nil)
	y := make([]float64, len(ls))
	for i, l := range ls {
		X.SetRow(i, e.Transform(l))
		bp := l.BasePrice
		if bp == 0 {
			bp = e.NumericMeans["base_price"]
		}
		y[i] = math.Log(bp)
	}
	return X, y
}

// FeatureNames lists the matrix columns in order.
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, len(featureNumerics)+len(CategoricalColumns))
	names = append(names, featureNumerics...)
	names = append(names, CategoricalColumns...)
	return names
}

// PriceAnalysisView filters out extreme price outliers (base_price >= ceiling).
// The view feeds the corpus price report only; the feature matrix used for
// neighbor enrichment keeps every row.
func PriceAnalysisView(ls []domain.Listing, ceiling float64) []domain.Listing {
	out := make([]domain.Listing, 0, len(ls))
	for _, l := range ls {
		if l.BasePrice < ceiling {
			out = append(out, l)
		}
	}
	return out
}

// PriceReport summarizes a set of listings' base prices.
type PriceReport struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func AnalyzePrices(ls []domain.Listing) PriceReport {
	r := PriceReport{Count: len(ls)}
	if len(ls) == 0 {
		return r
	}
	r.Min, r.Max = ls[0].BasePrice, ls[0].BasePrice
	var total float64
	for _, l := range ls {
		total += l.BasePrice
		if l.BasePrice < r.Min {
			r.Min = l.BasePrice
		}
		if l.BasePrice > r.Max {
			r.Max = l.BasePrice
		}
	}
	r.Mean = round2(total / float64(len(ls)))
	r.Min = round2(r.Min)
	r.Max = round2(r.Max)
	return r
}

func numericValue(l *domain.Listing, col string) float64 {
	switch col {
	case "guests":
		return float64(l.Guests)
	case "number_of_bedrooms":
		return float64(l.Bedrooms)
	case "bathrooms":
		return float64(l.Bathrooms)
	case "beds":
		return float64(l.Beds)
	case "base_price":
		return l.BasePrice
	case "avg_neighbor_price":
		return l.AvgNeighborPrice
	}
	return 0
}

func categoricalValue(l *domain.Listing, col string) string {
	switch col {
	case "location":
		return l.Location
	case "property_type":
		return l.PropertyType
	case "option":
		return l.Option
	case "amenities":
		return CanonicalAmenities(l.Amenities)
	case "seasonality":
		return l.Seasonality
	case "bed_type":
		return l.BedType
	case "neighborhood":
		return l.Neighborhood
	case "guest_type":
		return l.GuestType
	}
	return ""
}

// CanonicalAmenities collapses an amenity set to one categorical value:
// trimmed, sorted, comma-joined. Order-insensitive so the same set always
// encodes to the same code.
func CanonicalAmenities(amenities []string) string {
	tags := make([]string, 0, len(amenities))
	for _, a := range amenities {
		if t := strings.TrimSpace(a); t != "" {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return strings.Join(tags, ",")
}
