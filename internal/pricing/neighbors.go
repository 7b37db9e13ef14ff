package pricing

import (
	"math"
	"sort"

	"stay_pricer/internal/domain"
)

// NeighborIndex answers "which k listings are closest to (lat, lon)?"
// Distance is Euclidean over raw degrees, which only holds up at small
// geographic extents; it is an approximation, not geodesic distance.
//
// The index is immutable once built; queries never mutate it, so concurrent
// use from request handlers is safe. Fields are exported for artifact
// serialization only.
type NeighborIndex struct {
	K      int          `json:"k"`
	Points [][2]float64 `json:"points"`
	Prices []float64    `json:"prices"`
}

// BuildNeighborIndex indexes every listing's coordinates and base price.
func BuildNeighborIndex(ls []domain.Listing, k int) *NeighborIndex {
	ix := &NeighborIndex{
		K:      k,
		Points: make([][2]float64, len(ls)),
		Prices: make([]float64, len(ls)),
	}
	for i, l := range ls {
		ix.Points[i] = [2]float64{l.Lat, l.Lon}
		ix.Prices[i] = l.BasePrice
	}
	return ix
}

// Enrich attaches the mean base price of each listing's k nearest neighbors
// (the listing itself included) as AvgNeighborPrice, putting local price
// context into the model's input space.
func (ix *NeighborIndex) Enrich(ls []domain.Listing) {
	for i := range ls {
		ls[i].AvgNeighborPrice = ix.meanPrice(ix.nearest(ls[i].Lat, ls[i].Lon))
	}
}

// MeanAt returns the unrounded mean base price of the k listings nearest the
// query point. This is the same quantity Enrich attaches at training time, so
// feature rows built from it see no rounding skew. Deterministic for
// identical index state and query point.
func (ix *NeighborIndex) MeanAt(lat, lon float64) (float64, error) {
	if ix == nil || len(ix.Points) == 0 {
		return 0, domain.ErrIndexNotBuilt
	}
	return ix.meanPrice(ix.nearest(lat, lon)), nil
}

// NearestPrice is MeanAt rounded to 2 decimals, for presentation.
func (ix *NeighborIndex) NearestPrice(lat, lon float64) (float64, error) {
	m, err := ix.MeanAt(lat, lon)
	if err != nil {
		return 0, err
	}
	return round2(m), nil
}

// nearest returns the indices of the k closest points. Ties break on
// insertion order so repeated queries always see the same neighbor set.
func (ix *NeighborIndex) nearest(lat, lon float64) []int {
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, len(ix.Points))
	for i, p := range ix.Points {
		dLat, dLon := p[0]-lat, p[1]-lon
		cands[i] = cand{idx: i, dist: math.Sqrt(dLat*dLat + dLon*dLon)}
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].dist != cands[b].dist {
			return cands[a].dist < cands[b].dist
		}
		return cands[a].idx < cands[b].idx
	})

	k := ix.K
	if k > len(cands) {
		k = len(cands)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = cands[i].idx
	}
	return out
}

func (ix *NeighborIndex) meanPrice(idxs []int) float64 {
	if len(idxs) == 0 {
		return 0
	}
	var total float64
	for _, i := range idxs {
		total += ix.Prices[i]
	}
	return total / float64(len(idxs))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
