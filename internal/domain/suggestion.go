package domain

// Suggestion is the record handed to the persistence sink after a listing has
// been evaluated: the normalized listing plus the three computed outputs,
// under a caller-generated identifier.
type Suggestion struct {
	ID             string
	Listing        Listing
	Title          string
	Sentiment      string
	SuggestedPrice float64
	NearestPrice   float64
}
