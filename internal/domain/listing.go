package domain

// RawRecord is one corpus row exactly as stored: coordinates still text,
// image URLs still attached.
type RawRecord struct {
	Location     string
	Latitude     string
	Longitude    string
	PropertyType string
	Option       string
	Guests       int
	Bedrooms     int
	Bathrooms    int
	Beds         int
	BasePrice    float64
	Amenities    []string
	Seasonality  string
	BedType      string
	Neighborhood string
	GuestType    string
	Title        string
	Description  string
	Images       []string
}

// Listing is the normalized record the pipeline works on. Coordinates are
// numeric, non-feature columns are dropped; the description survives only for
// the text-scoring path. AvgNeighborPrice is derived by the spatial index,
// never supplied by callers.
type Listing struct {
	Location         string  `json:"location"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	PropertyType     string  `json:"property_type"`
	Option           string  `json:"option"`
	Guests           int     `json:"guests"`
	Bedrooms         int     `json:"bedrooms"`
	Bathrooms        int     `json:"bathrooms"`
	Beds             int     `json:"beds"`
	BasePrice        float64 `json:"base_price"`
	Amenities        []string `json:"amenities"`
	Seasonality      string  `json:"seasonality"`
	BedType          string  `json:"bed_type"`
	Neighborhood     string  `json:"neighborhood"`
	GuestType        string  `json:"guest_type"`
	Description      string  `json:"description"`
	AvgNeighborPrice float64 `json:"avg_neighbor_price"`
}

// ListingInput is a request-time listing. Numeric fields are pointers so the
// facade can tell "absent" from zero when validating.
type ListingInput struct {
	Location     string
	Latitude     *float64
	Longitude    *float64
	PropertyType string
	Option       string
	Guests       *int
	Bedrooms     *int
	Bathrooms    *int
	Beds         *int
	BasePrice    *float64
	Amenities    []string
	Seasonality  string
	BedType      string
	Neighborhood string
	GuestType    string
	Title        string
	Description  string
}
