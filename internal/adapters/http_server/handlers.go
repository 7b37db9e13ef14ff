package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stay_pricer/internal/adapters/observability"
	"stay_pricer/internal/app"
	"stay_pricer/internal/domain"
)

type Handlers struct {
	P    *app.Predictor
	Sink domain.ListingRepository
}

type problem struct {
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Status  int      `json:"status"`
	Detail  string   `json:"detail,omitempty"`
	Missing []string `json:"missing_fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/predict", h.predict)
}

// ---- flexible wire scalars ----
//
// The UI sends coordinates and counts sometimes as JSON numbers, sometimes as
// quoted strings; amenities arrive as a tag array or one delimited string.
// These types absorb both shapes at the boundary.

type flexFloat struct {
	set bool
	v   float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", s)
	}
	f.v, f.set = v, true
	return nil
}

type flexInt struct {
	set bool
	v   int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var ff flexFloat
	if err := ff.UnmarshalJSON(b); err != nil {
		return err
	}
	if ff.set {
		if ff.v != math.Trunc(ff.v) {
			return fmt.Errorf("not an integer: %s", strings.Trim(strings.TrimSpace(string(b)), `"`))
		}
		f.v, f.set = int(ff.v), true
	}
	return nil
}

type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	if strings.TrimSpace(one) == "" {
		*f = nil
		return nil
	}
	*f = strings.Split(one, ",")
	return nil
}

type predictRequest struct {
	Location     string      `json:"location"`
	Latitude     flexFloat   `json:"latitude"`
	Longitude    flexFloat   `json:"longitude"`
	PropertyType string      `json:"property_type"`
	Option       string      `json:"option"`
	Guests       flexInt     `json:"guests"`
	Bedrooms     flexInt     `json:"number_of_bedrooms"`
	Amenities    flexStrings `json:"amenities"`
	Seasonality  string      `json:"seasonality"`
	BasePrice    flexFloat   `json:"base_price"`
	Bathrooms    flexInt     `json:"bathrooms"`
	BedType      string      `json:"bed_type"`
	Beds         flexInt     `json:"beds"`
	Neighborhood string      `json:"neighborhood"`
	GuestType    string      `json:"guest_type"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
}

func (r *predictRequest) toInput() domain.ListingInput {
	in := domain.ListingInput{
		Location:     r.Location,
		PropertyType: r.PropertyType,
		Option:       r.Option,
		Amenities:    r.Amenities,
		Seasonality:  r.Seasonality,
		BedType:      r.BedType,
		Neighborhood: r.Neighborhood,
		GuestType:    r.GuestType,
		Title:        r.Title,
		Description:  r.Description,
	}
	if r.Latitude.set {
		in.Latitude = &r.Latitude.v
	}
	if r.Longitude.set {
		in.Longitude = &r.Longitude.v
	}
	if r.Guests.set {
		in.Guests = &r.Guests.v
	}
	if r.Bedrooms.set {
		in.Bedrooms = &r.Bedrooms.v
	}
	if r.BasePrice.set {
		in.BasePrice = &r.BasePrice.v
	}
	if r.Bathrooms.set {
		in.Bathrooms = &r.Bathrooms.v
	}
	if r.Beds.set {
		in.Beds = &r.Beds.v
	}
	return in
}

type predictResponse struct {
	Message        string  `json:"message"`
	PropertyID     string  `json:"property_id"`
	Sentiment      string  `json:"sentiment"`
	SuggestedPrice float64 `json:"suggested_price"`
	NearestPrice   float64 `json:"nearest_price"`
}

func (h *Handlers) predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.ObservePrediction("invalid")
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), nil)
		return
	}

	ev, err := h.P.Evaluate(r.Context(), req.toInput())
	if err != nil {
		var invalid domain.InvalidListingError
		if errors.As(err, &invalid) {
			observability.ObservePrediction("invalid")
			writeProblem(w, http.StatusBadRequest, "Invalid Listing", invalid.Error(), invalid.Missing)
			return
		}
		observability.ObservePrediction("error")
		log.Error().Err(err).Msg("evaluate failed")
		writeProblem(w, http.StatusInternalServerError, "Evaluation Failed", "", nil)
		return
	}

	sug := domain.Suggestion{
		ID:             uuid.NewString(),
		Listing:        ev.Listing,
		Title:          req.Title,
		Sentiment:      ev.Sentiment,
		SuggestedPrice: ev.SuggestedPrice,
		NearestPrice:   ev.NearestPrice,
	}
	if err := h.Sink.SaveSuggestion(r.Context(), sug); err != nil {
		observability.ObservePrediction("error")
		log.Error().Err(err).Str("id", sug.ID).Msg("save suggestion failed")
		writeProblem(w, http.StatusInternalServerError, "Persistence Failed", "", nil)
		return
	}

	observability.ObservePrediction("ok")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(predictResponse{
		Message:        "suggested price successfully created",
		PropertyID:     sug.ID,
		Sentiment:      ev.Sentiment,
		SuggestedPrice: ev.SuggestedPrice,
		NearestPrice:   ev.NearestPrice,
	}); err != nil {
		log.Error().Err(err).Msg("failed to write predict response")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, missing []string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{
		Type: "about:blank", Title: title, Status: status, Detail: detail, Missing: missing,
	}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}
