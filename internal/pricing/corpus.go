package pricing

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"stay_pricer/internal/domain"
)

// Normalize turns raw corpus rows into clean training listings: exact
// duplicates dropped, image URLs discarded, coordinates parsed to float.
// Records with non-numeric coordinates are skipped and counted, never fatal.
func Normalize(raw []domain.RawRecord) ([]domain.Listing, int) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.Listing, 0, len(raw))
	skipped := 0

	for _, r := range raw {
		key := dedupeKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lat, err := parseCoord("latitude", r.Latitude)
		if err != nil {
			skipped++
			log.Warn().Err(err).Msg("skipping corpus record")
			continue
		}
		lon, err := parseCoord("longitude", r.Longitude)
		if err != nil {
			skipped++
			log.Warn().Err(err).Msg("skipping corpus record")
			continue
		}

		out = append(out, domain.Listing{
			Location:     r.Location,
			Lat:          lat,
			Lon:          lon,
			PropertyType: r.PropertyType,
			Option:       r.Option,
			Guests:       r.Guests,
			Bedrooms:     r.Bedrooms,
			Bathrooms:    r.Bathrooms,
			Beds:         r.Beds,
			BasePrice:    r.BasePrice,
			Amenities:    append([]string(nil), r.Amenities...),
			Seasonality:  r.Seasonality,
			BedType:      r.BedType,
			Neighborhood: r.Neighborhood,
			GuestType:    r.GuestType,
			Description:  r.Description,
		})
	}

	if skipped > 0 {
		log.Info().Int("skipped", skipped).Int("kept", len(out)).Msg("corpus normalized with malformed records")
	}
	return out, skipped
}

func parseCoord(field, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, domain.MalformedRecordError{Field: field, Value: v}
	}
	return f, nil
}

// dedupeKey is full-row equality over every stored column, images included:
// only byte-for-byte repeats of the same observation collapse.
func dedupeKey(r domain.RawRecord) string {
	var b strings.Builder
	for _, part := range []string{
		r.Location, r.Latitude, r.Longitude, r.PropertyType, r.Option,
		strconv.Itoa(r.Guests), strconv.Itoa(r.Bedrooms), strconv.Itoa(r.Bathrooms), strconv.Itoa(r.Beds),
		strconv.FormatFloat(r.BasePrice, 'g', -1, 64),
		strings.Join(r.Amenities, ","),
		r.Seasonality, r.BedType, r.Neighborhood, r.GuestType,
		r.Title, r.Description,
		strings.Join(r.Images, ","),
	} {
		b.WriteString(part)
		b.WriteByte(0x1f)
	}
	return b.String()
}
