package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"stay_pricer/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertListings writes a batch of corpus rows in one multi-row statement.
func (r *Repo) InsertListings(ctx context.Context, rs []domain.RawRecord) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*18)
	for _, rec := range rs {
		amen, _ := json.Marshal(rec.Amenities)
		imgs, _ := json.Marshal(rec.Images)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rec.Location,
			rec.Latitude,
			rec.Longitude,
			rec.PropertyType,
			rec.Option,
			rec.Guests,
			rec.Bedrooms,
			rec.Bathrooms,
			rec.Beds,
			rec.BasePrice,
			string(amen),
			rec.Seasonality,
			rec.BedType,
			rec.Neighborhood,
			rec.GuestType,
			rec.Title,
			rec.Description,
			string(imgs),
		)
	}
	sqlStr := insertListingsPrefix + strings.Join(values, ",")
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// LoadCorpus returns every stored listing in insertion order.
func (r *Repo) LoadCorpus(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx, loadCorpusSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawRecord
	for rows.Next() {
		var rec domain.RawRecord
		var amenJSON, imgsJSON []byte
		if err := rows.Scan(
			&rec.Location,
			&rec.Latitude,
			&rec.Longitude,
			&rec.PropertyType,
			&rec.Option,
			&rec.Guests,
			&rec.Bedrooms,
			&rec.Bathrooms,
			&rec.Beds,
			&rec.BasePrice,
			&amenJSON,
			&rec.Seasonality,
			&rec.BedType,
			&rec.Neighborhood,
			&rec.GuestType,
			&rec.Title,
			&rec.Description,
			&imgsJSON,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(amenJSON, &rec.Amenities)
		_ = json.Unmarshal(imgsJSON, &rec.Images)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSuggestion persists an evaluated listing with its computed outputs.
func (r *Repo) SaveSuggestion(ctx context.Context, s domain.Suggestion) error {
	amen, _ := json.Marshal(s.Listing.Amenities)
	_, err := r.db.ExecContext(ctx, insertSuggestionSQL,
		s.ID,
		s.Listing.Location,
		s.Listing.Lat,
		s.Listing.Lon,
		s.Listing.PropertyType,
		s.Listing.Option,
		s.Listing.Guests,
		s.Listing.Bedrooms,
		s.Listing.Bathrooms,
		s.Listing.Beds,
		s.Listing.BasePrice,
		string(amen),
		s.Listing.Seasonality,
		s.Listing.BedType,
		s.Listing.Neighborhood,
		s.Listing.GuestType,
		s.Title,
		s.Listing.Description,
		s.Sentiment,
		s.SuggestedPrice,
		s.NearestPrice,
	)
	return err
}

// GetSuggestion reads one persisted suggestion back by id. The serving path
// never calls this; it exists for verification tooling and tests.
func (r *Repo) GetSuggestion(ctx context.Context, id string) (domain.Suggestion, error) {
	row := r.db.QueryRowContext(ctx, getSuggestionSQL, id)

	var s domain.Suggestion
	var amenJSON []byte
	if err := row.Scan(
		&s.ID,
		&s.Listing.Location,
		&s.Listing.Lat,
		&s.Listing.Lon,
		&s.Listing.PropertyType,
		&s.Listing.Option,
		&s.Listing.Guests,
		&s.Listing.Bedrooms,
		&s.Listing.Bathrooms,
		&s.Listing.Beds,
		&s.Listing.BasePrice,
		&amenJSON,
		&s.Listing.Seasonality,
		&s.Listing.BedType,
		&s.Listing.Neighborhood,
		&s.Listing.GuestType,
		&s.Title,
		&s.Listing.Description,
		&s.Sentiment,
		&s.SuggestedPrice,
		&s.NearestPrice,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Suggestion{}, domain.ErrNotFound
		}
		return domain.Suggestion{}, err
	}
	_ = json.Unmarshal(amenJSON, &s.Listing.Amenities)
	return s, nil
}
