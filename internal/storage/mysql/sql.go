package mysql

// Corpus rows keep latitude/longitude as text; normalization owns the
// numeric coercion.
const insertListingsPrefix = `
INSERT INTO listings
  (location, latitude, longitude, property_type, room_option, guests, bedrooms,
   bathrooms, beds, base_price, amenities, seasonality, bed_type, neighborhood,
   guest_type, title, description, images)
VALUES `

const loadCorpusSQL = `
SELECT
  location, latitude, longitude, property_type, room_option, guests, bedrooms,
  bathrooms, beds, base_price, amenities, seasonality, bed_type, neighborhood,
  guest_type, title, description, images
FROM listings
ORDER BY id
`

const insertSuggestionSQL = `
INSERT INTO suggestions
  (id, location, latitude, longitude, property_type, room_option, guests,
   bedrooms, bathrooms, beds, base_price, amenities, seasonality, bed_type,
   neighborhood, guest_type, title, description, sentiment, suggested_price,
   nearest_price)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getSuggestionSQL = `
SELECT
  id, location, latitude, longitude, property_type, room_option, guests,
  bedrooms, bathrooms, beds, base_price, amenities, seasonality, bed_type,
  neighborhood, guest_type, title, description, sentiment, suggested_price,
  nearest_price
FROM suggestions
WHERE id = ?
`
