package mysql

const insertHotelSQL = `
INSERT INTO hotels (name, brand, location_id)
VALUES (?, ?, ?)
`

// text is a reserved word; keep it backtick-quoted everywhere.
const insertReviewSQL = "INSERT INTO reviews\n" +
	"  (location_id, review_id, published_date, rating, `text`, title, trip_type, travel_date, helpful_votes, username, url)\n" +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const reviewExistsSQL = `
SELECT 1 FROM reviews WHERE review_id = ? LIMIT 1
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getHotelSQL = `
SELECT name, brand, location_id
FROM hotels
WHERE location_id = ?
`

const listHotelsSQL = `
SELECT name, brand, location_id
FROM hotels
ORDER BY name
`

const listReviewsSQL = "SELECT\n" +
	"  id, location_id, review_id, published_date, rating, `text`, title,\n" +
	"  trip_type, travel_date, helpful_votes, username, url\n" +
	"FROM reviews\n" +
	"WHERE location_id = ?\n" +
	"ORDER BY published_date DESC, id DESC"

const latestReviewsSQL = listReviewsSQL + "\nLIMIT ?"
