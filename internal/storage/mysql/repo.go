package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format("2006-01-02")
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertHotels writes the whole batch in one transaction; any failure rolls
// every row back.
func (r *Repo) InsertHotels(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, h := range hs {
		if _, err := tx.ExecContext(ctx, insertHotelSQL, h.Name, h.Brand, h.LocationID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// InsertReviews writes the whole batch in one transaction. Duplicate
// review_id rows are the caller's problem to filter; the UNIQUE key turns a
// missed duplicate into a rollback rather than a second row.
func (r *Repo) InsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, rv := range rs {
		if _, err := tx.ExecContext(ctx, insertReviewSQL,
			rv.LocationID,
			rv.ReviewID,
			rv.PublishedDate.UTC(),
			rv.Rating,
			rv.Text,
			rv.Title,
			valStr(rv.TripType),
			valDate(rv.TravelDate),
			rv.HelpfulVotes,
			valStr(rv.Username),
			valStr(rv.URL),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) HotelByLocation(ctx context.Context, locationID int64) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRowContext(ctx, getHotelSQL, locationID).Scan(&h.Name, &h.Brand, &h.LocationID)
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.Name, &h.Brand, &h.LocationID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviews(ctx context.Context, locationID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *Repo) LatestReviews(ctx context.Context, locationID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, latestReviewsSQL, locationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *Repo) ReviewExists(ctx context.Context, reviewID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, reviewExistsSQL, reviewID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			tripType   sql.NullString
			travelDate sql.NullTime
			username   sql.NullString
			u          sql.NullString
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.LocationID,
			&rv.ReviewID,
			&rv.PublishedDate,
			&rv.Rating,
			&rv.Text,
			&rv.Title,
			&tripType,
			&travelDate,
			&rv.HelpfulVotes,
			&username,
			&u,
		); err != nil {
			return nil, err
		}
		if tripType.Valid {
			s := tripType.String
			rv.TripType = &s
		}
		if travelDate.Valid {
			t := travelDate.Time
			rv.TravelDate = &t
		}
		if username.Valid {
			s := username.String
			rv.Username = &s
		}
		if u.Valid {
			s := u.String
			rv.URL = &s
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
