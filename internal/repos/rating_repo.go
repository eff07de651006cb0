package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"artstore/internal/domain"
)

type RatingRepo struct{ db sqlx.ExtContext }

func NewRatingRepo(db sqlx.ExtContext) *RatingRepo { return &RatingRepo{db: db} }

type ratingRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	UserID    string `db:"user_id"`
	Value     int    `db:"value"`
	CreatedAt string `db:"created_at"`
}

func (r ratingRow) toDomain() domain.Rating {
	return domain.Rating{ID: r.ID, ProductID: r.ProductID, UserID: r.UserID, Value: r.Value, CreatedAt: parseTime(r.CreatedAt)}
}

// Upsert stores the user's rating for a product, replacing an earlier one.
func (r *RatingRepo) Upsert(ctx context.Context, userID, productID string, value int) (domain.Rating, error) {
	ts := now()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings(id, product_id, user_id, value, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
		uuid.NewString(), productID, userID, value, ts); err != nil {
		return domain.Rating{}, err
	}
	var row ratingRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, product_id, user_id, value, created_at
		FROM ratings WHERE user_id = ? AND product_id = ?`, userID, productID)
	return row.toDomain(), err
}

func (r *RatingRepo) Get(ctx context.Context, id string) (domain.Rating, error) {
	var row ratingRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, product_id, user_id, value, created_at FROM ratings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rating{}, domain.ErrRatingNotFound
	}
	return row.toDomain(), err
}

func (r *RatingRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Rating, error) {
	var rows []ratingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, product_id, user_id, value, created_at
		FROM ratings WHERE product_id = ?
		ORDER BY created_at DESC, rowid DESC`, productID); err != nil {
		return nil, err
	}
	out := make([]domain.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Summary returns count and mean value; Average is 0 when there are no ratings.
func (r *RatingRepo) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	var row struct {
		Count   int     `db:"n"`
		Average float64 `db:"avg"`
	}
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT COUNT(*) AS n, COALESCE(AVG(value), 0.0) AS avg
		FROM ratings WHERE product_id = ?`, productID)
	return domain.RatingSummary{ProductID: productID, Count: row.Count, Average: row.Average}, err
}

func (r *RatingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}
