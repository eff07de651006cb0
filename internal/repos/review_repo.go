package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"artstore/internal/domain"
)

type ReviewRepo struct{ db sqlx.ExtContext }

func NewReviewRepo(db sqlx.ExtContext) *ReviewRepo { return &ReviewRepo{db: db} }

type reviewRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	UserID    string `db:"user_id"`
	Author    string `db:"author"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r reviewRow) toDomain() domain.Review {
	rv := domain.Review{
		ID: r.ID, ProductID: r.ProductID, UserID: r.UserID,
		Author: r.Author, Text: r.Body, CreatedAt: parseTime(r.CreatedAt),
	}
	if r.UpdatedAt != "" {
		ts := parseTime(r.UpdatedAt)
		rv.UpdatedAt = &ts
	}
	return rv
}

const reviewSelect = `
	SELECT rv.id, rv.product_id, rv.user_id, COALESCE(u.name,'') AS author, rv.body, rv.created_at,
	       COALESCE(rv.updated_at,'') AS updated_at
	FROM reviews rv LEFT JOIN users u ON u.id = rv.user_id`

// Create stores rv; ID must already be set. CreatedAt is filled in.
func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	ts := now()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews(id, product_id, user_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`, rv.ID, rv.ProductID, rv.UserID, rv.Text, ts); err != nil {
		return err
	}
	rv.CreatedAt = parseTime(ts)
	return nil
}

func (r *ReviewRepo) Get(ctx context.Context, id string) (domain.Review, error) {
	var row reviewRow
	err := sqlx.GetContext(ctx, r.db, &row, reviewSelect+` WHERE rv.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrReviewNotFound
	}
	return row.toDomain(), err
}

// ListByProduct returns reviews newest first.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	var rows []reviewRow
	if err := sqlx.SelectContext(ctx, r.db, &rows,
		reviewSelect+` WHERE rv.product_id = ? ORDER BY rv.created_at DESC, rv.rowid DESC`, productID); err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateBody replaces the text of review id and stamps updated_at.
func (r *ReviewRepo) UpdateBody(ctx context.Context, id, body string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET body = ?, updated_at = ? WHERE id = ?`, body, now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
