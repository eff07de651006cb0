package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"artstore/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, name, COALESCE(description,'') AS description, price, quantity,
    COALESCE(image_url,'') AS image_url, COALESCE(created_at,'') AS created_at`

// List returns products newest first; an empty catID lists every category.
func (r *ProductRepo) List(ctx context.Context, catID string, limit, offset int) ([]domain.Product, error) {
	where, args := `1=1`, []any{}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches q case-insensitively against name and description,
// optionally inside one category. Results are ordered by name.
func (r *ProductRepo) Search(ctx context.Context, q, catID string, limit, offset int) ([]domain.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description,'')) LIKE ? ESCAPE '\')`
	args := []any{pattern, pattern}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY name, id
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id)
	return ok, err
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id, category_id, name, description, price, quantity, image_url, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CategoryID, p.Name, p.Description, p.Price.String(), p.Quantity, p.ImageURL, now())
	return err
}

// UpdatePrice changes the catalog price. Orders already placed keep their snapshot.
func (r *ProductRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET price = ? WHERE id = ?`, price.String(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
