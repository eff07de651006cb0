package repos

import (
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite database, applies migrations and seeds demo data.
// File databases run in WAL mode and take the write lock at BEGIN so that
// concurrent checkouts queue on busy_timeout instead of failing mid-transaction.
func OpenDB(dsn string) (*sqlx.DB, error) {
	full, memory := sqliteDSN(dsn)
	db, err := sqlx.Open("sqlite", full)
	if err != nil {
		return nil, err
	}
	if memory {
		// each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if err := seedUsers(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return db, nil
}

func sqliteDSN(dsn string) (string, bool) {
	memory := strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
	params := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)", "_txlock=immediate"}
	if !memory {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&"), memory
}

// seedCatalog inserts the demo categories and products if they don't exist yet.
// Existing stock levels and prices are left alone.
func seedCatalog(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO categories(id,name) VALUES
	  ('paints','Paints'),
	  ('brushes','Brushes'),
	  ('canvas','Canvas & Paper')
	  ON CONFLICT(id) DO NOTHING`); err != nil {
		return err
	}

	res, err := tx.Exec(`INSERT INTO products(id,category_id,name,description,price,quantity,image_url) VALUES
	  ('oil-set-12','paints','Oil Paint Set (12 tubes)','Artist grade oils, 37ml tubes','49.99',25,'products/oil-set-12/main.jpg'),
	  ('acrylic-white','paints','Titanium White Acrylic 500ml','Heavy body acrylic','14.50',40,'products/acrylic-white/main.jpg'),
	  ('watercolor-pan','paints','Watercolor Pan Set','24 half pans with travel case','32.00',12,'products/watercolor-pan/main.jpg'),
	  ('sable-round-6','brushes','Kolinsky Sable Round #6','Hand made watercolor brush','27.75',8,'products/sable-round-6/main.jpg'),
	  ('synthetic-flat-set','brushes','Synthetic Flat Brush Set','Five flats for acrylic and oil','18.20',30,'products/synthetic-flat-set/main.jpg'),
	  ('canvas-40x50','canvas','Stretched Canvas 40x50cm','Triple primed cotton','11.90',60,'products/canvas-40x50/main.jpg'),
	  ('sketchbook-a4','canvas','A4 Sketchbook','120gsm, 80 sheets','9.99',0,'products/sketchbook-a4/main.jpg')
	  ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("[seed] inserted %d demo products", n)
	}
	return tx.Commit()
}

// seedUsers ensures two customers and one admin exist.
func seedUsers(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	type u struct{ ID, Email, Name, Role string }
	users := []u{
		{"u-alice", "alice@artstore.test", "Alice", "USER"},
		{"u-bob", "bob@artstore.test", "Bob", "USER"},
		{"u-admin", "admin@artstore.test", "Admin", "ADMIN"},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, string(hash), x.Role); err != nil {
			return err
		}
	}
	log.Println("[seed] inserted demo users")
	return tx.Commit()
}

// DemoPassword is the password of every seeded account.
const DemoPassword = "Passw0rd!"
