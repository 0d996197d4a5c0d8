package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (products/shipping rates)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price INTEGER NOT NULL CHECK (price >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  variants_json TEXT NOT NULL DEFAULT '{}',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

-- One row per (product, variant selection). Same product with different
-- variant picks stays a separate line.
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  price INTEGER NOT NULL CHECK (price >= 0),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  image_url TEXT NOT NULL DEFAULT '',
  variants_json TEXT NOT NULL DEFAULT '{}',
  created_at TEXT,
  updated_at TEXT,
  UNIQUE(cart_id, product_id, variants_json)
);

-- Shipping rates; uniqueness per region enforced here, not by a
-- read-then-write check.
CREATE TABLE IF NOT EXISTS shipping_rates(
  id TEXT PRIMARY KEY,
  prefecture TEXT NOT NULL,
  prefecture_en TEXT NOT NULL,
  region TEXT NOT NULL UNIQUE,
  rate INTEGER NOT NULL CHECK (rate >= 0),
  estimated_days TEXT NOT NULL DEFAULT '3-5 days',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT,
  session_id TEXT,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  prefecture TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  address TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_notes TEXT NOT NULL DEFAULT '',
  shipping_fee INTEGER NOT NULL DEFAULT 0,
  total_price INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  variants_json TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Payment proofs
CREATE TABLE IF NOT EXISTS payment_proofs(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  invoice_id TEXT NOT NULL,
  method TEXT NOT NULL,
  proof_url TEXT NOT NULL,
  uploaded_at TEXT DEFAULT CURRENT_TIMESTAMP,
  status TEXT NOT NULL DEFAULT 'awaiting',
  notes TEXT NOT NULL DEFAULT '',
  verified_at TEXT NOT NULL DEFAULT '',
  rejected_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_proofs_invoice  ON payment_proofs(invoice_id);
CREATE INDEX IF NOT EXISTS idx_proofs_uploaded ON payment_proofs(uploaded_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products and shipping rates")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,price,image_url,variants_json) VALUES
	  ('indomie-goreng','Indomie Goreng (1 dus)',1800,'products/indomie-goreng/main.jpg','{"level":["original","pedas"]}'),
	  ('sambal-abc','Sambal ABC 335ml',550,'products/sambal-abc/main.jpg','{}'),
	  ('kecap-bango','Kecap Manis Bango 600ml',980,'products/kecap-bango/main.jpg','{}'),
	  ('rendang-instan','Bumbu Rendang Instan',420,'products/rendang-instan/main.jpg','{"ukuran":["40g","90g"]}')`)

	tx.MustExec(`INSERT INTO shipping_rates(id,prefecture,prefecture_en,region,rate,estimated_days) VALUES
	  ('rate-tokyo','Tokyo (東京都)','Tokyo','tokyo',800,'1-2 days'),
	  ('rate-osaka','Osaka (大阪府)','Osaka','osaka',900,'2-3 days'),
	  ('rate-aichi','Aichi (愛知県)','Aichi','aichi',900,'3-5 days')`)

	return tx.Commit()
}

// seedUsers ensures one USER and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-dewi", "dewi@warungjp.test", "Dewi", "USER", "Passw0rd!"),
		mk("u-admin", "admin@warungjp.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
