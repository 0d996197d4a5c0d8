package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"warungjp/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartItemRow struct {
	ID           string `db:"id"`
	ProductID    string `db:"product_id"`
	Name         string `db:"name"`
	Price        int64  `db:"price"`
	Qty          int    `db:"qty"`
	ImageURL     string `db:"image_url"`
	VariantsJSON string `db:"variants_json"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	_, err = r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// encodeVariants serializes a variant selection canonically; json.Marshal
// sorts map keys, so equal selections always produce equal strings.
func encodeVariants(v map[string]string) string {
	if len(v) == 0 {
		return "{}"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// UpsertItem adds qty to the matching (product, variants) line or creates it.
func (r *CartRepo) UpsertItem(cartID string, p domain.Product, qty int, variants map[string]string) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,name,price,qty,image_url,variants_json,created_at)
		VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id,variants_json) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), cartID, p.ID, p.Name, p.Price, qty, p.ImageURL, encodeVariants(variants))
	return err
}

func (r *CartRepo) SetQty(cartID, itemID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND id = ?
	`, qty, cartID, itemID)
	return err
}

func (r *CartRepo) RemoveItem(cartID, itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND id = ?`, cartID, itemID)
	return err
}

func (r *CartRepo) Items(cartID string) ([]domain.CartItem, error) {
	var rows []cartItemRow
	if err := r.db.Select(&rows, `
	  SELECT id, product_id, name, price, qty, image_url, variants_json
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY created_at, id
	`, cartID); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, it := range rows {
		item := domain.CartItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Qty,
			ImageURL:  it.ImageURL,
		}
		if it.VariantsJSON != "" && it.VariantsJSON != "{}" {
			_ = json.Unmarshal([]byte(it.VariantsJSON), &item.Variants)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
