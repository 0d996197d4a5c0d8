package repos

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"warungjp/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	SessionID     string `db:"session_id"`
	CustomerName  string `db:"customer_name"`
	Phone         string `db:"phone"`
	Email         string `db:"email"`
	Prefecture    string `db:"prefecture"`
	City          string `db:"city"`
	PostalCode    string `db:"postal_code"`
	Address       string `db:"address"`
	Notes         string `db:"notes"`
	PaymentMethod string `db:"payment_method"`
	PaymentStatus string `db:"payment_status"`
	PaymentNotes  string `db:"payment_notes"`
	ShippingFee   int64  `db:"shipping_fee"`
	TotalPrice    int64  `db:"total_price"`
	Status        string `db:"status"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

const orderColumns = `
  id, COALESCE(user_id,'') AS user_id, COALESCE(session_id,'') AS session_id,
  customer_name, phone, email, prefecture, city, postal_code, address, notes,
  payment_method, payment_status, payment_notes, shipping_fee, total_price,
  status, created_at, COALESCE(updated_at,'') AS updated_at`

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:          row.ID,
		UserID:      row.UserID,
		TotalPrice:  row.TotalPrice,
		ShippingFee: row.ShippingFee,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Customer: domain.CustomerInfo{
			Name:          row.CustomerName,
			Phone:         row.Phone,
			Email:         row.Email,
			Prefecture:    row.Prefecture,
			City:          row.City,
			PostalCode:    row.PostalCode,
			Address:       row.Address,
			Notes:         row.Notes,
			PaymentMethod: row.PaymentMethod,
			PaymentStatus: row.PaymentStatus,
			PaymentNotes:  row.PaymentNotes,
		},
	}
}

// Create inserts the order header and its line items in one transaction.
// The assigned id is usable immediately for proof linking.
func (r *OrderRepo) Create(o domain.Order, sessionID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID any
	if o.UserID != "" {
		userID = o.UserID
	}
	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, session_id, customer_name, phone, email, prefecture, city,
	     postal_code, address, notes, payment_method, payment_status, payment_notes,
	     shipping_fee, total_price, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, userID, sessionID, o.Customer.Name, o.Customer.Phone, o.Customer.Email,
		o.Customer.Prefecture, o.Customer.City, o.Customer.PostalCode, o.Customer.Address,
		o.Customer.Notes, o.Customer.PaymentMethod, o.Customer.PaymentStatus,
		o.Customer.PaymentNotes, o.ShippingFee, o.TotalPrice, o.Status); err != nil {
		return err
	}

	for _, it := range o.Items {
		variants := "{}"
		if len(it.Variants) > 0 {
			b, _ := json.Marshal(it.Variants)
			variants = string(b)
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, price, qty, image_url, variants_json)
		  VALUES(?,?,?,?,?,?,?)
		`, o.ID, it.ProductID, it.Name, it.Price, it.Quantity, it.ImageURL, variants); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type orderItemRow struct {
	ProductID    string `db:"product_id"`
	Name         string `db:"name"`
	Price        int64  `db:"price"`
	Qty          int    `db:"qty"`
	ImageURL     string `db:"image_url"`
	VariantsJSON string `db:"variants_json"`
}

func (r *OrderRepo) items(orderID string) ([]domain.CartItem, error) {
	var rows []orderItemRow
	if err := r.db.Select(&rows, `
	  SELECT product_id, name, price, qty, image_url, variants_json
	  FROM order_items WHERE order_id = ?
	`, orderID); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, it := range rows {
		item := domain.CartItem{
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

// Get is a direct keyed lookup; order ids are known at creation time.
func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}
	o := row.toDomain()
	items, err := r.items(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

// SessionID returns the session an order was placed under, for ownership checks.
func (r *OrderRepo) SessionID(orderID string) (string, error) {
	var sid string
	err := r.db.Get(&sid, `SELECT COALESCE(session_id,'') FROM orders WHERE id = ?`, orderID)
	return sid, err
}

func (r *OrderRepo) listWhere(where string, args ...any) ([]domain.Order, error) {
	var rows []orderRow
	q := `SELECT ` + orderColumns + ` FROM orders ` + where + ` ORDER BY datetime(created_at) DESC`
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o := row.toDomain()
		items, err := r.items(row.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	return r.listWhere("")
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	return r.listWhere(`WHERE user_id = ?`, userID)
}

// ListBySession shows guest or pre-login orders tied to a session id.
func (r *OrderRepo) ListBySession(sessionID string) ([]domain.Order, error) {
	return r.listWhere(`WHERE session_id = ?`, sessionID)
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePaymentStatus mirrors a proof verdict onto the order. Returns
// sql.ErrNoRows when the id matches nothing; callers may ignore that.
func (r *OrderRepo) UpdatePaymentStatus(id, status, notes string) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET payment_status = ?, payment_notes = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, status, notes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
