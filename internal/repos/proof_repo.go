package repos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"warungjp/internal/domain"
)

type ProofRepo struct{ db *sqlx.DB }

func NewProofRepo(db *sqlx.DB) *ProofRepo { return &ProofRepo{db: db} }

const proofColumns = `
  id, user_id, name, email, invoice_id, method, proof_url,
  uploaded_at, status, notes, verified_at, rejected_at`

func (r *ProofRepo) Create(p domain.PaymentProof) error {
	_, err := r.db.Exec(`
	  INSERT INTO payment_proofs(id, user_id, name, email, invoice_id, method, proof_url, uploaded_at, status)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP,?)
	`, p.ID, p.UserID, p.Name, p.Email, p.InvoiceID, p.Method, p.ProofURL, p.Status)
	return err
}

func (r *ProofRepo) Get(id string) (domain.PaymentProof, error) {
	var p domain.PaymentProof
	err := r.db.Get(&p, `SELECT `+proofColumns+` FROM payment_proofs WHERE id = ?`, id)
	return p, err
}

// LinkInvoice patches the placeholder invoice id with the real order id.
func (r *ProofRepo) LinkInvoice(proofID, orderID string) error {
	res, err := r.db.Exec(`UPDATE payment_proofs SET invoice_id = ? WHERE id = ?`, orderID, proofID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List filters by status ("" means all) and a case-insensitive substring
// match over name, email and invoice id. Newest uploads first.
func (r *ProofRepo) List(status, q string) ([]domain.PaymentProof, error) {
	where := []string{"1=1"}
	args := []any{}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	if q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(invoice_id) LIKE ?)")
		args = append(args, needle, needle, needle)
	}

	var out []domain.PaymentProof
	err := r.db.Select(&out, `
	  SELECT `+proofColumns+` FROM payment_proofs
	  WHERE `+strings.Join(where, " AND ")+`
	  ORDER BY datetime(uploaded_at) DESC
	`, args...)
	return out, err
}

func (r *ProofRepo) MarkVerified(id string) error {
	res, err := r.db.Exec(`
	  UPDATE payment_proofs
	  SET status = ?, verified_at = datetime('now')
	  WHERE id = ?
	`, domain.ProofVerified, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProofRepo) MarkRejected(id, reason string) error {
	res, err := r.db.Exec(`
	  UPDATE payment_proofs
	  SET status = ?, notes = ?, rejected_at = datetime('now')
	  WHERE id = ?
	`, domain.ProofRejected, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
