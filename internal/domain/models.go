package domain

// Order lifecycle. Orders are created as pending and only move forward
// through admin actions.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Payment status carried inside the order's customer block.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment-proof review states.
const (
	ProofAwaiting = "awaiting"
	ProofVerified = "verified"
	ProofRejected = "rejected"
)

// The three settlement methods the store accepts. The strings double as
// display labels in the order summary, so they stay verbatim.
const (
	MethodCOD        = "COD (Cash on Delivery)"
	MethodBankRupiah = "Bank Transfer (Rupiah)"
	MethodBankYucho  = "Bank Transfer (Yucho / ゆうちょ銀行)"
)

func ValidPaymentMethod(m string) bool {
	return m == MethodCOD || m == MethodBankRupiah || m == MethodBankYucho
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Product struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Price        int64  `db:"price" json:"price"` // yen
	ImageURL     string `db:"image_url" json:"image_url"`
	VariantsJSON string `db:"variants_json" json:"variants_json"` // variant type -> allowed values
	Active       bool   `db:"active" json:"active"`
	CreatedAt    string `db:"created_at" json:"created_at"`
	UpdatedAt    string `db:"updated_at" json:"updated_at"`
}

// CartItem is one line of a cart. Name/price are snapshots taken when the
// line was added, not live product references.
type CartItem struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Price     int64             `json:"price"`
	Quantity  int               `json:"quantity"`
	ImageURL  string            `json:"image_url,omitempty"`
	Variants  map[string]string `json:"selected_variants,omitempty"`
}

type CustomerInfo struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Prefecture    string `json:"prefecture"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	PaymentNotes  string `json:"payment_notes,omitempty"`
}

type Order struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id,omitempty"` // empty for guest checkout
	Items       []CartItem   `json:"items"`
	TotalPrice  int64        `json:"total_price"` // subtotal + shipping fee
	ShippingFee int64        `json:"shipping_fee"`
	Customer    CustomerInfo `json:"customer_info"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

type ShippingRate struct {
	ID            string `db:"id" json:"id"`
	Prefecture    string `db:"prefecture" json:"prefecture"`       // localized label
	PrefectureEN  string `db:"prefecture_en" json:"prefecture_en"` // romanized label
	Region        string `db:"region" json:"region"`               // slug key, unique
	Rate          int64  `db:"rate" json:"rate"`
	EstimatedDays string `db:"estimated_days" json:"estimated_days"`
	CreatedAt     string `db:"created_at" json:"created_at"`
	UpdatedAt     string `db:"updated_at" json:"updated_at"`
}

// PaymentProof is an uploaded transfer receipt awaiting admin review.
// InvoiceID starts as the placeholder sentinel and is patched to the real
// order id right after order creation.
type PaymentProof struct {
	ID         string `db:"id" json:"id"`
	UserID     string `db:"user_id" json:"user_id,omitempty"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	InvoiceID  string `db:"invoice_id" json:"invoice_id"`
	Method     string `db:"method" json:"method"`
	ProofURL   string `db:"proof_url" json:"proof_url"`
	UploadedAt string `db:"uploaded_at" json:"uploaded_at"`
	Status     string `db:"status" json:"status"`
	Notes      string `db:"notes" json:"notes,omitempty"`
	VerifiedAt string `db:"verified_at" json:"verified_at,omitempty"`
	RejectedAt string `db:"rejected_at" json:"rejected_at,omitempty"`
}

// PlaceholderInvoiceID marks a proof uploaded before its order exists.
const PlaceholderInvoiceID = "temp_invoice_id"
