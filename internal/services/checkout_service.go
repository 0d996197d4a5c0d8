package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"warungjp/internal/domain"
	"warungjp/internal/repos"
	"warungjp/internal/storage"
	"warungjp/internal/validate"
	"warungjp/internal/whatsapp"
)

// MaxProofSize caps payment-proof uploads at 10MB.
const MaxProofSize = 10 << 20

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrNoShippingRate = errors.New("no shipping rate configured for region")
	ErrProofRequired  = errors.New("payment proof required before submitting")
	ErrProofTooLarge  = errors.New("payment proof exceeds size limit")
)

// ValidationError carries field-level messages; the form is re-shown and
// nothing is persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid checkout input: " + strings.Join(keys, ", ")
}

type CheckoutInput struct {
	FullName      string
	Phone         string
	Email         string
	Region        string // prefecture region key, e.g. "tokyo"
	City          string
	PostalCode    string
	Address       string
	Notes         string
	PaymentMethod string
	// HasPaid is the explicit "I have paid" confirmation; it can only be
	// set after a proof file is attached.
	HasPaid bool
}

// ProofUpload is the attached transfer receipt.
type ProofUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type CheckoutResult struct {
	Order       domain.Order `json:"order"`
	ProofID     string       `json:"proof_id,omitempty"`
	WhatsAppURL string       `json:"whatsapp_url"`
}

type CheckoutService struct {
	Carts    *repos.CartRepo
	Orders   *repos.OrderRepo
	Proofs   *repos.ProofRepo
	Shipping *ShippingService
	Store    storage.Store
	// StorePhone is the WhatsApp number orders are handed off to.
	StorePhone string
}

func NewCheckoutService(carts *repos.CartRepo, orders *repos.OrderRepo, proofs *repos.ProofRepo,
	shipping *ShippingService, store storage.Store, storePhone string) *CheckoutService {
	return &CheckoutService{
		Carts: carts, Orders: orders, Proofs: proofs,
		Shipping: shipping, Store: store, StorePhone: storePhone,
	}
}

func (in *CheckoutInput) validate() map[string]string {
	errs := map[string]string{}
	if _, ok := validate.Name(in.FullName); !ok {
		errs["full_name"] = "name must be at least 2 characters"
	}
	if _, ok := validate.Phone(in.Phone); !ok {
		errs["phone"] = "enter a valid WhatsApp number"
	}
	if _, ok := validate.Email(in.Email); !ok {
		errs["email"] = "enter a valid email address"
	}
	if _, ok := validate.Region(in.Region); !ok {
		errs["region"] = "choose a prefecture"
	}
	if _, ok := validate.City(in.City); !ok {
		errs["city"] = "area/city must be at least 2 characters"
	}
	if _, ok := validate.PostalCode(in.PostalCode); !ok {
		errs["postal_code"] = "postal code must be exactly 7 digits"
	}
	if _, ok := validate.Address(in.Address); !ok {
		errs["address"] = "address must be at least 10 characters"
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		errs["payment_method"] = "choose a payment method"
	}
	return errs
}

// Submit runs one checkout attempt: validate, resolve shipping, store the
// proof, create the order, link the proof, build the WhatsApp handoff and
// clear the cart. Any failure before order creation leaves cart and form
// untouched for a retry.
func (s *CheckoutService) Submit(sid, userID string, in CheckoutInput, proof *ProofUpload) (*CheckoutResult, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// Non-COD methods require a confirmed payment, which itself requires
	// an attached proof: no order is created without its receipt.
	if in.PaymentMethod != domain.MethodCOD {
		if proof == nil || !in.HasPaid {
			return nil, ErrProofRequired
		}
	}
	if proof != nil && proof.Size > MaxProofSize {
		return nil, ErrProofTooLarge
	}

	rate, found, err := s.Shipping.Lookup(in.Region)
	if err != nil {
		return nil, fmt.Errorf("resolve shipping rate: %w", err)
	}
	// A selected region with no configured rate blocks submission rather
	// than silently charging zero shipping.
	if !found {
		return nil, ErrNoShippingRate
	}

	cartID, err := s.Carts.EnsureCart(sid)
	if err != nil {
		return nil, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	total := Total(items) + rate.Rate

	paid := in.HasPaid && proof != nil
	paymentStatus := domain.PaymentPending
	if paid {
		paymentStatus = domain.PaymentPaid
	}

	// Proof first: an upload failure aborts before any order exists.
	var proofID string
	if proof != nil {
		proofID, err = s.storeProof(userID, in, proof)
		if err != nil {
			return nil, fmt.Errorf("upload payment proof: %w", err)
		}
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Items:       items,
		TotalPrice:  total,
		ShippingFee: rate.Rate,
		Status:      domain.OrderPending,
		Customer: domain.CustomerInfo{
			Name:          strings.TrimSpace(in.FullName),
			Phone:         strings.TrimSpace(in.Phone),
			Email:         strings.TrimSpace(in.Email),
			Prefecture:    rate.Prefecture,
			City:          strings.TrimSpace(in.City),
			PostalCode:    strings.TrimSpace(in.PostalCode),
			Address:       strings.TrimSpace(in.Address),
			Notes:         strings.TrimSpace(in.Notes),
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: paymentStatus,
		},
	}

	if err := s.Orders.Create(order, sid); err != nil {
		// The stored proof is orphaned here; admins can still match it by
		// payer name/email.
		return nil, fmt.Errorf("create order: %w", err)
	}

	if proofID != "" {
		if err := s.Proofs.LinkInvoice(proofID, order.ID); err != nil {
			return nil, fmt.Errorf("link payment proof: %w", err)
		}
	}

	created, err := s.Orders.Get(order.ID)
	if err != nil {
		// Fall back to the in-memory copy; the row is committed.
		created = order
	}

	waURL := whatsapp.Link(s.StorePhone, whatsapp.Message(created, paid))

	// Best-effort: a failed clear never undoes a placed order.
	_ = s.Carts.Clear(cartID)

	return &CheckoutResult{Order: created, ProofID: proofID, WhatsAppURL: waURL}, nil
}

func (s *CheckoutService) storeProof(userID string, in CheckoutInput, proof *ProofUpload) (string, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(proof.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		return "", fmt.Errorf("unsupported proof file type %q", ext)
	}

	rel := fmt.Sprintf("payment_proofs/%s/%d_%s%s",
		domain.PlaceholderInvoiceID, time.Now().Unix(), id, ext)
	url, err := s.Store.Save(rel, io.LimitReader(proof.Reader, MaxProofSize))
	if err != nil {
		return "", err
	}

	p := domain.PaymentProof{
		ID:        id,
		UserID:    userID,
		Name:      strings.TrimSpace(in.FullName),
		Email:     strings.TrimSpace(in.Email),
		InvoiceID: domain.PlaceholderInvoiceID,
		Method:    in.PaymentMethod,
		ProofURL:  url,
		Status:    domain.ProofAwaiting,
	}
	if err := s.Proofs.Create(p); err != nil {
		return "", err
	}
	return id, nil
}
