package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"warungjp/internal/domain"
)

func addToCart(t *testing.T, app *fiber.App, sid, productID string, qty int) {
	t.Helper()
	resp, err := app.Test(jsonReq(http.MethodPost, "/cart", sid, map[string]any{
		"product_id": productID, "quantity": qty,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: status = %d", resp.StatusCode)
	}
}

type checkoutResp struct {
	Order       domain.Order `json:"order"`
	ProofID     string       `json:"proof_id"`
	WhatsAppURL string       `json:"whatsapp_url"`
}

func TestCheckoutCODFlow(t *testing.T) {
	app, _ := newTestApp(t)
	sid := "sid-flow-cod"

	addToCart(t, app, sid, "sambal-abc", 2)

	resp, err := app.Test(checkoutForm(t, sid, validCheckoutFields(), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: status = %d, want 201", resp.StatusCode)
	}
	var out checkoutResp
	decodeJSON(t, resp, &out)

	if out.Order.TotalPrice != 1900 { // 550*2 + 800 tokyo
		t.Fatalf("total = %d, want 1900", out.Order.TotalPrice)
	}
	if !strings.HasPrefix(out.WhatsAppURL, "https://wa.me/") {
		t.Fatalf("whatsapp url = %q", out.WhatsAppURL)
	}

	// The placing session can read its order back
	resp, err = app.Test(jsonReq(http.MethodGet, "/order/"+out.Order.ID, sid, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("own order: status = %d, want 200", resp.StatusCode)
	}

	// Another session cannot
	resp, err = app.Test(jsonReq(http.MethodGet, "/order/"+out.Order.ID, "sid-other", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign order: status = %d, want 404", resp.StatusCode)
	}

	// Cart is empty afterwards
	var cv struct {
		Items []domain.CartItem `json:"items"`
	}
	resp, err = app.Test(jsonReq(http.MethodGet, "/cart", sid, nil))
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, resp, &cv)
	if len(cv.Items) != 0 {
		t.Fatalf("cart not cleared, %d items left", len(cv.Items))
	}
}

func TestCheckoutValidationErrorsKeepForm(t *testing.T) {
	app, _ := newTestApp(t)
	sid := "sid-flow-invalid"

	addToCart(t, app, sid, "sambal-abc", 1)

	fields := validCheckoutFields()
	fields["postal_code"] = "160002" // six digits
	fields["address"] = "short"

	resp, err := app.Test(checkoutForm(t, sid, fields, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, resp, &out)
	if _, ok := out.Fields["postal_code"]; !ok {
		t.Fatalf("missing postal_code error: %v", out.Fields)
	}
	if _, ok := out.Fields["address"]; !ok {
		t.Fatalf("missing address error: %v", out.Fields)
	}

	// Cart kept for retry
	var cv struct {
		Items []domain.CartItem `json:"items"`
	}
	resp, err = app.Test(jsonReq(http.MethodGet, "/cart", sid, nil))
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, resp, &cv)
	if len(cv.Items) != 1 {
		t.Fatalf("cart should survive a failed checkout, has %d items", len(cv.Items))
	}
}

func TestCheckoutBankTransferVerificationFlow(t *testing.T) {
	app, db := newTestApp(t)
	sid := "sid-flow-bank"
	bindSession(t, db, "sid-admin2", "u-admin")

	addToCart(t, app, sid, "kecap-bango", 1)

	fields := validCheckoutFields()
	fields["payment_method"] = "Bank Transfer (Yucho / ゆうちょ銀行)"
	fields["has_paid"] = "true"

	// Missing proof blocks
	resp, err := app.Test(checkoutForm(t, sid, fields, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no proof: status = %d, want 400", resp.StatusCode)
	}

	// With proof it goes through
	resp, err = app.Test(checkoutForm(t, sid, fields, "receipt.png"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: status = %d, want 201", resp.StatusCode)
	}
	var out checkoutResp
	decodeJSON(t, resp, &out)
	if out.ProofID == "" {
		t.Fatal("expected proof id in response")
	}

	// Proof shows up in the admin review queue
	resp, err = app.Test(jsonReq(http.MethodGet, "/admin/payments?status=awaiting", "sid-admin2", nil))
	if err != nil {
		t.Fatal(err)
	}
	var proofs []domain.PaymentProof
	decodeJSON(t, resp, &proofs)
	if len(proofs) != 1 || proofs[0].InvoiceID != out.Order.ID {
		t.Fatalf("review queue = %+v", proofs)
	}

	// Verifying mirrors onto the order
	resp, err = app.Test(jsonReq(http.MethodPost, "/admin/payments/"+out.ProofID+"/verify", "sid-admin2", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status = %d, want 200", resp.StatusCode)
	}

	var o domain.Order
	resp, err = app.Test(jsonReq(http.MethodGet, "/order/"+out.Order.ID, sid, nil))
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, resp, &o)
	if o.Customer.PaymentStatus != domain.PaymentVerified {
		t.Fatalf("payment status = %q, want verified", o.Customer.PaymentStatus)
	}
}
