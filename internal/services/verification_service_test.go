package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"warungjp/internal/domain"
	"warungjp/internal/repos"
	"warungjp/internal/services"
)

func seedVerification(t *testing.T, db *sqlx.DB, invoiceID string) (*services.VerificationService, *repos.OrderRepo, string) {
	t.Helper()
	orderRepo := repos.NewOrderRepo(db)
	proofRepo := repos.NewProofRepo(db)

	if invoiceID != "" && invoiceID != domain.PlaceholderInvoiceID {
		order := domain.Order{
			ID:          invoiceID,
			TotalPrice:  1350,
			ShippingFee: 800,
			Status:      domain.OrderPending,
			Items: []domain.CartItem{
				{ID: "ci-1", ProductID: "sambal-abc", Name: "Sambal ABC 335ml", Price: 550, Quantity: 1},
			},
			Customer: domain.CustomerInfo{
				Name: "Dewi Lestari", Phone: "+62 812-3456-7890", Email: "dewi@warungjp.test",
				Prefecture: "Tokyo (東京都)", City: "Shinjuku", PostalCode: "1600022",
				Address:       "2-8-1 Nishishinjuku, Apt 501",
				PaymentMethod: domain.MethodBankYucho, PaymentStatus: domain.PaymentPaid,
			},
		}
		if err := orderRepo.Create(order, "sid-verify"); err != nil {
			t.Fatal(err)
		}
	}

	proofID := "proof-1"
	err := proofRepo.Create(domain.PaymentProof{
		ID: proofID, Name: "Dewi Lestari", Email: "dewi@warungjp.test",
		InvoiceID: invoiceID, Method: domain.MethodBankYucho,
		ProofURL: "http://localhost:8080/media/payment_proofs/x.png",
		Status:   domain.ProofAwaiting,
	})
	if err != nil {
		t.Fatal(err)
	}

	return services.NewVerificationService(proofRepo, orderRepo), orderRepo, proofID
}

func TestVerifyMirrorsPaymentStatusOntoOrder(t *testing.T) {
	db := memdb(t)
	svc, orderRepo, proofID := seedVerification(t, db, "ord-1")

	if err := svc.Verify(proofID); err != nil {
		t.Fatal(err)
	}

	proof, err := repos.NewProofRepo(db).Get(proofID)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Status != domain.ProofVerified {
		t.Fatalf("proof status = %q, want verified", proof.Status)
	}
	if proof.VerifiedAt == "" {
		t.Fatal("verified_at not stamped")
	}

	o, err := orderRepo.Get("ord-1")
	if err != nil {
		t.Fatal(err)
	}
	if o.Customer.PaymentStatus != domain.PaymentVerified {
		t.Fatalf("order payment status = %q, want verified", o.Customer.PaymentStatus)
	}
}

func TestRejectRecordsReasonOnProofAndOrder(t *testing.T) {
	db := memdb(t)
	svc, orderRepo, proofID := seedVerification(t, db, "ord-2")

	if err := svc.Reject(proofID, "amount does not match"); err != nil {
		t.Fatal(err)
	}

	proof, err := repos.NewProofRepo(db).Get(proofID)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Status != domain.ProofRejected {
		t.Fatalf("proof status = %q, want rejected", proof.Status)
	}
	if proof.Notes != "amount does not match" {
		t.Fatalf("proof notes = %q", proof.Notes)
	}

	o, err := orderRepo.Get("ord-2")
	if err != nil {
		t.Fatal(err)
	}
	if o.Customer.PaymentStatus != domain.PaymentRejected {
		t.Fatalf("order payment status = %q, want rejected", o.Customer.PaymentStatus)
	}
	if o.Customer.PaymentNotes != "amount does not match" {
		t.Fatalf("order payment notes = %q", o.Customer.PaymentNotes)
	}
}

// A proof whose invoice never got patched past the placeholder can still be
// reviewed; there is simply no order row to mirror onto.
func TestVerifyPlaceholderInvoiceSkipsMirror(t *testing.T) {
	db := memdb(t)
	svc, _, proofID := seedVerification(t, db, domain.PlaceholderInvoiceID)

	if err := svc.Verify(proofID); err != nil {
		t.Fatal(err)
	}
	proof, err := repos.NewProofRepo(db).Get(proofID)
	if err != nil {
		t.Fatal(err)
	}
	if proof.Status != domain.ProofVerified {
		t.Fatalf("proof status = %q, want verified", proof.Status)
	}
}

func TestVerifyDanglingInvoiceTolerated(t *testing.T) {
	db := memdb(t)
	orderRepo := repos.NewOrderRepo(db)
	proofRepo := repos.NewProofRepo(db)
	err := proofRepo.Create(domain.PaymentProof{
		ID: "proof-dangling", Name: "X", Email: "x@example.com",
		InvoiceID: "ord-deleted", Method: domain.MethodBankRupiah,
		ProofURL: "http://localhost:8080/media/p.png", Status: domain.ProofAwaiting,
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := services.NewVerificationService(proofRepo, orderRepo)
	if err := svc.Verify("proof-dangling"); err != nil {
		t.Fatalf("dangling invoice should not fail verification: %v", err)
	}
}
