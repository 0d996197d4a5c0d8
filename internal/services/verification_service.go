package services

import (
	"database/sql"
	"errors"
	"fmt"

	"warungjp/internal/domain"
	"warungjp/internal/repos"
)

// VerificationService reviews uploaded payment proofs and mirrors the
// verdict onto the linked order when one exists.
type VerificationService struct {
	Proofs *repos.ProofRepo
	Orders *repos.OrderRepo
}

func NewVerificationService(proofs *repos.ProofRepo, orders *repos.OrderRepo) *VerificationService {
	return &VerificationService{Proofs: proofs, Orders: orders}
}

func (s *VerificationService) List(status, q string) ([]domain.PaymentProof, error) {
	return s.Proofs.List(status, q)
}

// Verify marks the proof verified. The linked order, looked up directly by
// its id, gets payment_status=verified; a placeholder or dangling invoice
// id only updates the proof.
func (s *VerificationService) Verify(proofID string) error {
	proof, err := s.Proofs.Get(proofID)
	if err != nil {
		return fmt.Errorf("load payment proof: %w", err)
	}

	if err := s.Proofs.MarkVerified(proofID); err != nil {
		return fmt.Errorf("verify payment proof: %w", err)
	}

	return s.mirror(proof.InvoiceID, domain.PaymentVerified, "")
}

func (s *VerificationService) Reject(proofID, reason string) error {
	proof, err := s.Proofs.Get(proofID)
	if err != nil {
		return fmt.Errorf("load payment proof: %w", err)
	}

	if err := s.Proofs.MarkRejected(proofID, reason); err != nil {
		return fmt.Errorf("reject payment proof: %w", err)
	}

	return s.mirror(proof.InvoiceID, domain.PaymentRejected, reason)
}

func (s *VerificationService) mirror(invoiceID, status, notes string) error {
	if invoiceID == "" || invoiceID == domain.PlaceholderInvoiceID {
		return nil
	}
	err := s.Orders.UpdatePaymentStatus(invoiceID, status, notes)
	if errors.Is(err, sql.ErrNoRows) {
		// Proof points at an order that no longer exists; the proof-side
		// update already happened and stands on its own.
		return nil
	}
	return err
}
