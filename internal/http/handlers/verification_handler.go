package handlers

import (
	"database/sql"
	"errors"

	"warungjp/internal/domain"
	applog "warungjp/internal/log"
	"warungjp/internal/orderfeed"
	"warungjp/internal/services"
	"warungjp/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type VerificationHandler struct {
	Verify    *services.VerificationService
	AdminFeed *orderfeed.Feed
}

func (h *VerificationHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", domain.ProofAwaiting, domain.ProofVerified, domain.ProofRejected:
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid proof status")
	}
	q := validate.Q(c.Query("q"))
	proofs, err := h.Verify.List(status, q)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load payment proofs")
	}
	if proofs == nil {
		proofs = []domain.PaymentProof{}
	}
	return c.JSON(proofs)
}

func (h *VerificationHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing proof id")
	}
	if err := h.Verify.Verify(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "payment proof not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not verify payment")
	}
	applog.Audit(c, "admin.payment.verified", map[string]any{"proof_id": id})
	h.AdminFeed.Invalidate()
	return c.JSON(fiber.Map{"ok": true})
}

func (h *VerificationHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing proof id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Verify.Reject(id, body.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "payment proof not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not reject payment")
	}
	applog.Audit(c, "admin.payment.rejected", map[string]any{"proof_id": id, "reason": body.Reason})
	h.AdminFeed.Invalidate()
	return c.JSON(fiber.Map{"ok": true})
}
