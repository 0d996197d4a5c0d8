package handlers

import (
	"errors"

	"warungjp/internal/domain"
	applog "warungjp/internal/log"
	"warungjp/internal/orderfeed"
	"warungjp/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Feeds    *orderfeed.Registry
}

// Submit accepts the checkout form as multipart/form-data with an optional
// "payment_proof" file part.
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	sid := ensureSID(c)

	in := services.CheckoutInput{
		FullName:      c.FormValue("full_name"),
		Phone:         c.FormValue("phone"),
		Email:         c.FormValue("email"),
		Region:        c.FormValue("region"),
		City:          c.FormValue("city"),
		PostalCode:    c.FormValue("postal_code"),
		Address:       c.FormValue("address"),
		Notes:         c.FormValue("notes"),
		PaymentMethod: c.FormValue("payment_method"),
		HasPaid:       c.FormValue("has_paid") == "true",
	}

	var proof *services.ProofUpload
	if fh, err := c.FormFile("payment_proof"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "could not read payment proof")
		}
		defer f.Close()
		proof = &services.ProofUpload{Filename: fh.Filename, Size: fh.Size, Reader: f}
	}

	var userID string
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		userID = u.ID
	}

	res, err := h.Checkout.Submit(sid, userID, in, proof)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return fieldErrors(c, verr.Fields)
		case errors.Is(err, services.ErrNoShippingRate):
			return jsonError(c, fiber.StatusBadRequest, "no shipping rate for the selected prefecture")
		case errors.Is(err, services.ErrProofRequired):
			return jsonError(c, fiber.StatusBadRequest, "payment proof is required for bank transfer")
		case errors.Is(err, services.ErrCartEmpty):
			return jsonError(c, fiber.StatusBadRequest, "cart is empty")
		case errors.Is(err, services.ErrProofTooLarge):
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "payment proof exceeds 10MB")
		default:
			applog.Error(c, "checkout.fail", err, nil)
			return jsonError(c, fiber.StatusInternalServerError, "checkout failed")
		}
	}

	applog.Audit(c, "checkout.order.created", map[string]any{
		"order_id": res.Order.ID,
		"method":   res.Order.Customer.PaymentMethod,
		"total":    res.Order.TotalPrice,
	})
	if h.Feeds != nil {
		h.Feeds.Invalidate(userID)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
