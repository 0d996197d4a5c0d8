package handlers

import (
	"warungjp/internal/services"
	"warungjp/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(cv)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var body struct {
		ProductID string            `json:"product_id"`
		Quantity  int               `json:"quantity"`
		Variants  map[string]string `json:"selected_variants"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	productID, ok := validate.ID(body.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing product_id")
	}
	if body.Quantity < 1 {
		body.Quantity = 1
	}
	if err := h.Cart.Add(sid, productID, body.Quantity, body.Variants); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "could not add to cart")
	}
	return h.View(c)
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing item id")
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Cart.UpdateQuantity(sid, itemID, body.Quantity); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "could not update quantity")
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing item id")
	}
	if err := h.Cart.Remove(sid, itemID); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "could not remove item")
	}
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not clear cart")
	}
	return h.View(c)
}
