package handlers

import (
	"database/sql"
	"errors"

	"warungjp/internal/repos"
	"warungjp/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Products *repos.ProductRepo
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	items, err := h.Products.List()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(items)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing product id")
	}
	p, err := h.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load product")
	}
	return c.JSON(p)
}
