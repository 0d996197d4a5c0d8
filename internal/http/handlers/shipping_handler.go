package handlers

import (
	"database/sql"
	"errors"

	applog "warungjp/internal/log"
	"warungjp/internal/repos"
	"warungjp/internal/services"
	"warungjp/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ShippingHandler struct {
	Shipping *services.ShippingService
}

func (h *ShippingHandler) List(c *fiber.Ctx) error {
	q := validate.Q(c.Query("q"))
	rates, err := h.Shipping.List(q)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load shipping rates")
	}
	return c.JSON(rates)
}

func (h *ShippingHandler) Lookup(c *fiber.Ctx) error {
	region, ok := validate.Region(c.Params("region"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid region")
	}
	rate, found, err := h.Shipping.Lookup(region)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not look up shipping rate")
	}
	if !found {
		return jsonError(c, fiber.StatusNotFound, "no shipping rate for this prefecture")
	}
	return c.JSON(rate)
}

type shippingBody struct {
	Prefecture    string `json:"prefecture"`
	PrefectureEN  string `json:"prefecture_en"`
	Rate          int64  `json:"rate"`
	EstimatedDays string `json:"estimated_days"`
}

func (h *ShippingHandler) Add(c *fiber.Ctx) error {
	var body shippingBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Prefecture) < 1 || len(body.PrefectureEN) < 1 {
		return jsonError(c, fiber.StatusBadRequest, "prefecture name is required")
	}
	if body.Rate < 0 {
		return jsonError(c, fiber.StatusBadRequest, "rate must not be negative")
	}
	rate, err := h.Shipping.Add(body.Prefecture, body.PrefectureEN, body.Rate, body.EstimatedDays)
	if errors.Is(err, repos.ErrRegionExists) {
		return jsonError(c, fiber.StatusConflict, "a rate for this prefecture already exists")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not add shipping rate")
	}
	applog.Audit(c, "admin.shipping.add", map[string]any{"region": rate.Region, "rate": rate.Rate})
	return c.Status(fiber.StatusCreated).JSON(rate)
}

// Update accepts a partial body; omitted fields keep their stored value.
func (h *ShippingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing rate id")
	}
	var body struct {
		Rate          *int64  `json:"rate"`
		EstimatedDays *string `json:"estimated_days"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Rate != nil && *body.Rate < 0 {
		return jsonError(c, fiber.StatusBadRequest, "rate must not be negative")
	}
	if body.EstimatedDays != nil && *body.EstimatedDays == "" {
		body.EstimatedDays = nil
	}
	if err := h.Shipping.Update(id, body.Rate, body.EstimatedDays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "shipping rate not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not update shipping rate")
	}
	applog.Audit(c, "admin.shipping.update", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ShippingHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing rate id")
	}
	if err := h.Shipping.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "shipping rate not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not delete shipping rate")
	}
	applog.Audit(c, "admin.shipping.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}
