package handlers

import (
	"strconv"

	"warungjp/internal/currency"
	"warungjp/internal/domain"

	"github.com/gofiber/fiber/v2"
)

type CurrencyHandler struct {
	Converter *currency.Converter
}

// Convert quotes an IDR equivalent for a yen amount. Only the rupiah bank
// transfer method is quoted; other methods settle in yen and return null.
func (h *CurrencyHandler) Convert(c *fiber.Ctx) error {
	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount < 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid amount")
	}
	method := c.Query("method", domain.MethodBankRupiah)
	if !domain.ValidPaymentMethod(method) {
		return jsonError(c, fiber.StatusBadRequest, "invalid payment method")
	}
	res, err := h.Converter.Convert(c.Context(), amount, method)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "conversion unavailable")
	}
	return c.JSON(fiber.Map{"conversion": res})
}

// Refresh forces a refetch of the exchange rate and returns a fresh quote.
func (h *CurrencyHandler) Refresh(c *fiber.Ctx) error {
	amount, err := strconv.ParseInt(c.Query("amount", "0"), 10, 64)
	if err != nil || amount < 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid amount")
	}
	return c.JSON(fiber.Map{"conversion": h.Converter.Refresh(c.Context(), amount)})
}
