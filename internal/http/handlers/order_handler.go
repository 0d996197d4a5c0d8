package handlers

import (
	"database/sql"
	"errors"
	"time"

	"warungjp/internal/domain"
	applog "warungjp/internal/log"
	"warungjp/internal/orderfeed"
	"warungjp/internal/repos"
	"warungjp/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders    *repos.OrderRepo
	AdminFeed *orderfeed.Feed
	UserFeeds *orderfeed.Registry
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// Get returns one order. Visible to its owner (by user id or by the session
// that placed it) and to admins.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing order id")
	}
	o, err := h.Orders.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load order")
	}

	u := currentUser(c)
	if u != nil && u.Role == "ADMIN" {
		return c.JSON(o)
	}
	if u != nil && o.UserID != "" && o.UserID == u.ID {
		return c.JSON(o)
	}
	sid, err := h.Orders.SessionID(id)
	if err == nil && sid != "" && sid == c.Cookies("sid") {
		return c.JSON(o)
	}
	applog.Security(c, "order.access.denied", map[string]any{"order_id": id})
	return jsonError(c, fiber.StatusNotFound, "order not found")
}

type feedResponse struct {
	Orders    []domain.Order `json:"orders"`
	UpdatedAt time.Time      `json:"updated_at"`
	Stale     bool           `json:"stale"`
}

func feedJSON(c *fiber.Ctx, f *orderfeed.Feed) error {
	orders, updatedAt, lastErr := f.Snapshot()
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(feedResponse{Orders: orders, UpdatedAt: updatedAt, Stale: lastErr != nil})
}

// ListMine serves the signed-in user's order history from their feed. Guests
// fall back to a direct lookup keyed by session.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	if u := currentUser(c); u != nil {
		f := h.UserFeeds.For(u.ID)
		if c.Query("refresh") == "true" {
			f.Invalidate()
		}
		return feedJSON(c, f)
	}
	orders, err := h.Orders.ListBySession(ensureSID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(feedResponse{Orders: orders, UpdatedAt: time.Now(), Stale: false})
}

// Background suspends the signed-in user's feed until Foreground is called.
// Both routes sit behind RequireUser; guests have no feed to manage.
func (h *OrderHandler) Background(c *fiber.Ctx) error {
	h.UserFeeds.For(currentUser(c).ID).Pause()
	return c.JSON(fiber.Map{"ok": true})
}

func (h *OrderHandler) Foreground(c *fiber.Ctx) error {
	h.UserFeeds.For(currentUser(c).ID).Resume()
	return c.JSON(fiber.Map{"ok": true})
}

// AdminList serves the admin dashboard from the shared 2-second feed.
func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	if c.Query("refresh") == "true" {
		h.AdminFeed.Invalidate()
	}
	return feedJSON(c, h.AdminFeed)
}

func (h *OrderHandler) AdminUpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !domain.ValidOrderStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid order status")
	}
	if err := h.Orders.UpdateStatus(id, body.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not update order")
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": id, "status": body.Status})
	h.AdminFeed.Invalidate()
	return c.JSON(fiber.Map{"ok": true})
}
