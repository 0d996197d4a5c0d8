package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"warungjp/internal/config"
	"warungjp/internal/http/handlers"
	"warungjp/internal/repos"
	"warungjp/internal/services"
)

// newTestApp wires the full route surface against a fresh in-memory store
// with the demo seed data.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{
		DBDSN:      ":memory:",
		MediaDir:   t.TempDir(),
		BaseURL:    "http://localhost:8080",
		StorePhone: "+817084894699",
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Server().MaxRequestBodySize = 12 << 20
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(ctx, db, cfg, authSvc)

	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:id", deps.ProductHandler.Get)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Put("/cart/items/:id", deps.CartHandler.UpdateQuantity)
	app.Delete("/cart/items/:id", deps.CartHandler.Remove)
	app.Delete("/cart", deps.CartHandler.Clear)
	app.Post("/checkout", deps.CheckoutHandler.Submit)
	app.Get("/order/:id", deps.OrderHandler.Get)
	app.Get("/orders", deps.OrderHandler.ListMine)
	app.Post("/orders/background", handlers.RequireUser(authSvc), deps.OrderHandler.Background)
	app.Post("/orders/foreground", handlers.RequireUser(authSvc), deps.OrderHandler.Foreground)
	app.Get("/shipping-rates", deps.ShippingHandler.List)
	app.Get("/shipping-rates/:region", deps.ShippingHandler.Lookup)
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/orders", deps.OrderHandler.AdminList)
	admin.Post("/orders/:id/status", deps.OrderHandler.AdminUpdateStatus)
	admin.Get("/payments", deps.VerificationHandler.List)
	admin.Post("/payments/:id/verify", deps.VerificationHandler.Approve)
	admin.Post("/payments/:id/reject", deps.VerificationHandler.Reject)
	admin.Post("/shipping-rates", deps.ShippingHandler.Add)
	admin.Put("/shipping-rates/:id", deps.ShippingHandler.Update)
	admin.Delete("/shipping-rates/:id", deps.ShippingHandler.Delete)

	return app, db
}

// bindSession attaches a seeded user to a sid cookie value.
func bindSession(t *testing.T, db *sqlx.DB, sid, userID string) {
	t.Helper()
	if err := repos.NewUserRepo(db).BindSession(sid, userID); err != nil {
		t.Fatal(err)
	}
}

func jsonReq(method, target, sid string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// checkoutForm builds a multipart checkout submission. file may be empty to
// omit the proof part.
func checkoutForm(t *testing.T, sid string, fields map[string]string, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("payment_proof", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(fw, strings.NewReader("receipt-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/checkout", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func validCheckoutFields() map[string]string {
	return map[string]string{
		"full_name":      "Dewi Lestari",
		"phone":          "+62 812-3456-7890",
		"email":          "dewi@warungjp.test",
		"region":         "tokyo",
		"city":           "Shinjuku",
		"postal_code":    "1600022",
		"address":        "2-8-1 Nishishinjuku, Apt 501",
		"payment_method": "COD (Cash on Delivery)",
	}
}
