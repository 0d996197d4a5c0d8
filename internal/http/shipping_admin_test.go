package handlers_test

import (
	"net/http"
	"testing"

	"warungjp/internal/domain"
)

func TestShippingRatesPublicLookup(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq(http.MethodGet, "/shipping-rates/tokyo", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rate domain.ShippingRate
	decodeJSON(t, resp, &rate)
	if rate.Rate != 800 || rate.EstimatedDays != "1-2 days" {
		t.Fatalf("rate = %+v", rate)
	}

	resp, err = app.Test(jsonReq(http.MethodGet, "/shipping-rates/okinawa", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing region: status = %d, want 404", resp.StatusCode)
	}
}

func TestShippingAdminCRUD(t *testing.T) {
	app, db := newTestApp(t)
	bindSession(t, db, "sid-ship-admin", "u-admin")

	// Create
	resp, err := app.Test(jsonReq(http.MethodPost, "/admin/shipping-rates", "sid-ship-admin", map[string]any{
		"prefecture": "Kyoto (京都府)", "prefecture_en": "Kyoto", "rate": 900, "estimated_days": "2-4 days",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	var created domain.ShippingRate
	decodeJSON(t, resp, &created)
	if created.Region != "kyoto" {
		t.Fatalf("region = %q, want kyoto", created.Region)
	}

	// Duplicate prefecture conflicts
	resp, err = app.Test(jsonReq(http.MethodPost, "/admin/shipping-rates", "sid-ship-admin", map[string]any{
		"prefecture": "Kyoto (京都府)", "prefecture_en": "Kyoto", "rate": 1000,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", resp.StatusCode)
	}

	// Update
	resp, err = app.Test(jsonReq(http.MethodPut, "/admin/shipping-rates/"+created.ID, "sid-ship-admin", map[string]any{
		"rate": 950, "estimated_days": "2-3 days",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status = %d, want 200", resp.StatusCode)
	}

	var rate domain.ShippingRate
	resp, err = app.Test(jsonReq(http.MethodGet, "/shipping-rates/kyoto", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, resp, &rate)
	if rate.Rate != 950 {
		t.Fatalf("updated rate = %d, want 950", rate.Rate)
	}

	// Delete, then lookups miss
	resp, err = app.Test(jsonReq(http.MethodDelete, "/admin/shipping-rates/"+created.ID, "sid-ship-admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status = %d, want 200", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq(http.MethodDelete, "/admin/shipping-rates/"+created.ID, "sid-ship-admin", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("double delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestShippingUpdateFeeOnlyKeepsEstimatedDays(t *testing.T) {
	app, db := newTestApp(t)
	bindSession(t, db, "sid-ship-partial", "u-admin")

	resp, err := app.Test(jsonReq(http.MethodPut, "/admin/shipping-rates/rate-tokyo", "sid-ship-partial",
		map[string]any{"rate": 950}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status = %d, want 200", resp.StatusCode)
	}

	var rate domain.ShippingRate
	resp, err = app.Test(jsonReq(http.MethodGet, "/shipping-rates/tokyo", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, resp, &rate)
	if rate.Rate != 950 {
		t.Fatalf("rate = %d, want 950", rate.Rate)
	}
	if rate.EstimatedDays != "1-2 days" {
		t.Fatalf("estimated_days overwritten: %q", rate.EstimatedDays)
	}
}

func TestShippingAddRejectsNegativeRate(t *testing.T) {
	app, db := newTestApp(t)
	bindSession(t, db, "sid-ship-neg", "u-admin")

	resp, err := app.Test(jsonReq(http.MethodPost, "/admin/shipping-rates", "sid-ship-neg", map[string]any{
		"prefecture": "Nara (奈良県)", "prefecture_en": "Nara", "rate": -100,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
