package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"warungjp/internal/domain"
)

// ErrRegionExists is returned when a rate for the region is already configured.
var ErrRegionExists = errors.New("shipping rate for region already exists")

type ShippingRepo struct{ db *sqlx.DB }

func NewShippingRepo(db *sqlx.DB) *ShippingRepo { return &ShippingRepo{db: db} }

func (r *ShippingRepo) ListAll() ([]domain.ShippingRate, error) {
	var out []domain.ShippingRate
	err := r.db.Select(&out, `
	  SELECT id, prefecture, prefecture_en, region, rate, estimated_days,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM shipping_rates
	  ORDER BY prefecture
	`)
	return out, err
}

// GetByRegion returns (zero, false, nil) when no rate is configured for the
// region. Callers treat that as "shipping not set up yet", not a failure.
func (r *ShippingRepo) GetByRegion(region string) (domain.ShippingRate, bool, error) {
	var rate domain.ShippingRate
	err := r.db.Get(&rate, `
	  SELECT id, prefecture, prefecture_en, region, rate, estimated_days,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM shipping_rates
	  WHERE region = ?
	`, region)
	if err == sql.ErrNoRows {
		return domain.ShippingRate{}, false, nil
	}
	if err != nil {
		return domain.ShippingRate{}, false, err
	}
	return rate, true, nil
}

// Add relies on the UNIQUE(region) constraint: the conflicting insert is a
// no-op and surfaces as ErrRegionExists, no pre-check query involved.
func (r *ShippingRepo) Add(rate domain.ShippingRate) error {
	res, err := r.db.Exec(`
	  INSERT INTO shipping_rates(id, prefecture, prefecture_en, region, rate, estimated_days, created_at)
	  VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(region) DO NOTHING
	`, rate.ID, rate.Prefecture, rate.PrefectureEN, rate.Region, rate.Rate, rate.EstimatedDays)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRegionExists
	}
	return nil
}

// Update patches only the provided fields; nil keeps the stored value.
func (r *ShippingRepo) Update(id string, fee *int64, estimatedDays *string) error {
	res, err := r.db.Exec(`
	  UPDATE shipping_rates
	  SET rate = COALESCE(?, rate),
	      estimated_days = COALESCE(?, estimated_days),
	      updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, fee, estimatedDays, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ShippingRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM shipping_rates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
