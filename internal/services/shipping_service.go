package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"warungjp/internal/domain"
	"warungjp/internal/repos"
)

type ShippingService struct {
	Rates *repos.ShippingRepo
}

func NewShippingService(rates *repos.ShippingRepo) *ShippingService {
	return &ShippingService{Rates: rates}
}

// RegionKey canonicalizes a prefecture name for lookup, e.g.
// "Tokyo" -> "tokyo".
func RegionKey(prefectureEN string) string {
	return slug.Make(prefectureEN)
}

// List returns all rates, optionally narrowed by a case-insensitive
// substring over both prefecture labels.
func (s *ShippingService) List(q string) ([]domain.ShippingRate, error) {
	rates, err := s.Rates.ListAll()
	if err != nil {
		return nil, err
	}
	if q == "" {
		return rates, nil
	}
	needle := strings.ToLower(q)
	out := rates[:0]
	for _, r := range rates {
		if strings.Contains(strings.ToLower(r.Prefecture), needle) ||
			strings.Contains(strings.ToLower(r.PrefectureEN), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Lookup reports whether shipping is configured for a region. Absence is
// an expected state, not an error.
func (s *ShippingService) Lookup(region string) (domain.ShippingRate, bool, error) {
	return s.Rates.GetByRegion(RegionKey(region))
}

func (s *ShippingService) Add(prefecture, prefectureEN string, fee int64, estimatedDays string) (domain.ShippingRate, error) {
	if estimatedDays == "" {
		estimatedDays = "3-5 days"
	}
	rate := domain.ShippingRate{
		ID:            uuid.NewString(),
		Prefecture:    prefecture,
		PrefectureEN:  prefectureEN,
		Region:        RegionKey(prefectureEN),
		Rate:          fee,
		EstimatedDays: estimatedDays,
	}
	if err := s.Rates.Add(rate); err != nil {
		return domain.ShippingRate{}, err
	}
	return rate, nil
}

// Update patches the provided fields; nil fields keep their stored value.
func (s *ShippingService) Update(id string, fee *int64, estimatedDays *string) error {
	return s.Rates.Update(id, fee, estimatedDays)
}

func (s *ShippingService) Delete(id string) error {
	return s.Rates.Delete(id)
}
