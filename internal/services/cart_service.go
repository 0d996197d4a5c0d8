package services

import (
	"errors"

	"warungjp/internal/domain"
	"warungjp/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
}

// Total sums price x quantity over the lines; shipping is not included here.
func Total(items []domain.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

func (s *CartService) Add(sessionID, productID string, qty int, variants map[string]string) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if !p.Active {
		return errors.New("product no longer available")
	}
	return s.Carts.UpsertItem(cartID, p, qty, variants)
}

func (s *CartService) UpdateQuantity(sessionID, itemID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	if qty < 1 {
		return s.Carts.RemoveItem(cartID, itemID)
	}
	return s.Carts.SetQty(cartID, itemID, qty)
}

func (s *CartService) Remove(sessionID, itemID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, itemID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: Total(items)}, nil
}
