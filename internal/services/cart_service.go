package services

import (
	"fmt"
	"log"

	"darna/internal/events"
	"darna/internal/models"
	"darna/internal/pricing"
	"darna/internal/repositories"

	"github.com/shopspring/decimal"
)

// Owner identifies whose cart is addressed: a registered user or a guest.
type Owner struct {
	ID    string
	Guest bool
}

// CartService manages carts in two modes: user carts stored per line and guest
// carts stored as one serialized list. Both behave the same from the outside.
type CartService struct {
	users      repositories.CartStore
	guests     repositories.CartStore
	products   repositories.ProductRepository
	promotions *PromotionService
	bus        *events.Bus
	threshold  decimal.Decimal
	fee        decimal.Decimal
}

// NewCartService creates a new CartService. Shipping costs fee unless the subtotal exceeds threshold.
func NewCartService(users, guests repositories.CartStore, products repositories.ProductRepository,
	promotions *PromotionService, bus *events.Bus, threshold, fee float64) *CartService {
	return &CartService{
		users:      users,
		guests:     guests,
		products:   products,
		promotions: promotions,
		bus:        bus,
		threshold:  pricing.FromFloat(threshold),
		fee:        pricing.FromFloat(fee),
	}
}

func (s *CartService) store(o Owner) repositories.CartStore {
	if o.Guest {
		return s.guests
	}
	return s.users
}

// Add puts qty of a product in the cart, adding to the line if the product is already there.
func (s *CartService) Add(o Owner, productID uint, qty int) (models.CartEntry, error) {
	if qty < 1 {
		return models.CartEntry{}, ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(productID); err != nil {
		if repositories.IsNotFound(err) {
			return models.CartEntry{}, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
		}
		return models.CartEntry{}, err
	}

	entry, err := s.store(o).Add(o.ID, productID, qty)
	if err != nil {
		return models.CartEntry{}, fmt.Errorf("failed to add to cart: %w", err)
	}
	s.notify(o)
	return entry, nil
}

// SetQuantity overwrites the quantity of a line. A quantity of zero or less removes it.
func (s *CartService) SetQuantity(o Owner, productID uint, qty int) error {
	if qty <= 0 {
		return s.Remove(o, productID)
	}
	if err := s.store(o).SetQuantity(o.ID, productID, qty); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: %d", ErrCartItemNotFound, productID)
		}
		return err
	}
	s.notify(o)
	return nil
}

// Remove drops a product from the cart. Removing an absent product is not an error.
func (s *CartService) Remove(o Owner, productID uint) error {
	if err := s.store(o).Remove(o.ID, productID); err != nil {
		return err
	}
	s.notify(o)
	return nil
}

// Clear empties the cart.
func (s *CartService) Clear(o Owner) error {
	if err := s.store(o).Clear(o.ID); err != nil {
		return err
	}
	s.notify(o)
	return nil
}

// Load returns the cart lines joined with their products. Lines whose product no
// longer exists are removed from the cart.
func (s *CartService) Load(o Owner) ([]models.CartLine, error) {
	entries, err := s.store(o).Items(o.ID)
	if err != nil {
		return nil, err
	}
	lines := []models.CartLine{}
	if len(entries) == 0 {
		return lines, nil
	}

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var stale []uint
	for _, e := range entries {
		p, ok := byID[e.ProductID]
		if !ok {
			stale = append(stale, e.ProductID)
			continue
		}
		lines = append(lines, models.CartLine{
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
			AddedAt:   e.AddedAt,
			Product:   p,
			LineTotal: pricing.Float(pricing.PerUnit(pricing.FromFloat(p.Price), e.Quantity)),
		})
	}

	if len(stale) > 0 {
		if err := s.store(o).Remove(o.ID, stale...); err != nil {
			log.Printf("Warning: failed to prune %d stale cart lines for %s: %v", len(stale), o.ID, err)
		} else {
			s.notify(o)
		}
	}
	return lines, nil
}

// Summary prices the cart: subtotal, promotion discount, shipping and total.
// Shipping is decided on the subtotal before the discount.
func (s *CartService) Summary(o Owner, promoCode string) (*models.CartSummary, error) {
	lines, err := s.Load(o)
	if err != nil {
		return nil, err
	}

	sum := &models.CartSummary{Lines: lines}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.LineTotal))
		sum.ItemCount += l.Quantity
	}

	discount := decimal.Zero
	if promoCode != "" {
		promo, err := s.promotions.Lookup(promoCode)
		if err != nil {
			return nil, err
		}
		pct := pricing.FromFloat(promo.DiscountPercent)
		discount = pricing.Discount(subtotal, pct)
		sum.PromoCode = promo.Code
		sum.DiscountPct = pricing.Float(pct)
	}

	shipping := pricing.Shipping(subtotal, s.threshold, s.fee)
	sum.Subtotal = pricing.Float(subtotal)
	sum.Discount = pricing.Float(discount)
	sum.Shipping = pricing.Float(shipping)
	sum.Total = pricing.Float(subtotal.Sub(discount).Add(shipping))
	return sum, nil
}

// Count returns the number of items in the cart, for the cart badge.
func (s *CartService) Count(o Owner) (int, error) {
	entries, err := s.store(o).Items(o.ID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		n += e.Quantity
	}
	return n, nil
}

func (s *CartService) notify(o Owner) {
	if s.bus == nil {
		return
	}
	count, err := s.Count(o)
	if err != nil {
		log.Printf("Warning: failed to count cart of %s: %v", o.ID, err)
	}
	s.bus.Publish(events.Event{
		Type:    events.CartUpdated,
		Owner:   o.ID,
		Payload: map[string]interface{}{"item_count": count, "guest": o.Guest},
	})
}
