package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/repository"
	apperrors "github.com/copperline/shop/pkg/errors"
)

// CartService implements the business logic for cart operations.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart resolved against the current catalog: item
// names and images are refreshed for display, while unit prices stay at the
// snapshot taken when the item was added. A user with no stored cart gets an
// empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			now := time.Now().UTC()
			return &domain.Cart{
				UserID:    userID,
				Items:     []domain.CartItem{},
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	if cart.IsEmpty() {
		return cart, nil
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range cart.Items {
		if p, ok := byID[cart.Items[i].ProductID]; ok {
			cart.Items[i].Name = p.Name
			cart.Items[i].ImageURL = p.FirstImage()
		}
	}

	return cart, nil
}

// AddItem adds a product to the user's cart, snapshotting the unit price at
// add time. Adding a product already in the cart increases its quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than zero")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get product for cart: %w", err)
	}

	if !product.IsActive {
		return nil, apperrors.InvalidInput(fmt.Sprintf("product %s is not available", productID))
	}

	now := time.Now().UTC()

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		cart = &domain.Cart{
			UserID:    userID,
			Items:     []domain.CartItem{},
			CreatedAt: now,
		}
	}

	if idx := cart.FindItemIndex(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			ImageURL:  product.FirstImage(),
		})
	}

	cart.Recalculate()
	cart.UpdatedAt = now

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than zero")
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	idx := cart.FindItemIndex(productID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", productID)
	}

	cart.Items[idx].Quantity = quantity
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	idx := cart.FindItemIndex(productID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", productID)
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.Recalculate()
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// ClearCart removes the user's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))

	return nil
}
