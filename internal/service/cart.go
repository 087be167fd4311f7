package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// CartService implements the business logic for cart operations.
type CartService struct {
	repo   repository.CartRepository
	logger *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, logger *slog.Logger) *CartService {
	return &CartService{
		repo:   repo,
		logger: logger,
	}
}

// GetCart returns the user's cart with live catalog names and prices.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	lines, err := s.repo.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}

	return &domain.Cart{UserID: userID, Lines: lines}, nil
}

// AddLine adds an item to the cart, merging the quantity into an existing
// line when the item is already present. Returns the updated cart.
func (s *CartService) AddLine(ctx context.Context, userID, itemID string, qty int) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item_id is required")
	}
	if qty < 1 {
		return nil, apperrors.InvalidQuantity(qty)
	}

	if err := s.repo.AddLine(ctx, userID, itemID, qty); err != nil {
		return nil, fmt.Errorf("add cart line: %w", err)
	}

	s.logger.DebugContext(ctx, "cart line added",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.Int("quantity", qty),
	)

	return s.GetCart(ctx, userID)
}

// SetLineQuantity replaces a line's quantity. A quantity of zero or less
// removes the line. Returns the updated cart.
func (s *CartService) SetLineQuantity(ctx context.Context, userID, itemID string, qty int) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item_id is required")
	}

	if err := s.repo.SetLineQuantity(ctx, userID, itemID, qty); err != nil {
		return nil, fmt.Errorf("set cart line quantity: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveLine deletes a line from the cart. Removing an item that is not in
// the cart is not an error. Returns the updated cart.
func (s *CartService) RemoveLine(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item_id is required")
	}

	if err := s.repo.RemoveLine(ctx, userID, itemID); err != nil {
		return nil, fmt.Errorf("remove cart line: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// Clear removes all lines from the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.DebugContext(ctx, "cart cleared", slog.String("user_id", userID))

	return nil
}
