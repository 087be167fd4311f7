package service

import (
	"context"
	"fmt"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
)

// MenuService reads the catalog.
type MenuService struct {
	repo repository.MenuRepository
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// GetItem retrieves a single menu item by id.
func (s *MenuService) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	return item, nil
}

// ListAvailable returns all menu items currently available to order.
func (s *MenuService) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	return items, nil
}
