// Package catalog holds the admin-facing surface: menu items,
// branches and app settings, plus first-run seeding.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafesync-order-service/internal/inventory"
	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

type Service struct {
	kv     store.KeyValueStore
	logger *zap.Logger
	now    func() time.Time
}

func New(kv store.KeyValueStore, logger *zap.Logger) *Service {
	return &Service{kv: kv, logger: logger, now: time.Now}
}

func (s *Service) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return store.Load(ctx, s.kv, store.KeyMenu, []models.MenuItem{})
}

func (s *Service) AddMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return models.MenuItem{}, err
	}

	items, err := s.MenuItems(ctx)
	if err != nil {
		return models.MenuItem{}, err
	}

	item.ID = uuid.NewString()
	s.normalize(&item)
	items = append(items, item)
	if err := store.Save(ctx, s.kv, store.KeyMenu, items); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return models.MenuItem{}, err
	}

	items, err := s.MenuItems(ctx)
	if err != nil {
		return models.MenuItem{}, err
	}
	for i := range items {
		if items[i].ID != item.ID {
			continue
		}
		s.normalize(&item)
		items[i] = item
		if err := store.Save(ctx, s.kv, store.KeyMenu, items); err != nil {
			return models.MenuItem{}, err
		}
		return item, nil
	}
	return models.MenuItem{}, fmt.Errorf("%w: menu item %s", ErrNotFound, item.ID)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	items, err := s.MenuItems(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return fmt.Errorf("%w: menu item %s", ErrNotFound, id)
	}
	return store.Save(ctx, s.kv, store.KeyMenu, kept)
}

func (s *Service) Branches(ctx context.Context) ([]models.Branch, error) {
	return store.Load(ctx, s.kv, store.KeyBranches, []models.Branch{})
}

func (s *Service) AddBranch(ctx context.Context, branch models.Branch) (models.Branch, error) {
	if strings.TrimSpace(branch.Name) == "" || strings.TrimSpace(branch.Location) == "" {
		return models.Branch{}, fmt.Errorf("%w: branch name and location are required", ErrValidation)
	}

	branches, err := s.Branches(ctx)
	if err != nil {
		return models.Branch{}, err
	}
	branch.ID = uuid.NewString()
	branches = append(branches, branch)
	if err := store.Save(ctx, s.kv, store.KeyBranches, branches); err != nil {
		return models.Branch{}, err
	}
	return branch, nil
}

func (s *Service) UpdateBranch(ctx context.Context, branch models.Branch) (models.Branch, error) {
	branches, err := s.Branches(ctx)
	if err != nil {
		return models.Branch{}, err
	}
	for i := range branches {
		if branches[i].ID == branch.ID {
			branches[i] = branch
			if err := store.Save(ctx, s.kv, store.KeyBranches, branches); err != nil {
				return models.Branch{}, err
			}
			return branch, nil
		}
	}
	return models.Branch{}, fmt.Errorf("%w: branch %s", ErrNotFound, branch.ID)
}

// DeleteBranch removes the branch record only. Orders and menu items
// referencing it keep their branch id; the order log is an audit
// trail and never cascades.
func (s *Service) DeleteBranch(ctx context.Context, id string) error {
	branches, err := s.Branches(ctx)
	if err != nil {
		return err
	}
	kept := branches[:0]
	for _, branch := range branches {
		if branch.ID != id {
			kept = append(kept, branch)
		}
	}
	if len(kept) == len(branches) {
		return fmt.Errorf("%w: branch %s", ErrNotFound, id)
	}
	return store.Save(ctx, s.kv, store.KeyBranches, kept)
}

func (s *Service) Settings(ctx context.Context) (models.AppSettings, error) {
	return store.Load(ctx, s.kv, store.KeySettings, defaultSettings())
}

func (s *Service) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	if strings.TrimSpace(settings.AppName) == "" {
		return fmt.Errorf("%w: app name is required", ErrValidation)
	}
	return store.Save(ctx, s.kv, store.KeySettings, settings)
}

func validateMenuItem(item models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if item.Price <= 0 {
		return fmt.Errorf("%w: item price must be positive", ErrValidation)
	}
	if strings.TrimSpace(item.BranchID) == "" {
		return fmt.Errorf("%w: item branch is required", ErrValidation)
	}
	if item.Discount != nil && (item.Discount.Percentage <= 0 || item.Discount.Percentage >= 100) {
		return fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrValidation)
	}
	return nil
}

// normalize recomputes every derived field an admin edit can
// invalidate: discounted price, stock level with its availability
// override, and the rating average.
func (s *Service) normalize(item *models.MenuItem) {
	if item.Discount != nil {
		factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(item.Discount.Percentage)).Div(decimal.NewFromInt(100))
		dp := decimal.NewFromFloat(item.Price).Mul(factor).Round(2).InexactFloat64()
		item.DiscountedPrice = &dp
	} else {
		item.DiscountedPrice = nil
	}

	if item.Inventory != nil {
		item.Inventory.MenuItemID = item.ID
		if item.Inventory.ID == "" {
			item.Inventory.ID = uuid.NewString()
		}
		for i := range item.Inventory.Ingredients {
			ing := &item.Inventory.Ingredients[i]
			if ing.ID == "" {
				ing.ID = uuid.NewString()
			}
			ing.InStock = ing.Quantity > 0
		}
		item.Inventory.StockLevel = inventory.Classify(item.Inventory.Ingredients)
		item.Inventory.LastUpdated = s.now()
		if item.Inventory.StockLevel == models.StockOut {
			item.Available = false
		}
	}

	item.AverageRating = averageRating(item.Ratings)
}

func averageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1).InexactFloat64()
}
