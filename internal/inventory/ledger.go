// Package inventory tracks per-item ingredient stock. Each menu item
// carries its own recipe snapshot; stock is not a shared warehouse
// pool.
package inventory

import (
	"context"
	"fmt"
	"time"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"go.uber.org/zap"
)

// DefaultYield is the per-batch divisor applied when scaling recipe
// quantities into per-order consumption.
const DefaultYield = 10.0

// Stock level thresholds, on the same unit scale as seeded ingredient
// quantities.
const (
	lowThreshold    = 30.0
	mediumThreshold = 70.0
)

var ErrNotFound = fmt.Errorf("inventory: not found")

type Ledger struct {
	kv     store.KeyValueStore
	logger *zap.Logger
	yield  float64
	now    func() time.Time
}

func NewLedger(kv store.KeyValueStore, logger *zap.Logger, yield float64) *Ledger {
	if yield <= 0 {
		yield = DefaultYield
	}
	return &Ledger{kv: kv, logger: logger, yield: yield, now: time.Now}
}

// Consume subtracts amount from one ingredient's remaining stock,
// clamped at zero, then recomputes the item's stock level and forces
// the item unavailable when the level reaches out. Depletion
// overrides an admin's explicit available toggle: stock blocks sale
// regardless.
func (l *Ledger) Consume(ctx context.Context, menuItemID, ingredientID string, amount float64) error {
	items, err := store.Load(ctx, l.kv, store.KeyMenu, []models.MenuItem{})
	if err != nil {
		return err
	}

	found := false
	for i := range items {
		if items[i].ID != menuItemID || items[i].Inventory == nil {
			continue
		}
		for j := range items[i].Inventory.Ingredients {
			if items[i].Inventory.Ingredients[j].ID != ingredientID {
				continue
			}
			found = true
			l.applyConsumption(&items[i], j, amount)
		}
	}
	if !found {
		return fmt.Errorf("%w: item %s ingredient %s", ErrNotFound, menuItemID, ingredientID)
	}

	return l.persist(ctx, items)
}

// ConsumeForOrder applies the placement-time heuristic for every
// ordered line: each ingredient loses quantity-ordered multiplied by
// its recipe quantity over the yield-per-batch divisor. Lines whose
// item carries no inventory block are skipped.
func (l *Ledger) ConsumeForOrder(ctx context.Context, lines []models.OrderItem) error {
	items, err := store.Load(ctx, l.kv, store.KeyMenu, []models.MenuItem{})
	if err != nil {
		return err
	}

	changed := false
	for _, line := range lines {
		for i := range items {
			if items[i].ID != line.MenuItemID || items[i].Inventory == nil {
				continue
			}
			for j := range items[i].Inventory.Ingredients {
				amount := float64(line.Quantity) * items[i].Inventory.Ingredients[j].Quantity / l.yield
				l.applyConsumption(&items[i], j, amount)
			}
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return l.persist(ctx, items)
}

// CheckLevels is an idempotent sweep over every item with an
// inventory block: depleted ingredients force the item unavailable.
// It runs once at startup and is safe to re-run at any time.
func (l *Ledger) CheckLevels(ctx context.Context) error {
	items, err := store.Load(ctx, l.kv, store.KeyMenu, []models.MenuItem{})
	if err != nil {
		return err
	}

	changed := false
	for i := range items {
		inv := items[i].Inventory
		if inv == nil {
			continue
		}
		level := Classify(inv.Ingredients)
		if level != inv.StockLevel {
			inv.StockLevel = level
			inv.LastUpdated = l.now()
			changed = true
		}
		if level == models.StockOut && items[i].Available {
			items[i].Available = false
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return l.persist(ctx, items)
}

func (l *Ledger) applyConsumption(item *models.MenuItem, ingredientIdx int, amount float64) {
	inv := item.Inventory
	ing := &inv.Ingredients[ingredientIdx]

	ing.Quantity -= amount
	if ing.Quantity < 0 {
		ing.Quantity = 0
	}
	ing.InStock = ing.Quantity > 0

	inv.StockLevel = Classify(inv.Ingredients)
	inv.LastUpdated = l.now()
	if inv.StockLevel == models.StockOut {
		item.Available = false
	}
}

func (l *Ledger) persist(ctx context.Context, items []models.MenuItem) error {
	if err := store.Save(ctx, l.kv, store.KeyMenu, items); err != nil {
		return err
	}

	// Denormalized mirror for views that watch stock alone.
	blocks := make([]models.Inventory, 0, len(items))
	for _, item := range items {
		if item.Inventory != nil {
			blocks = append(blocks, *item.Inventory)
		}
	}
	if err := store.Save(ctx, l.kv, store.KeyInventory, blocks); err != nil {
		l.logger.Warn("inventory mirror write failed", zap.Error(err))
	}
	return nil
}

// Classify derives an item's coarse stock level from its
// minimum-stock ingredient: out when any ingredient is depleted, then
// low and medium by threshold, high otherwise.
func Classify(ingredients []models.Ingredient) models.StockLevel {
	if len(ingredients) == 0 {
		return models.StockHigh
	}
	min := ingredients[0].Quantity
	for _, ing := range ingredients[1:] {
		if ing.Quantity < min {
			min = ing.Quantity
		}
	}
	switch {
	case min <= 0:
		return models.StockOut
	case min < lowThreshold:
		return models.StockLow
	case min < mediumThreshold:
		return models.StockMedium
	default:
		return models.StockHigh
	}
}
