package catalog

import (
	"context"
	"errors"
	"testing"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, store.KeyValueStore) {
	t.Helper()
	kv := store.NewMemory()
	return New(kv, zap.NewNop()), kv
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	branches, _ := svc.Branches(ctx)
	if len(branches) != 3 || branches[0].Name != "Downtown Branch" {
		t.Fatalf("unexpected seeded branches: %+v", branches)
	}
	menu, _ := svc.MenuItems(ctx)
	if len(menu) != 6 {
		t.Fatalf("expected 6 seeded items, got %d", len(menu))
	}
	settings, _ := svc.Settings(ctx)
	if settings.AppName != "CaféSync" || settings.KitchenPassword != "kitchen123" {
		t.Fatalf("unexpected seeded settings: %+v", settings)
	}

	// A second seed with user edits in place must not clobber them.
	branches[0].Name = "Renamed"
	if _, err := svc.UpdateBranch(ctx, branches[0]); err != nil {
		t.Fatalf("update branch: %v", err)
	}
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	branches, _ = svc.Branches(ctx)
	if branches[0].Name != "Renamed" {
		t.Fatalf("re-seed overwrote user data")
	}
}

func TestAddMenuItemComputesDiscountedPrice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	item, err := svc.AddMenuItem(ctx, models.MenuItem{
		Name:     "Mocha",
		Price:    5.0,
		Category: "Coffee",
		BranchID: "1",
		Discount: &models.Discount{Percentage: 20, Code: "SPRING", IsPublic: true},
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ID == "" {
		t.Fatalf("expected generated id")
	}
	if item.DiscountedPrice == nil || *item.DiscountedPrice != 4.0 {
		t.Fatalf("expected discounted price 4.0, got %v", item.DiscountedPrice)
	}

	// Removing the discount clears the derived price.
	item.Discount = nil
	item, err = svc.UpdateMenuItem(ctx, item)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if item.DiscountedPrice != nil {
		t.Fatalf("expected derived price cleared")
	}
}

func TestMenuItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		item models.MenuItem
	}{
		{"missing name", models.MenuItem{Price: 3, BranchID: "1"}},
		{"non-positive price", models.MenuItem{Name: "Tea", Price: 0, BranchID: "1"}},
		{"missing branch", models.MenuItem{Name: "Tea", Price: 3}},
		{"bad discount", models.MenuItem{Name: "Tea", Price: 3, BranchID: "1",
			Discount: &models.Discount{Percentage: 150}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddMenuItem(ctx, tc.item); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateMenuItemReclassifiesStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	item, err := svc.AddMenuItem(ctx, models.MenuItem{
		Name: "Flat White", Price: 4.2, BranchID: "1", Available: true,
		Inventory: &models.Inventory{
			Ingredients: []models.Ingredient{{Name: "Milk", Quantity: 50, Unit: "ml"}},
		},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Inventory.StockLevel != models.StockMedium {
		t.Fatalf("expected medium, got %s", item.Inventory.StockLevel)
	}

	// An admin zeroing the stock flips the item unavailable even with
	// the available flag explicitly on.
	item.Available = true
	item.Inventory.Ingredients[0].Quantity = 0
	item, err = svc.UpdateMenuItem(ctx, item)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Inventory.StockLevel != models.StockOut || item.Available {
		t.Fatalf("depleted stock must force unavailable, got %+v", item)
	}
}

func TestDeleteBranchLeavesMenuUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteBranch(ctx, "3"); err != nil {
		t.Fatalf("delete branch: %v", err)
	}
	branches, _ := svc.Branches(ctx)
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}

	// Items referencing the deleted branch keep their reference.
	menu, _ := svc.MenuItems(ctx)
	found := false
	for _, item := range menu {
		if item.BranchID == "3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("branch delete must not cascade to menu items")
	}

	if err := svc.DeleteBranch(ctx, "3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	settings, err := svc.Settings(ctx)
	if err != nil {
		t.Fatalf("default settings: %v", err)
	}
	if settings.AdminPassword != "admin123" {
		t.Fatalf("expected defaults before first save")
	}

	settings.AppName = "Corner Beans"
	settings.AdminPassword = "s3cret"
	if err := svc.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	got, _ := svc.Settings(ctx)
	if got.AppName != "Corner Beans" || got.AdminPassword != "s3cret" {
		t.Fatalf("settings not persisted: %+v", got)
	}

	settings.AppName = " "
	if err := svc.SaveSettings(ctx, settings); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
