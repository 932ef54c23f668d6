package catalog

import (
	"context"
	"encoding/json"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"go.uber.org/zap"
)

// Seed writes the default branches, menu and settings on first run.
// It is guarded by an initialization marker and safe to call on every
// startup.
func (s *Service) Seed(ctx context.Context) error {
	marker, err := s.kv.GetItem(ctx, store.KeyInitialized)
	if err != nil {
		return err
	}
	if marker != nil {
		return nil
	}

	if err := store.Save(ctx, s.kv, store.KeyBranches, seedBranches()); err != nil {
		return err
	}
	if err := store.Save(ctx, s.kv, store.KeyMenu, seedMenu()); err != nil {
		return err
	}
	if err := store.Save(ctx, s.kv, store.KeySettings, defaultSettings()); err != nil {
		return err
	}

	stamp, _ := json.Marshal(s.now())
	if err := s.kv.SetItem(ctx, store.KeyInitialized, stamp); err != nil {
		return err
	}
	s.logger.Info("storage seeded",
		zap.Int("branches", len(seedBranches())),
		zap.Int("menuItems", len(seedMenu())),
	)
	return nil
}

func defaultSettings() models.AppSettings {
	return models.AppSettings{
		AppName:               "CaféSync",
		AppDescription:        "A next-generation café management system",
		PrimaryColor:          "#8B5CF6",
		SecondaryColor:        "#D946EF",
		DefaultPaymentMethods: []models.PaymentMethod{models.PaymentCash},
		KitchenPassword:       "kitchen123",
		AdminPassword:         "admin123",
		ShowNavbar:            true,
	}
}

func seedBranches() []models.Branch {
	return []models.Branch{
		{ID: "1", Name: "Downtown Branch", Location: "123 Main Street", OpeningHours: "7AM", ClosingHours: "9PM", IsActive: true},
		{ID: "2", Name: "Riverside Location", Location: "456 River View", OpeningHours: "8AM", ClosingHours: "10PM", IsActive: true},
		{ID: "3", Name: "Mall Kiosk", Location: "789 Shopping Center", OpeningHours: "10AM", ClosingHours: "8PM", IsActive: false},
	}
}

func seedMenu() []models.MenuItem {
	stock := func(itemID string, ingredients ...models.Ingredient) *models.Inventory {
		for i := range ingredients {
			ingredients[i].InStock = ingredients[i].Quantity > 0
		}
		return &models.Inventory{
			ID:          "inv-" + itemID,
			MenuItemID:  itemID,
			Ingredients: ingredients,
			StockLevel:  models.StockHigh,
		}
	}

	return []models.MenuItem{
		{
			ID: "1", Name: "Espresso", Description: "Strong, concentrated coffee served in small doses",
			Price: 3.5, Category: "Coffee", Available: true, BranchID: "1",
			Inventory: stock("1",
				models.Ingredient{ID: "1-beans", Name: "Coffee Beans", Quantity: 100, Unit: "g"},
				models.Ingredient{ID: "1-water", Name: "Water", Quantity: 100, Unit: "ml"},
			),
		},
		{
			ID: "2", Name: "Cappuccino", Description: "Espresso with steamed milk and foam",
			Price: 4.5, Category: "Coffee", Available: true, BranchID: "1",
			Inventory: stock("2",
				models.Ingredient{ID: "2-beans", Name: "Coffee Beans", Quantity: 100, Unit: "g"},
				models.Ingredient{ID: "2-milk", Name: "Milk", Quantity: 100, Unit: "ml"},
			),
		},
		{
			ID: "3", Name: "Croissant", Description: "Buttery, flaky pastry",
			Price: 3.0, Category: "Pastry", Available: true, BranchID: "1",
			Inventory: stock("3",
				models.Ingredient{ID: "3-dough", Name: "Pastry Dough", Quantity: 100, Unit: "pcs"},
			),
		},
		{
			ID: "4", Name: "Latte", Description: "Espresso with a lot of steamed milk and a little foam",
			Price: 4.0, Category: "Coffee", Available: true, BranchID: "2",
		},
		{
			ID: "5", Name: "Blueberry Muffin", Description: "Sweet muffin filled with blueberries",
			Price: 3.5, Category: "Pastry", Available: true, BranchID: "2",
		},
		{
			ID: "6", Name: "Iced Coffee", Description: "Chilled coffee served over ice",
			Price: 3.75, Category: "Coffee", Available: true, BranchID: "3",
		},
	}
}
