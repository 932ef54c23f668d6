package analytics

import (
	"math"
	"testing"
	"time"

	"cafesync-order-service/internal/models"
)

func ts(day int, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func completedOrder(name, phone string, total float64, created time.Time, serviceMins float64) models.Order {
	accepted := created.Add(time.Minute)
	done := accepted.Add(time.Duration(serviceMins * float64(time.Minute)))
	return models.Order{
		CustomerName:  name,
		CustomerPhone: phone,
		Status:        models.StatusCompleted,
		Total:         total,
		CreatedAt:     created,
		UpdatedAt:     done,
		AcceptedAt:    &accepted,
		CompletedAt:   &done,
	}
}

func TestComputeEmptyNeverPanics(t *testing.T) {
	data := Compute(nil, nil, ts(14, 12))

	if data.TotalPayments != 0 || data.SuccessfulPayments != 0 {
		t.Fatalf("expected zero payments, got %+v", data)
	}
	if data.AverageServiceTime != "0 mins" {
		t.Fatalf("expected %q, got %q", "0 mins", data.AverageServiceTime)
	}
	if len(data.MostOrderedItems) != 0 || len(data.LeastOrderedItems) != 0 {
		t.Fatalf("expected empty top lists")
	}
	if len(data.ReturningCustomers) != 0 || len(data.PeakHours) != 0 {
		t.Fatalf("expected empty rollups")
	}
	if len(data.PaymentTrends) != 7 {
		t.Fatalf("trend window must always span 7 days, got %d", len(data.PaymentTrends))
	}
	for _, trend := range data.PaymentTrends {
		if trend.Amount != 0 {
			t.Fatalf("expected zero revenue, got %+v", trend)
		}
	}
}

func TestComputeCountsOnlyCompletedOrders(t *testing.T) {
	now := ts(14, 18)
	orders := []models.Order{
		completedOrder("Ada", "+12025550101", 10, ts(14, 9), 4),
		{Status: models.StatusPending, Total: 99, CreatedAt: ts(14, 9)},
		{Status: models.StatusCooking, Total: 50, CreatedAt: ts(14, 10)},
		{Status: models.StatusRejected, Total: 25, CreatedAt: ts(14, 11)},
	}

	data := Compute(orders, nil, now)
	if math.Abs(data.TotalPayments-10) > 1e-9 {
		t.Fatalf("only completed orders count toward revenue, got %f", data.TotalPayments)
	}
	if data.SuccessfulPayments != 1 || data.CompletedOrders != 1 {
		t.Fatalf("unexpected completion counts: %+v", data)
	}
	if data.RejectedOrders != 1 {
		t.Fatalf("expected 1 rejected, got %d", data.RejectedOrders)
	}
	if data.AcceptedOrders != 2 {
		t.Fatalf("cooking and completed both count as accepted, got %d", data.AcceptedOrders)
	}
}

func TestAverageServiceTime(t *testing.T) {
	now := ts(14, 18)
	orders := []models.Order{
		completedOrder("Ada", "+12025550101", 10, ts(14, 9), 4),
		completedOrder("Ben", "+12025550102", 12, ts(14, 10), 6),
	}
	// A completed order missing acceptedAt must not skew the mean.
	stray := completedOrder("Cleo", "+12025550103", 8, ts(14, 11), 60)
	stray.AcceptedAt = nil
	orders = append(orders, stray)

	data := Compute(orders, nil, now)
	if data.AverageServiceTime != "5.0 mins" {
		t.Fatalf("expected %q, got %q", "5.0 mins", data.AverageServiceTime)
	}
}

func TestOrderedItemsTopAndBottom(t *testing.T) {
	now := ts(14, 18)
	order := completedOrder("Ada", "+12025550101", 50, ts(14, 9), 4)
	order.Items = []models.OrderItem{
		{Name: "Espresso", Quantity: 7},
		{Name: "Latte", Quantity: 3},
		{Name: "Croissant", Quantity: 1},
		{Name: "Muffin", Quantity: 2},
		{Name: "Iced Coffee", Quantity: 5},
		{Name: "Cappuccino", Quantity: 4},
	}
	second := completedOrder("Ben", "+12025550102", 7, ts(14, 10), 3)
	second.Items = []models.OrderItem{{Name: "Espresso", Quantity: 2}}

	data := Compute([]models.Order{order, second}, nil, now)

	if len(data.MostOrderedItems) != 5 {
		t.Fatalf("top list clips at 5, got %d", len(data.MostOrderedItems))
	}
	if data.MostOrderedItems[0].Name != "Espresso" || data.MostOrderedItems[0].Count != 9 {
		t.Fatalf("quantities must sum across orders, got %+v", data.MostOrderedItems[0])
	}
	if data.LeastOrderedItems[0].Name != "Croissant" || data.LeastOrderedItems[0].Count != 1 {
		t.Fatalf("unexpected least ordered %+v", data.LeastOrderedItems[0])
	}
}

func TestReturningCustomers(t *testing.T) {
	now := ts(14, 18)
	orders := []models.Order{
		completedOrder("Ada", "+12025550101", 10, ts(13, 9), 4),
		completedOrder("Ada", "+12025550101", 12, ts(14, 9), 4),
		completedOrder("Ada", "+12025550101", 9, ts(14, 12), 4),
		completedOrder("Ben", "+12025550102", 5, ts(14, 10), 4),
	}

	data := Compute(orders, nil, now)
	if len(data.ReturningCustomers) != 1 {
		t.Fatalf("one-off customers are not returning, got %+v", data.ReturningCustomers)
	}
	got := data.ReturningCustomers[0]
	if got.Name != "Ada" || got.Phone != "+12025550101" || got.OrderCount != 3 {
		t.Fatalf("unexpected returning customer %+v", got)
	}
}

func TestPaymentTrendsTrailingWeek(t *testing.T) {
	now := ts(14, 18)
	orders := []models.Order{
		completedOrder("Ada", "+12025550101", 10, ts(14, 9), 4),  // today
		completedOrder("Ben", "+12025550102", 20, ts(12, 10), 4), // two days back
		completedOrder("Cleo", "+12025550103", 99, ts(1, 10), 4), // outside window
	}

	data := Compute(orders, nil, now)
	if len(data.PaymentTrends) != 7 {
		t.Fatalf("expected 7 days, got %d", len(data.PaymentTrends))
	}
	if data.PaymentTrends[0].Date != "2026-03-08" || data.PaymentTrends[6].Date != "2026-03-14" {
		t.Fatalf("window must run oldest first, got %s .. %s",
			data.PaymentTrends[0].Date, data.PaymentTrends[6].Date)
	}
	if data.PaymentTrends[6].Amount != 10 {
		t.Fatalf("expected today's revenue 10, got %f", data.PaymentTrends[6].Amount)
	}
	if data.PaymentTrends[4].Amount != 20 {
		t.Fatalf("expected 20 two days back, got %f", data.PaymentTrends[4].Amount)
	}
}

func TestPeakHours(t *testing.T) {
	now := ts(14, 23)
	orders := []models.Order{
		completedOrder("a", "1234567890", 1, ts(14, 15), 1),
		completedOrder("b", "1234567891", 1, ts(14, 15), 1),
		completedOrder("c", "1234567892", 1, ts(14, 0), 1),
	}

	data := Compute(orders, nil, now)
	if len(data.PeakHours) != 2 {
		t.Fatalf("expected 2 hour buckets, got %+v", data.PeakHours)
	}
	if data.PeakHours[0].Hour != "3PM" || data.PeakHours[0].OrderCount != 2 {
		t.Fatalf("expected 3PM bucket first, got %+v", data.PeakHours[0])
	}
	if data.PeakHours[1].Hour != "12AM" {
		t.Fatalf("midnight renders as 12AM, got %+v", data.PeakHours[1])
	}
}

func TestInventoryAlertsAndTopRated(t *testing.T) {
	menu := []models.MenuItem{
		{Name: "Espresso", AverageRating: 4.5, Inventory: &models.Inventory{StockLevel: models.StockLow}},
		{Name: "Latte", AverageRating: 4.9, Inventory: &models.Inventory{StockLevel: models.StockHigh}},
		{Name: "Croissant", Inventory: &models.Inventory{StockLevel: models.StockOut}},
		{Name: "Muffin"},
	}

	data := Compute(nil, menu, ts(14, 12))
	if len(data.InventoryAlerts) != 2 {
		t.Fatalf("expected low and out alerts, got %+v", data.InventoryAlerts)
	}
	if len(data.TopRatedItems) != 2 || data.TopRatedItems[0].Name != "Latte" {
		t.Fatalf("expected Latte on top, got %+v", data.TopRatedItems)
	}
}
