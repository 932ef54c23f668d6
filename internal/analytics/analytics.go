// Package analytics derives read-only rollups from the order and menu
// collections. Compute is a pure function of its snapshot arguments:
// no state, no side effects, deterministic, safe to call on every
// change-feed tick.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"cafesync-order-service/internal/models"

	"github.com/shopspring/decimal"
)

const topN = 5

// Compute recalculates all dashboard rollups. now anchors the
// trailing-7-day revenue window and is passed in so callers and tests
// stay deterministic.
func Compute(orders []models.Order, menu []models.MenuItem, now time.Time) models.AnalyticsData {
	var completed, rejected, accepted []models.Order
	for _, order := range orders {
		switch order.Status {
		case models.StatusCompleted:
			completed = append(completed, order)
			accepted = append(accepted, order)
		case models.StatusRejected:
			rejected = append(rejected, order)
		case models.StatusCooking:
			accepted = append(accepted, order)
		}
	}

	data := models.AnalyticsData{
		TotalPayments:      sumTotals(completed),
		SuccessfulPayments: len(completed),
		CompletedOrders:    len(completed),
		RejectedOrders:     len(rejected),
		AcceptedOrders:     len(accepted),
		AverageServiceTime: averageServiceTime(completed),
		ReturningCustomers: returningCustomers(completed),
		PaymentTrends:      paymentTrends(completed, now),
		PeakHours:          peakHours(completed),
		InventoryAlerts:    inventoryAlerts(menu),
		TopRatedItems:      topRatedItems(menu),
	}
	data.MostOrderedItems, data.LeastOrderedItems = orderedItems(completed)
	return data
}

func sumTotals(orders []models.Order) float64 {
	sum := decimal.Zero
	for _, order := range orders {
		sum = sum.Add(decimal.NewFromFloat(order.Total))
	}
	return sum.Round(2).InexactFloat64()
}

func averageServiceTime(completed []models.Order) string {
	var total float64
	var count int
	for _, order := range completed {
		if order.AcceptedAt == nil || order.CompletedAt == nil {
			continue
		}
		total += order.CompletedAt.Sub(*order.AcceptedAt).Minutes()
		count++
	}
	if count == 0 {
		return "0 mins"
	}
	return fmt.Sprintf("%.1f mins", total/float64(count))
}

// orderedItems groups line quantities by item name, the way the
// dashboard has always displayed them. Two branches sharing an item
// name are conflated; per-branch isolation is a deliberate non-goal
// at this scale.
func orderedItems(completed []models.Order) (most, least []models.ItemCount) {
	counts := make(map[string]int)
	for _, order := range completed {
		for _, line := range order.Items {
			counts[line.Name] += line.Quantity
		}
	}

	all := make([]models.ItemCount, 0, len(counts))
	for name, count := range counts {
		all = append(all, models.ItemCount{Name: name, Count: count})
	}

	most = make([]models.ItemCount, len(all))
	copy(most, all)
	sort.Slice(most, func(i, j int) bool {
		if most[i].Count != most[j].Count {
			return most[i].Count > most[j].Count
		}
		return most[i].Name < most[j].Name
	})

	least = make([]models.ItemCount, len(all))
	copy(least, all)
	sort.Slice(least, func(i, j int) bool {
		if least[i].Count != least[j].Count {
			return least[i].Count < least[j].Count
		}
		return least[i].Name < least[j].Name
	})

	return clip(most), clip(least)
}

func returningCustomers(completed []models.Order) []models.ReturningCustomer {
	type key struct{ name, phone string }
	counts := make(map[key]int)
	for _, order := range completed {
		counts[key{order.CustomerName, order.CustomerPhone}]++
	}

	var out []models.ReturningCustomer
	for k, count := range counts {
		if count > 1 {
			out = append(out, models.ReturningCustomer{Name: k.name, Phone: k.phone, OrderCount: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Name < out[j].Name
	})
	return clip(out)
}

// paymentTrends sums completed-order revenue per calendar day (UTC)
// for the trailing 7 days including today, oldest first.
func paymentTrends(completed []models.Order, now time.Time) []models.PaymentTrend {
	byDay := make(map[string]decimal.Decimal)
	for _, order := range completed {
		day := order.CreatedAt.UTC().Format("2006-01-02")
		byDay[day] = byDay[day].Add(decimal.NewFromFloat(order.Total))
	}

	trends := make([]models.PaymentTrend, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		trends = append(trends, models.PaymentTrend{
			Date:   day,
			Amount: byDay[day].Round(2).InexactFloat64(),
		})
	}
	return trends
}

func peakHours(completed []models.Order) []models.PeakHour {
	counts := make(map[string]int)
	for _, order := range completed {
		counts[hourLabel(order.CreatedAt.Hour())]++
	}

	out := make([]models.PeakHour, 0, len(counts))
	for hour, count := range counts {
		out = append(out, models.PeakHour{Hour: hour, OrderCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// hourLabel renders an hour-of-day on the 12-hour clock: 0 -> 12AM,
// 15 -> 3PM.
func hourLabel(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d%s", h, suffix)
}

func inventoryAlerts(menu []models.MenuItem) []models.InventoryAlert {
	var alerts []models.InventoryAlert
	for _, item := range menu {
		if item.Inventory == nil {
			continue
		}
		level := item.Inventory.StockLevel
		if level == models.StockLow || level == models.StockOut {
			alerts = append(alerts, models.InventoryAlert{ItemName: item.Name, StockLevel: level})
		}
	}
	return alerts
}

func topRatedItems(menu []models.MenuItem) []models.RatedItem {
	var rated []models.RatedItem
	for _, item := range menu {
		if item.AverageRating > 0 {
			rated = append(rated, models.RatedItem{Name: item.Name, Rating: item.AverageRating})
		}
	}
	sort.Slice(rated, func(i, j int) bool {
		if rated[i].Rating != rated[j].Rating {
			return rated[i].Rating > rated[j].Rating
		}
		return rated[i].Name < rated[j].Name
	})
	return clip(rated)
}

func clip[T any](values []T) []T {
	if len(values) > topN {
		return values[:topN]
	}
	return values
}
