package models

import "time"

// Collection blobs persisted through the key-value store keep the same
// wire shape the front end reads, so every field carries a camelCase
// JSON tag.

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentCard  PaymentMethod = "Card"
	PaymentOther PaymentMethod = "Other"
)

type StockLevel string

const (
	StockHigh   StockLevel = "high"
	StockMedium StockLevel = "medium"
	StockLow    StockLevel = "low"
	StockOut    StockLevel = "out"
)

type Discount struct {
	Percentage float64 `json:"percentage"`
	Code       string  `json:"code"`
	IsPublic   bool    `json:"isPublic"`
}

type MenuItem struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	DiscountedPrice *float64   `json:"discountedPrice,omitempty"`
	Discount        *Discount  `json:"discount,omitempty"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	Category        string     `json:"category"`
	Available       bool       `json:"available"`
	BranchID        string     `json:"branchId"`
	Inventory       *Inventory `json:"inventory,omitempty"`
	Ratings         []Rating   `json:"ratings,omitempty"`
	AverageRating   float64    `json:"averageRating,omitempty"`
}

// UnitPrice is the price a new order line is charged at.
func (m MenuItem) UnitPrice() float64 {
	if m.DiscountedPrice != nil {
		return *m.DiscountedPrice
	}
	return m.Price
}

// Orderable reports whether the item can be placed on a new order.
// Admin toggle and stock depletion are OR-combined: either one blocks
// the sale.
func (m MenuItem) Orderable() bool {
	if !m.Available {
		return false
	}
	if m.Inventory != nil && m.Inventory.StockLevel == StockOut {
		return false
	}
	return true
}

type Inventory struct {
	ID          string       `json:"id"`
	MenuItemID  string       `json:"menuItemId"`
	Ingredients []Ingredient `json:"ingredients"`
	StockLevel  StockLevel   `json:"stockLevel"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

type Ingredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	InStock  bool    `json:"inStock"`
}

type Rating struct {
	ID         string    `json:"id"`
	MenuItemID string    `json:"menuItemId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Branch struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	OpeningHours string `json:"openingHours"`
	ClosingHours string `json:"closingHours"`
	IsActive     bool   `json:"isActive"`
}

type OrderItem struct {
	ID         string  `json:"id"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type Order struct {
	ID            string        `json:"id"`
	TokenNumber   string        `json:"tokenNumber"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Items         []OrderItem   `json:"items"`
	Status        OrderStatus   `json:"status"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	BranchID      string        `json:"branchId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	AcceptedAt    *time.Time    `json:"acceptedAt,omitempty"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	Feedback      *Feedback     `json:"feedback,omitempty"`
}

// Receipt is an append-only snapshot synthesized exactly once, when an
// order first reaches the completed status.
type Receipt struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"orderId"`
	TokenNumber   string        `json:"tokenNumber"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	BranchID      string        `json:"branchId"`
	BranchName    string        `json:"branchName"`
	CreatedAt     time.Time     `json:"createdAt"`
	TimeTaken     string        `json:"timeTaken,omitempty"`
}

type AppSettings struct {
	AppName               string          `json:"appName"`
	AppDescription        string          `json:"appDescription"`
	LogoURL               string          `json:"logoUrl"`
	PrimaryColor          string          `json:"primaryColor"`
	SecondaryColor        string          `json:"secondaryColor"`
	DefaultPaymentMethods []PaymentMethod `json:"defaultPaymentMethods"`
	KitchenPassword       string          `json:"kitchenPassword"`
	AdminPassword         string          `json:"adminPassword"`
	ShowNavbar            bool            `json:"showNavbar"`
}

type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ReturningCustomer struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	OrderCount int    `json:"orderCount"`
}

type PaymentTrend struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type PeakHour struct {
	Hour       string `json:"hour"`
	OrderCount int    `json:"orderCount"`
}

type InventoryAlert struct {
	ItemName   string     `json:"itemName"`
	StockLevel StockLevel `json:"stockLevel"`
}

type RatedItem struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// AnalyticsData is fully derived; it is never persisted.
type AnalyticsData struct {
	TotalPayments      float64             `json:"totalPayments"`
	SuccessfulPayments int                 `json:"successfulPayments"`
	CompletedOrders    int                 `json:"completedOrders"`
	RejectedOrders     int                 `json:"rejectedOrders"`
	AcceptedOrders     int                 `json:"acceptedOrders"`
	AverageServiceTime string              `json:"averageServiceTime"`
	MostOrderedItems   []ItemCount         `json:"mostOrderedItems"`
	LeastOrderedItems  []ItemCount         `json:"leastOrderedItems"`
	ReturningCustomers []ReturningCustomer `json:"returningCustomers"`
	PaymentTrends      []PaymentTrend      `json:"paymentTrends"`
	PeakHours          []PeakHour          `json:"peakHours"`
	InventoryAlerts    []InventoryAlert    `json:"inventoryAlerts,omitempty"`
	TopRatedItems      []RatedItem         `json:"topRatedItems,omitempty"`
}
