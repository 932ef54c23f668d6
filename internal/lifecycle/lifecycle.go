// Package lifecycle implements the order state machine: placement,
// status transitions with their one-shot timestamps, and the derived
// receipt and rating side effects.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
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

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// EventSink receives lifecycle events for downstream consumers (queue
// publisher, websocket hub). Implementations must never block or fail
// the calling operation.
type EventSink interface {
	Publish(ctx context.Context, routingKey string, payload any)
}

type Service struct {
	kv     store.KeyValueStore
	ledger *inventory.Ledger
	events EventSink
	logger *zap.Logger
	now    func() time.Time
}

// New wires the lifecycle against its collaborators. events may be
// nil when no downstream consumer is configured.
func New(kv store.KeyValueStore, ledger *inventory.Ledger, events EventSink, logger *zap.Logger) *Service {
	return &Service{kv: kv, ledger: ledger, events: events, logger: logger, now: time.Now}
}

type LineInput struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type PlaceOrderInput struct {
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone"`
	Items         []LineInput          `json:"items"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	BranchID      string               `json:"branchId"`
}

// PlaceOrder validates the input, snapshots the ordered items off the
// menu, creates the order in pending state and applies the inventory
// consumption heuristic. Validation failure is an atomic no-op: no
// collection is touched.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (models.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return models.Order{}, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if !phonePattern.MatchString(strings.TrimSpace(in.CustomerPhone)) {
		return models.Order{}, fmt.Errorf("%w: customer phone must match an international phone format", ErrValidation)
	}
	if len(in.Items) == 0 {
		return models.Order{}, fmt.Errorf("%w: order must have at least one item", ErrValidation)
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}

	menu, err := store.Load(ctx, s.kv, store.KeyMenu, []models.MenuItem{})
	if err != nil {
		return models.Order{}, err
	}
	byID := make(map[string]models.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	lines := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, line := range in.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return models.Order{}, fmt.Errorf("%w: unknown menu item %s", ErrValidation, line.MenuItemID)
		}
		if !item.Orderable() {
			return models.Order{}, fmt.Errorf("%w: %s is not available", ErrValidation, item.Name)
		}
		price := item.UnitPrice()
		lines = append(lines, models.OrderItem{
			ID:         uuid.NewString(),
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      price,
			Quantity:   line.Quantity,
		})
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	orders, err := store.Load(ctx, s.kv, store.KeyOrders, []models.Order{})
	if err != nil {
		return models.Order{}, err
	}

	now := s.now()
	order := models.Order{
		ID:            uuid.NewString(),
		TokenNumber:   s.newToken(orders),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Items:         lines,
		Status:        models.StatusPending,
		Total:         total.Round(2).InexactFloat64(),
		PaymentMethod: in.PaymentMethod,
		BranchID:      in.BranchID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	orders = append(orders, order)
	if err := store.Save(ctx, s.kv, store.KeyOrders, orders); err != nil {
		return models.Order{}, err
	}

	if err := s.ledger.ConsumeForOrder(ctx, order.Items); err != nil {
		// Stock bookkeeping is best effort; the order already exists.
		s.logger.Warn("inventory consumption failed",
			zap.String("orderId", order.ID),
			zap.Error(err),
		)
	}

	s.publish(ctx, "order.created", order)
	return order, nil
}

// SetStatus advances an order through the pipeline. acceptedAt is set
// exactly once on the first transition into cooking, completedAt
// exactly once on the first transition into completed; neither is
// ever overwritten. First completion synthesizes a receipt,
// best-effort: an unknown branch skips the receipt but still advances
// the status. Terminal orders never leave their state.
func (s *Service) SetStatus(ctx context.Context, orderID string, status models.OrderStatus, branchID string) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	orders, err := store.Load(ctx, s.kv, store.KeyOrders, []models.Order{})
	if err != nil {
		return models.Order{}, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	order := &orders[idx]
	if order.Status.Terminal() && status != order.Status {
		return *order, nil
	}

	now := s.now()
	order.Status = status
	order.UpdatedAt = now

	if status == models.StatusCooking && order.AcceptedAt == nil {
		order.AcceptedAt = &now
	}

	var receipt *models.Receipt
	if status == models.StatusCompleted && order.CompletedAt == nil {
		order.CompletedAt = &now
		receipt = s.buildReceipt(ctx, *order, branchID, now)
	}

	if err := store.Save(ctx, s.kv, store.KeyOrders, orders); err != nil {
		return models.Order{}, err
	}

	if receipt != nil {
		if err := s.appendReceipt(ctx, *receipt); err != nil {
			s.logger.Warn("receipt write failed",
				zap.String("orderId", order.ID),
				zap.Error(err),
			)
		}
	}

	s.publish(ctx, "order.status.updated", *order)
	return *order, nil
}

// SubmitFeedback attaches feedback to an order without a transition
// and fans one rating per distinct ordered item out to the global
// ratings collection and the owning menu items, recomputing each
// item's average. Resubmission replaces the order's earlier ratings,
// so one order contributes at most one rating per menu item.
func (s *Service) SubmitFeedback(ctx context.Context, orderID string, rating int, comment string) (models.Order, error) {
	if rating < 1 || rating > 5 {
		return models.Order{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	orders, err := store.Load(ctx, s.kv, store.KeyOrders, []models.Order{})
	if err != nil {
		return models.Order{}, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	order := &orders[idx]
	now := s.now()
	order.Feedback = &models.Feedback{Rating: rating, Comment: comment}
	order.UpdatedAt = now

	newRatings := make([]models.Rating, 0, len(order.Items))
	seen := make(map[string]bool, len(order.Items))
	for _, line := range order.Items {
		if seen[line.MenuItemID] {
			continue
		}
		seen[line.MenuItemID] = true
		newRatings = append(newRatings, models.Rating{
			ID:         uuid.NewString(),
			MenuItemID: line.MenuItemID,
			OrderID:    order.ID,
			CustomerID: order.CustomerPhone,
			Rating:     rating,
			Comment:    comment,
			CreatedAt:  now,
		})
	}

	if err := store.Save(ctx, s.kv, store.KeyOrders, orders); err != nil {
		return models.Order{}, err
	}

	ratings, err := store.Load(ctx, s.kv, store.KeyRatings, []models.Rating{})
	if err != nil {
		s.logger.Warn("ratings read failed", zap.Error(err))
	}
	ratings = append(withoutOrderRatings(ratings, order.ID), newRatings...)
	if err := store.Save(ctx, s.kv, store.KeyRatings, ratings); err != nil {
		s.logger.Warn("ratings write failed", zap.Error(err))
	}

	if err := s.attachRatingsToMenu(ctx, order.ID, newRatings); err != nil {
		s.logger.Warn("menu rating update failed", zap.Error(err))
	}

	s.publish(ctx, "order.feedback.created", *order)
	return *order, nil
}

// Orders returns the full order log, oldest first.
func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	return store.Load(ctx, s.kv, store.KeyOrders, []models.Order{})
}

func (s *Service) Order(ctx context.Context, id string) (models.Order, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return models.Order{}, err
	}
	for _, order := range orders {
		if order.ID == id {
			return order, nil
		}
	}
	return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
}

func (s *Service) Receipts(ctx context.Context) ([]models.Receipt, error) {
	return store.Load(ctx, s.kv, store.KeyReceipts, []models.Receipt{})
}

func (s *Service) buildReceipt(ctx context.Context, order models.Order, branchID string, now time.Time) *models.Receipt {
	branches, err := store.Load(ctx, s.kv, store.KeyBranches, []models.Branch{})
	if err != nil {
		s.logger.Warn("branch lookup failed", zap.Error(err))
		return nil
	}

	var branch *models.Branch
	for i := range branches {
		if branches[i].ID == branchID {
			branch = &branches[i]
			break
		}
	}
	if branch == nil {
		// Receipt attribution is best effort, not a transition guard.
		s.logger.Warn("receipt skipped: unknown branch",
			zap.String("orderId", order.ID),
			zap.String("branchId", branchID),
		)
		return nil
	}

	receipt := models.Receipt{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		TokenNumber:   order.TokenNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Items:         order.Items,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		BranchID:      order.BranchID,
		BranchName:    branch.Name,
		CreatedAt:     now,
	}
	if order.AcceptedAt != nil {
		receipt.TimeTaken = formatMinutes(now.Sub(*order.AcceptedAt))
	}
	return &receipt
}

func (s *Service) appendReceipt(ctx context.Context, receipt models.Receipt) error {
	receipts, err := store.Load(ctx, s.kv, store.KeyReceipts, []models.Receipt{})
	if err != nil {
		return err
	}
	receipts = append(receipts, receipt)
	return store.Save(ctx, s.kv, store.KeyReceipts, receipts)
}

func (s *Service) attachRatingsToMenu(ctx context.Context, orderID string, newRatings []models.Rating) error {
	if len(newRatings) == 0 {
		return nil
	}
	menu, err := store.Load(ctx, s.kv, store.KeyMenu, []models.MenuItem{})
	if err != nil {
		return err
	}

	byItem := make(map[string][]models.Rating, len(newRatings))
	for _, r := range newRatings {
		byItem[r.MenuItemID] = append(byItem[r.MenuItemID], r)
	}

	changed := false
	for i := range menu {
		added, ok := byItem[menu[i].ID]
		kept := withoutOrderRatings(menu[i].Ratings, orderID)
		if !ok && len(kept) == len(menu[i].Ratings) {
			continue
		}
		menu[i].Ratings = append(kept, added...)
		menu[i].AverageRating = averageRating(menu[i].Ratings)
		changed = true
	}
	if !changed {
		return nil
	}
	return store.Save(ctx, s.kv, store.KeyMenu, menu)
}

func withoutOrderRatings(ratings []models.Rating, orderID string) []models.Rating {
	kept := make([]models.Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.OrderID != orderID {
			kept = append(kept, r)
		}
	}
	return kept
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

func formatMinutes(d time.Duration) string {
	return fmt.Sprintf("%.1f mins", d.Minutes())
}

func (s *Service) publish(ctx context.Context, routingKey string, order models.Order) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, routingKey, order)
}
