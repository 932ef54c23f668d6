package feed

import (
	"encoding/json"
	"sync"
	"time"

	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"go.uber.org/zap"
)

// PendingEvent fires when a branch's pending-order count grows. The
// UI layer decides how to render it (audio cue, toast); the core only
// supplies the numbers.
type PendingEvent struct {
	BranchID  string `json:"branchId"`
	NewOrders int    `json:"newOrders"`
	Pending   int    `json:"pending"`
}

// PendingNotifier watches the orders collection through one shared
// change-feed subscription and fans pending-count growth out to
// per-branch listeners.
type PendingNotifier struct {
	logger *zap.Logger
	cancel func()

	mu        sync.Mutex
	lastCount map[string]int
	nextID    int
	listeners map[string]map[int]func(PendingEvent)
}

func NewPendingNotifier(f *Feed, interval time.Duration, logger *zap.Logger) *PendingNotifier {
	n := &PendingNotifier{
		logger:    logger,
		lastCount: make(map[string]int),
		listeners: make(map[string]map[int]func(PendingEvent)),
	}
	n.cancel = f.Subscribe(store.KeyOrders, interval, []byte("[]"), n.handleOrders)
	return n
}

func (n *PendingNotifier) Close() {
	n.cancel()
}

// Subscribe registers a listener for one branch. An empty branch id
// listens to every branch.
func (n *PendingNotifier) Subscribe(branchID string, fn func(PendingEvent)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners[branchID] == nil {
		n.listeners[branchID] = make(map[int]func(PendingEvent))
	}
	id := n.nextID
	n.nextID++
	n.listeners[branchID][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners[branchID], id)
		if len(n.listeners[branchID]) == 0 {
			delete(n.listeners, branchID)
		}
	}
}

func (n *PendingNotifier) handleOrders(raw []byte) {
	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		n.logger.Warn("pending notifier received invalid orders blob", zap.Error(err))
		return
	}

	counts := make(map[string]int)
	for _, order := range orders {
		if order.Status == models.StatusPending {
			counts[order.BranchID]++
		}
	}

	n.mu.Lock()
	var events []PendingEvent
	for branchID, count := range counts {
		if count > n.lastCount[branchID] {
			events = append(events, PendingEvent{
				BranchID:  branchID,
				NewOrders: count - n.lastCount[branchID],
				Pending:   count,
			})
		}
	}
	n.lastCount = counts

	var fire []func(PendingEvent)
	var fireEvents []PendingEvent
	for _, ev := range events {
		for _, fn := range n.listeners[ev.BranchID] {
			fire = append(fire, fn)
			fireEvents = append(fireEvents, ev)
		}
		for _, fn := range n.listeners[""] {
			fire = append(fire, fn)
			fireEvents = append(fireEvents, ev)
		}
	}
	n.mu.Unlock()

	for i, fn := range fire {
		fn(fireEvents[i])
	}
}
