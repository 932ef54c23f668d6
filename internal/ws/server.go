// Package ws pushes the polled order state to kitchen displays over
// websocket. The hub rides the same change feed the HTTP layer uses;
// clients get a snapshot on connect and a fresh one on every change.
package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"cafesync-order-service/internal/feed"
	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	Store    store.KeyValueStore
	Feed     *feed.Feed
	Notifier *feed.PendingNotifier
	Logger   *zap.Logger

	started sync.Once
	mu      sync.RWMutex
	subs    map[string]map[*wsRealtimeClient]struct{}
}

func New(kv store.KeyValueStore, f *feed.Feed, notifier *feed.PendingNotifier, logger *zap.Logger) *Server {
	return &Server{
		Store:    kv,
		Feed:     f,
		Notifier: notifier,
		Logger:   logger,
		subs:     make(map[string]map[*wsRealtimeClient]struct{}),
	}
}

type wsRealtimeClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsRealtimeClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

type ordersChangedMessage struct {
	Type   string         `json:"type"`
	Orders []models.Order `json:"orders"`
}

type pendingMessage struct {
	Type      string `json:"type"`
	BranchID  string `json:"branchId"`
	NewOrders int    `json:"newOrders"`
	Pending   int    `json:"pending"`
}

// HandleKitchenOrders upgrades the connection and streams order
// changes for one branch. An empty branchId streams every branch.
func (s *Server) HandleKitchenOrders(w http.ResponseWriter, r *http.Request) {
	branchID := strings.TrimSpace(r.URL.Query().Get("branchId"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsRealtimeClient{conn: conn}
	s.ensureStarted()
	unsubscribe := s.subscribe(branchID, client)
	defer func() {
		unsubscribe()
		_ = conn.Close()
	}()

	s.sendSnapshot(r, branchID, client)

	// Drain incoming frames until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// sendSnapshot delivers the current order state immediately so a new
// client is not blind until the next content change.
func (s *Server) sendSnapshot(r *http.Request, branchID string, client *wsRealtimeClient) {
	orders, err := store.Load(r.Context(), s.Store, store.KeyOrders, []models.Order{})
	if err != nil {
		s.Logger.Warn("order snapshot load failed", zap.Error(err))
		return
	}
	if branchID != "" {
		orders = filterByBranch(orders, branchID)
	}
	if err := client.writeJSON(ordersChangedMessage{Type: "orders.changed", Orders: orders}); err != nil {
		s.Logger.Warn("order snapshot write failed", zap.Error(err))
	}
}

func (s *Server) ensureStarted() {
	s.started.Do(func() {
		s.Feed.Subscribe(store.KeyOrders, feed.DefaultInterval, []byte("[]"), s.handleOrdersChanged)
		s.Notifier.Subscribe("", func(ev feed.PendingEvent) {
			msg := pendingMessage{
				Type:      "orders.pending",
				BranchID:  ev.BranchID,
				NewOrders: ev.NewOrders,
				Pending:   ev.Pending,
			}
			s.broadcast(ev.BranchID, msg)
			s.broadcast("", msg)
		})
	})
}

func (s *Server) subscribe(branchID string, client *wsRealtimeClient) (unsubscribe func()) {
	s.mu.Lock()
	if s.subs[branchID] == nil {
		s.subs[branchID] = make(map[*wsRealtimeClient]struct{})
	}
	s.subs[branchID][client] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		clients := s.subs[branchID]
		delete(clients, client)
		if len(clients) == 0 {
			delete(s.subs, branchID)
		}
		s.mu.Unlock()
	}
}

func (s *Server) handleOrdersChanged(raw []byte) {
	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		s.Logger.Warn("orders feed produced invalid blob", zap.Error(err))
		return
	}

	s.mu.RLock()
	branches := make([]string, 0, len(s.subs))
	for branchID := range s.subs {
		branches = append(branches, branchID)
	}
	s.mu.RUnlock()

	for _, branchID := range branches {
		view := orders
		if branchID != "" {
			view = filterByBranch(orders, branchID)
		}
		s.broadcast(branchID, ordersChangedMessage{Type: "orders.changed", Orders: view})
	}
}

func filterByBranch(orders []models.Order, branchID string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.BranchID == branchID {
			out = append(out, order)
		}
	}
	return out
}

func (s *Server) broadcast(branchID string, message any) {
	s.mu.RLock()
	clientsMap := s.subs[branchID]
	clients := make([]*wsRealtimeClient, 0, len(clientsMap))
	for c := range clientsMap {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			s.mu.Lock()
			if current := s.subs[branchID]; current != nil {
				delete(current, c)
				if len(current) == 0 {
					delete(s.subs, branchID)
				}
			}
			s.mu.Unlock()
		}
	}
}
