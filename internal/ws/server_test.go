package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cafesync-order-service/internal/feed"
	"cafesync-order-service/internal/models"
	"cafesync-order-service/internal/store"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestKitchenSocketSendsSnapshotOnConnect(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	err := store.Save(ctx, kv, store.KeyOrders, []models.Order{
		{ID: "o1", BranchID: "1", Status: models.StatusPending},
		{ID: "o2", BranchID: "2", Status: models.StatusCooking},
	})
	if err != nil {
		t.Fatalf("seed orders: %v", err)
	}

	log := zap.NewNop()
	f := feed.New(kv, log)
	notifier := feed.NewPendingNotifier(f, time.Minute, log)
	defer notifier.Close()

	srv := New(kv, f, notifier, log)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleKitchenOrders))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?branchId=1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ordersChangedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if msg.Type != "orders.changed" {
		t.Fatalf("expected orders.changed, got %q", msg.Type)
	}
	if len(msg.Orders) != 1 || msg.Orders[0].ID != "o1" {
		t.Fatalf("expected branch-1 snapshot, got %+v", msg.Orders)
	}
}
