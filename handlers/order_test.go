package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stevejford/sassiart/models"
	"github.com/stevejford/sassiart/realtime"

	"github.com/google/uuid"
)

func TestGetOrders(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-orders@test.com", true)
	artist, _ := seedStudent(db, "order-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Ordered Piece", false)
	seedOrder(db, product.ID, artwork.ID)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	orders := resp["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if resp["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", resp["total"])
	}
	order := orders[0].(map[string]interface{})
	items := order["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("expected order items to be preloaded, got %d", len(items))
	}
}

func TestGetOrdersStatusFilter(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-orders2@test.com", true)
	artist, _ := seedStudent(db, "filter-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Filter Piece", false)
	seedOrder(db, product.ID, artwork.ID)
	shipped := seedOrder(db, product.ID, artwork.ID)
	db.Model(&shipped).Update("status", models.OrderStatusShipped)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders?status=shipped", nil, adminToken))

	resp := parseResponse(w)
	orders := resp["orders"].([]interface{})
	if len(orders) != 1 {
		t.Errorf("expected 1 shipped order, got %d", len(orders))
	}
}

func TestGetOrdersSearch(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-orders3@test.com", true)
	artist, _ := seedStudent(db, "search-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Search Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	db.Model(&order).Update("customer_name", "Priya Patel")
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders?search=priya", nil, adminToken))

	resp := parseResponse(w)
	orders := resp["orders"].([]interface{})
	if len(orders) != 1 {
		t.Errorf("expected 1 match for customer name search, got %d", len(orders))
	}
}

func TestGetOrder(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-order@test.com", true)
	artist, _ := seedStudent(db, "single-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Single Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders/"+order.ID.String(), nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["order_number"] != order.OrderNumber {
		t.Errorf("wrong order returned: %v", resp["order_number"])
	}
}

func TestGetOrderNotFound(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-order2@test.com", true)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders/"+uuid.NewString(), nil, adminToken))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-status@test.com", true)
	artist, _ := seedStudent(db, "status-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Status Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	hub := realtime.NewHub()
	router := setupOrderRouter(db, hub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "processing",
	}, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	db.First(&updated, "id = ?", order.ID)
	if updated.Status != models.OrderStatusProcessing {
		t.Errorf("status not persisted: %s", updated.Status)
	}
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-status2@test.com", true)
	artist, _ := seedStudent(db, "status-artist2@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Skip Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	router := setupOrderRouter(db, nil)

	// pending cannot jump straight to delivered
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "delivered",
	}, adminToken))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for pending->delivered, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !strings.Contains(resp["error"].(string), "Invalid status transition") {
		t.Errorf("unexpected error: %v", resp["error"])
	}

	var unchanged models.Order
	db.First(&unchanged, "id = ?", order.ID)
	if unchanged.Status != models.OrderStatusPending {
		t.Errorf("rejected transition must not persist, status is %s", unchanged.Status)
	}
}

func TestUpdateOrderStatusTerminalStates(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-status3@test.com", true)
	artist, _ := seedStudent(db, "status-artist3@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Final Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	db.Model(&order).Update("status", models.OrderStatusCancelled)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "pending",
	}, adminToken))

	if w.Code != http.StatusBadRequest {
		t.Errorf("cancelled is terminal, expected 400, got %d", w.Code)
	}
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-cancel@test.com", true)
	artist, _ := seedStudent(db, "cancel-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Cancel Piece", false)
	order := seedOrder(db, product.ID, artwork.ID)
	db.Model(&order).Update("status", models.OrderStatusShipped)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "cancelled",
	}, adminToken))

	if w.Code != http.StatusOK {
		t.Errorf("shipped orders can still be cancelled, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAdminDashboard(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-dash@test.com", true)
	artist, _ := seedStudent(db, "dash-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Dash Piece", false)
	seedOrder(db, product.ID, artwork.ID)
	cancelled := seedOrder(db, product.ID, artwork.ID)
	db.Model(&cancelled).Update("status", models.OrderStatusCancelled)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/dashboard", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["total_orders"] != float64(2) {
		t.Errorf("expected 2 orders, got %v", resp["total_orders"])
	}
	// Cancelled orders do not count toward revenue
	if resp["total_revenue"] != 20.00 {
		t.Errorf("expected revenue 20.00 excluding cancelled, got %v", resp["total_revenue"])
	}
	if resp["pending_orders"] != float64(1) {
		t.Errorf("expected 1 pending order, got %v", resp["pending_orders"])
	}
	if resp["total_products"] != float64(1) {
		t.Errorf("expected 1 product, got %v", resp["total_products"])
	}
}

func TestExportOrders(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-export@test.com", true)
	artist, _ := seedStudent(db, "export-artist@test.com", false)
	product := seedProduct(db, "Ceramic Mug", 10.00)
	artwork := seedArtwork(db, artist.ID, "Export Piece", false)
	seedOrder(db, product.ID, artwork.ID)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders/export", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %s", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("expected spreadsheet bytes in the response")
	}
}

func TestGetOrderTransitions(t *testing.T) {
	db := freshDB()
	_, adminToken := seedStudent(db, "admin-trans@test.com", true)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders/transitions", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	pending, ok := resp["pending"].([]interface{})
	if !ok {
		t.Fatal("expected pending transitions in response")
	}
	if len(pending) != 2 {
		t.Errorf("pending should allow 2 transitions, got %d", len(pending))
	}
	delivered := resp["delivered"].([]interface{})
	if len(delivered) != 0 {
		t.Errorf("delivered is terminal, got %d transitions", len(delivered))
	}
}

func TestOrdersRequireAdmin(t *testing.T) {
	db := freshDB()
	_, token := seedStudent(db, "plain-orders@test.com", false)
	router := setupOrderRouter(db, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders", nil, token))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}
