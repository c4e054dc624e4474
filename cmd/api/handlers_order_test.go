package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/order"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}

// stubOrderService lets each test wire just the method it exercises.
type stubOrderService struct {
	createOrder        func(ctx context.Context, ownerID, shippingAddress, notes string, lines []order.InitialLine) (string, error)
	getOrder           func(ctx context.Context, id string, caller auth.Identity) (*order.Order, error)
	listOrders         func(ctx context.Context, q order.ListQuery, caller auth.Identity) ([]order.Order, order.Page, error)
	listItems          func(ctx context.Context, orderID string, caller auth.Identity) ([]order.Item, error)
	updateFields       func(ctx context.Context, id string, shippingAddress, notes *string) error
	changeStatus       func(ctx context.Context, id, status string) error
	addItem            func(ctx context.Context, orderID, productID string, quantity int, override *decimal.Decimal) (string, bool, error)
	updateItemQuantity func(ctx context.Context, orderID, itemID string, quantity int) error
	adjustItemQuantity func(ctx context.Context, orderID, itemID string, delta int) error
	removeItem         func(ctx context.Context, orderID, itemID string) error
	deleteOrder        func(ctx context.Context, id string) error
}

func (s *stubOrderService) CreateOrder(ctx context.Context, ownerID, shippingAddress, notes string, lines []order.InitialLine) (string, error) {
	return s.createOrder(ctx, ownerID, shippingAddress, notes, lines)
}
func (s *stubOrderService) GetOrder(ctx context.Context, id string, caller auth.Identity) (*order.Order, error) {
	return s.getOrder(ctx, id, caller)
}
func (s *stubOrderService) ListOrders(ctx context.Context, q order.ListQuery, caller auth.Identity) ([]order.Order, order.Page, error) {
	return s.listOrders(ctx, q, caller)
}
func (s *stubOrderService) ListItems(ctx context.Context, orderID string, caller auth.Identity) ([]order.Item, error) {
	return s.listItems(ctx, orderID, caller)
}
func (s *stubOrderService) UpdateFields(ctx context.Context, id string, shippingAddress, notes *string) error {
	return s.updateFields(ctx, id, shippingAddress, notes)
}
func (s *stubOrderService) ChangeStatus(ctx context.Context, id, status string) error {
	return s.changeStatus(ctx, id, status)
}
func (s *stubOrderService) AddItem(ctx context.Context, orderID, productID string, quantity int, override *decimal.Decimal) (string, bool, error) {
	return s.addItem(ctx, orderID, productID, quantity, override)
}
func (s *stubOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) error {
	return s.updateItemQuantity(ctx, orderID, itemID, quantity)
}
func (s *stubOrderService) AdjustItemQuantity(ctx context.Context, orderID, itemID string, delta int) error {
	return s.adjustItemQuantity(ctx, orderID, itemID, delta)
}
func (s *stubOrderService) RemoveItem(ctx context.Context, orderID, itemID string) error {
	return s.removeItem(ctx, orderID, itemID)
}
func (s *stubOrderService) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteOrder(ctx, id)
}

func asCaller(id auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		httpx.SetIdentity(c, id)
		c.Next()
	}
}

func orderRouter(svc orderService, caller auth.Identity) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/orders", asCaller(caller))
	g.GET("", listOrdersHandler(svc))
	g.GET("/:id", getOrderHandler(svc))
	g.GET("/:id/items", listOrderItemsHandler(svc))
	g.POST("", createOrderHandler(svc))
	g.PUT("/:id", updateOrderHandler(svc))
	g.PUT("/:id/status", updateOrderStatusHandler(svc))
	g.POST("/:id/items", addOrderItemHandler(svc))
	g.PUT("/:id/items", updateOrderItemHandler(svc))
	g.PATCH("/:id/items", adjustOrderItemHandler(svc))
	g.DELETE("/:id/items", removeOrderItemHandler(svc))
	g.DELETE("/:id", deleteOrderHandler(svc))
	return r
}

func perform(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v (%s)", err, w.Body.String())
	}
	return out
}

var adminCaller = auth.Identity{ID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin}

func TestListOrdersPassesQueryAndCaller(t *testing.T) {
	var got order.ListQuery
	svc := &stubOrderService{
		listOrders: func(_ context.Context, q order.ListQuery, caller auth.Identity) ([]order.Order, order.Page, error) {
			got = q
			if caller.ID != adminCaller.ID {
				t.Errorf("caller = %q, want %q", caller.ID, adminCaller.ID)
			}
			return []order.Order{{ID: "ord-1"}}, order.Page{Page: 2, Limit: 5, Total: 6, TotalPages: 2}, nil
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodGet, "/api/orders?page=2&limit=5&status=pending&owner_id=u-9", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got.Page != 2 || got.Limit != 5 || got.Status != order.StatusPending || got.OwnerID != "u-9" {
		t.Fatalf("query not forwarded: %+v", got)
	}
	body := decode(t, w)
	pg, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("missing pagination block: %v", body)
	}
	if pg["total_pages"] != float64(2) {
		t.Errorf("total_pages = %v, want 2", pg["total_pages"])
	}
}

func TestGetOrderStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", order.ErrNotFound, http.StatusNotFound},
		{"forbidden", order.ErrForbidden, http.StatusForbidden},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{
				getOrder: func(context.Context, string, auth.Identity) (*order.Order, error) {
					return nil, tc.err
				},
			}
			w := perform(t, orderRouter(svc, adminCaller), http.MethodGet, "/api/orders/ord-1", "")
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if ok, _ := decode(t, w)["success"].(bool); ok {
				t.Error("success = true on error response")
			}
		})
	}
}

func TestCreateOrderReturnsID(t *testing.T) {
	svc := &stubOrderService{
		createOrder: func(_ context.Context, ownerID, addr, notes string, lines []order.InitialLine) (string, error) {
			if ownerID != "u-1" || addr != "Main St 1" {
				t.Errorf("unexpected args %q %q", ownerID, addr)
			}
			if len(lines) != 1 || lines[0].ProductID != "p-1" || lines[0].Quantity != 3 {
				t.Errorf("lines not forwarded: %+v", lines)
			}
			return "ord-9", nil
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodPost, "/api/orders",
		`{"owner_id":"u-1","shipping_address":"Main St 1","products":[{"product_id":"p-1","quantity":3}]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if got := decode(t, w)["order_id"]; got != "ord-9" {
		t.Errorf("order_id = %v, want ord-9", got)
	}
}

func TestCreateOrderValidationIs400(t *testing.T) {
	svc := &stubOrderService{
		createOrder: func(context.Context, string, string, string, []order.InitialLine) (string, error) {
			return "", &order.ValidationError{Reason: "the shipping_address field is required"}
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodPost, "/api/orders", `{"owner_id":"u-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateStatusRequiresField(t *testing.T) {
	called := false
	svc := &stubOrderService{
		changeStatus: func(context.Context, string, string) error { called = true; return nil },
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodPut, "/api/orders/ord-1/status", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Error("service called with empty status")
	}
}

func TestAddItemMergedVersusCreated(t *testing.T) {
	for _, tc := range []struct {
		name   string
		merged bool
		want   int
	}{
		{"new line", false, http.StatusCreated},
		{"merged line", true, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{
				addItem: func(_ context.Context, orderID, productID string, quantity int, override *decimal.Decimal) (string, bool, error) {
					if orderID != "ord-1" || productID != "p-1" || quantity != 2 {
						t.Errorf("unexpected args %q %q %d", orderID, productID, quantity)
					}
					if override == nil || !override.Equal(decimal.RequireFromString("12.50")) {
						t.Errorf("override = %v, want 12.50", override)
					}
					return "li-1", tc.merged, nil
				},
			}
			w := perform(t, orderRouter(svc, adminCaller), http.MethodPost, "/api/orders/ord-1/items",
				`{"product_id":"p-1","quantity":2,"unit_price":"12.50"}`)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if got := decode(t, w)["line_item_id"]; got != "li-1" {
				t.Errorf("line_item_id = %v", got)
			}
		})
	}
}

func TestAddItemLockedOrderIs400(t *testing.T) {
	svc := &stubOrderService{
		addItem: func(context.Context, string, string, int, *decimal.Decimal) (string, bool, error) {
			return "", false, &order.LockedError{Status: order.StatusShipped}
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodPost, "/api/orders/ord-1/items",
		`{"product_id":"p-1","quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg, _ := decode(t, w)["error"].(string); !strings.Contains(msg, "shipped") {
		t.Errorf("error message %q does not name the status", msg)
	}
}

func TestAdjustItemDeltaHandling(t *testing.T) {
	var gotDelta int
	svc := &stubOrderService{
		adjustItemQuantity: func(_ context.Context, _, _ string, delta int) error {
			gotDelta = delta
			return nil
		},
	}
	r := orderRouter(svc, adminCaller)

	// zero is a valid no-op and still reaches the service
	w := perform(t, r, http.MethodPatch, "/api/orders/ord-1/items",
		`{"line_item_id":"li-1","delta":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotDelta != 0 {
		t.Errorf("delta = %d, want 0", gotDelta)
	}

	w = perform(t, r, http.MethodPatch, "/api/orders/ord-1/items",
		`{"line_item_id":"li-1","delta":-2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotDelta != -2 {
		t.Errorf("delta = %d, want -2", gotDelta)
	}

	// an absent delta is rejected before the service sees the request
	gotDelta = 99
	w = perform(t, r, http.MethodPatch, "/api/orders/ord-1/items",
		`{"line_item_id":"li-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if gotDelta != 99 {
		t.Error("service called without a delta")
	}
}

func TestRemoveItemUnknownLineIs404(t *testing.T) {
	svc := &stubOrderService{
		removeItem: func(context.Context, string, string) error { return order.ErrItemNotFound },
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodDelete, "/api/orders/ord-1/items",
		`{"line_item_id":"li-404"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListItemsCount(t *testing.T) {
	svc := &stubOrderService{
		listItems: func(context.Context, string, auth.Identity) ([]order.Item, error) {
			return []order.Item{{ID: "li-1"}, {ID: "li-2"}}, nil
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodGet, "/api/orders/ord-1/items", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode(t, w)["count"]; got != float64(2) {
		t.Errorf("count = %v, want 2", got)
	}
}

func TestDeleteOrder(t *testing.T) {
	svc := &stubOrderService{
		deleteOrder: func(_ context.Context, id string) error {
			if id != "ord-1" {
				t.Errorf("id = %q", id)
			}
			return nil
		},
	}
	w := perform(t, orderRouter(svc, adminCaller), http.MethodDelete, "/api/orders/ord-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
