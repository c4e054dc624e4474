package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/httpx"
	"github.com/MikeMC777/comercio-api/internal/order"
)

// orderService is what the order handlers need from the lifecycle service.
type orderService interface {
	CreateOrder(ctx context.Context, ownerID, shippingAddress, notes string, lines []order.InitialLine) (string, error)
	GetOrder(ctx context.Context, id string, caller auth.Identity) (*order.Order, error)
	ListOrders(ctx context.Context, q order.ListQuery, caller auth.Identity) ([]order.Order, order.Page, error)
	ListItems(ctx context.Context, orderID string, caller auth.Identity) ([]order.Item, error)
	UpdateFields(ctx context.Context, id string, shippingAddress, notes *string) error
	ChangeStatus(ctx context.Context, id, status string) error
	AddItem(ctx context.Context, orderID, productID string, quantity int, override *decimal.Decimal) (string, bool, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) error
	AdjustItemQuantity(ctx context.Context, orderID, itemID string, delta int) error
	RemoveItem(ctx context.Context, orderID, itemID string) error
	DeleteOrder(ctx context.Context, id string) error
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func listOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := httpx.CallerIdentity(c)
		q := order.ListQuery{
			Page:    intQuery(c, "page", 1),
			Limit:   intQuery(c, "limit", 10),
			Status:  order.Status(c.Query("status")),
			OwnerID: c.Query("owner_id"),
		}
		orders, page, err := svc.ListOrders(c.Request.Context(), q, caller)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Paged(c, orders, httpx.Pagination(page))
	}
}

func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := httpx.CallerIdentity(c)
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"), caller)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Data(c, http.StatusOK, o)
	}
}

func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		lines := make([]order.InitialLine, 0, len(req.Products))
		for _, p := range req.Products {
			lines = append(lines, order.InitialLine{
				ProductID: p.ProductID,
				Quantity:  p.Quantity,
				UnitPrice: p.UnitPrice,
			})
		}
		id, err := svc.CreateOrder(c.Request.Context(), req.OwnerID, req.ShippingAddress, req.Notes, lines)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusCreated, "order created", gin.H{"order_id": id})
	}
}

func updateOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := svc.UpdateFields(c.Request.Context(), c.Param("id"), req.ShippingAddress, req.Notes); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "order updated", nil)
	}
}

func updateOrderStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.ChangeStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			httpx.Error(c, http.StatusBadRequest, "the status field is required")
			return
		}
		if err := svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "status updated", nil)
	}
}

func listOrderItemsHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := httpx.CallerIdentity(c)
		items, err := svc.ListItems(c.Request.Context(), c.Param("id"), caller)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
	}
}

func addOrderItemHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			httpx.Error(c, http.StatusBadRequest, "product_id and quantity are required")
			return
		}
		itemID, merged, err := svc.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity, req.UnitPrice)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		if merged {
			httpx.Message(c, http.StatusOK, "quantity added to existing line", gin.H{"line_item_id": itemID})
			return
		}
		httpx.Message(c, http.StatusCreated, "product added to order", gin.H{"line_item_id": itemID})
	}
}

func updateOrderItemHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.LineItemID == "" {
			httpx.Error(c, http.StatusBadRequest, "line_item_id and quantity are required")
			return
		}
		if err := svc.UpdateItemQuantity(c.Request.Context(), c.Param("id"), req.LineItemID, req.Quantity); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "quantity updated", nil)
	}
}

func adjustOrderItemHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			LineItemID string `json:"line_item_id"`
			Delta      *int   `json:"delta"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.LineItemID == "" || req.Delta == nil {
			httpx.Error(c, http.StatusBadRequest, "line_item_id and delta are required")
			return
		}
		// a zero delta is a valid no-op; only absence is rejected
		if err := svc.AdjustItemQuantity(c.Request.Context(), c.Param("id"), req.LineItemID, *req.Delta); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "quantity adjusted", nil)
	}
}

func removeOrderItemHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.RemoveItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.LineItemID == "" {
			httpx.Error(c, http.StatusBadRequest, "the line_item_id field is required")
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), c.Param("id"), req.LineItemID); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "product removed from order", nil)
	}
}

func deleteOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Message(c, http.StatusOK, "order deleted", nil)
	}
}
