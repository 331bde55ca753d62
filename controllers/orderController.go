package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Kariqs/tablefy/checkout"
	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/querycache"
	"github.com/Kariqs/tablefy/realtime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Statuses the kitchen screen may move an order to.
const orderStatuses = "pending confirmed preparing ready served completed cancelled"

type orderStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed preparing ready served completed cancelled"`
}

func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req checkout.Request
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result, err := c.Checkout.PlaceOrder(ctx.Request.Context(), req)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		sendErrorResponse(ctx, http.StatusBadRequest, msgCartEmpty)
		return
	case errors.Is(err, checkout.ErrNoTable):
		sendErrorResponse(ctx, http.StatusBadRequest, msgNoTable)
		return
	case err != nil:
		sendGatewayError(ctx, err)
		return
	}

	if result.Queued != nil {
		sendJSONResponse(ctx, http.StatusAccepted, gin.H{
			"message": "You are offline. The order will be sent when the connection is back.",
			"queued":  result.Queued,
		})
		return
	}

	c.joinRoom(realtime.OrderRoom(result.Order.ID))
	c.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen)
	c.Cache.Set(realtime.OrderKey(result.Order.ID), *result.Order)
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order #" + result.Order.OrderNumber + " placed",
		"order":   result.Order,
	})
}

func (c *Controller) GetLastOrder(ctx *gin.Context) {
	id := c.Checkout.LastOrderID()
	if id == "" {
		sendErrorResponse(ctx, http.StatusNotFound, msgNoLastOrder)
		return
	}
	c.sendOrder(ctx, id)
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	c.sendOrder(ctx, ctx.Param("orderId"))
}

func (c *Controller) sendOrder(ctx *gin.Context, id string) {
	order, err := querycache.Fetch(ctx.Request.Context(), c.Cache, realtime.OrderKey(id),
		func(rctx context.Context) (models.Order, error) {
			return c.API.GetOrder(rctx, id)
		})
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *Controller) GetKitchenOrders(ctx *gin.Context) {
	c.sendOrders(ctx, realtime.KeyKitchen, ctx.Query("status"))
}

// GetBillingOrders lists orders that have been served and wait for payment.
func (c *Controller) GetBillingOrders(ctx *gin.Context) {
	c.sendOrders(ctx, realtime.KeyBilling, "served")
}

func (c *Controller) sendOrders(ctx *gin.Context, prefix, status string) {
	restaurant := c.restaurantParam(ctx)
	key := prefix + ":" + restaurant
	if status != "" {
		key += ":" + status
	}
	orders, err := querycache.Fetch(ctx.Request.Context(), c.Cache, key,
		func(rctx context.Context) ([]models.Order, error) {
			return c.API.ListOrders(rctx, restaurant, status)
		})
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	var input orderStatusInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "status must be one of: "+orderStatuses)
		return
	}

	id := ctx.Param("orderId")
	order, err := c.API.UpdateOrderStatus(ctx.Request.Context(), id, input.Status)
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen, realtime.KeyBilling, realtime.OrderKey(id))
	c.Feed.Success("Order #" + order.OrderNumber + " is now " + order.Status)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func (c *Controller) GetOfflineOrders(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": c.Queue.Pending()})
}

// SyncOfflineOrders sends the offline queue now. It waits for the pass,
// which serializes with a pass started by a reconnect.
func (c *Controller) SyncOfflineOrders(ctx *gin.Context) {
	result := c.Queue.Sync(ctx.Request.Context())
	c.Log.Info("manual offline sync",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("remaining", result.Remaining))
	if result.Succeeded > 0 {
		c.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen)
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"result": result})
}

func (c *Controller) restaurantParam(ctx *gin.Context) string {
	if id := ctx.Param("restaurantId"); id != "" {
		return id
	}
	return c.Restaurant
}
