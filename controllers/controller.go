package controllers

import (
	"net/http"

	"github.com/Kariqs/tablefy/cart"
	"github.com/Kariqs/tablefy/checkout"
	"github.com/Kariqs/tablefy/gateway"
	"github.com/Kariqs/tablefy/notify"
	"github.com/Kariqs/tablefy/offline"
	"github.com/Kariqs/tablefy/querycache"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidInput     = "invalid input"
	msgCartEmpty        = "Your cart is empty"
	msgNoTable          = "Scan the QR code on your table first"
	msgNoLastOrder      = "No order has been placed from this device"
	msgItemRemoved      = "Item removed from cart"
	msgCartCleared      = "Cart cleared"
	msgQuantityUpdated  = "Quantity updated"
	msgLoggedOut        = "Logged out"
	msgMenuItemDeleted  = "Menu item deleted"
	msgNotificationsOff = "Notifications dismissed"
)

// Rooms is the part of the realtime channel the handlers use.
type Rooms interface {
	Join(room string) error
}

type Controller struct {
	Cart     *cart.Store
	Queue    *offline.Queue
	Checkout *checkout.Service
	API      *gateway.Client
	Cache    *querycache.Cache
	Feed     *notify.Feed
	Rooms    Rooms
	Log      *zap.Logger

	// Restaurant is used by routes that do not name one.
	Restaurant string
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// sendGatewayError answers with the API's own status and message. A request
// that never reached the API is a 502.
func sendGatewayError(ctx *gin.Context, err error) {
	status := gateway.StatusCode(err)
	switch {
	case gateway.IsUnreachable(err):
		status = http.StatusBadGateway
	case status == 0 || status < http.StatusBadRequest:
		status = http.StatusBadGateway
	}
	sendErrorResponse(ctx, status, gateway.UserMessage(err))
}

func (c *Controller) joinRoom(room string) {
	if c.Rooms == nil {
		return
	}
	if err := c.Rooms.Join(room); err != nil {
		c.Log.Warn("join room", zap.String("room", room), zap.Error(err))
	}
}
