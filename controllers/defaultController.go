package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Controller) GetHome(ctx *gin.Context) {
	message := `Tablefy device client. The screen talks to these endpoints:

CART
- GET "/cart" - Current cart with subtotal and item count
- POST "/cart" - Add an item (merges on item and instructions)
- PATCH "/cart/quantity" - Change a line's quantity by a delta
- DELETE "/cart/item" - Remove a line
- DELETE "/cart" - Empty the cart

ORDER
- POST "/checkout" - Place the cart as an order (queued when offline)
- GET "/order/last" - Last order placed from this device
- GET "/order/:orderId" - Get order by ID

TABLE
- POST "/table/:tableId" - Select the scanned table
- POST "/table/:tableId/service-request" - Call a waiter or ask for the bill
- POST "/review" - Leave a review

MENU
- GET "/menu/:restaurantId" - Menu of a restaurant
- POST "/menu/:restaurantId" - Create menu item (staff)
- PUT "/menu-item/:itemId" - Update menu item (staff)
- DELETE "/menu-item/:itemId" - Delete menu item (staff)

KITCHEN (staff)
- GET "/kitchen/:restaurantId/orders" - Orders to prepare
- GET "/billing/:restaurantId/orders" - Orders awaiting payment
- GET "/service-requests/:restaurantId" - Open service requests
- PATCH "/order/:orderId/status" - Move an order along

OFFLINE
- GET "/offline/orders" - Orders waiting for the connection
- POST "/offline/sync" - Send them now

AUTH
- POST "/auth/login" - Staff login
- POST "/auth/logout" - Staff logout

NOTIFICATIONS
- GET "/notifications" - Recent notifications
- DELETE "/notifications" - Dismiss them`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func (c *Controller) GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"online":         c.Checkout.Online(),
		"pendingOffline": c.Queue.Len(),
	})
}
