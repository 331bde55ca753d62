package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, c *controllers.Controller, staff gin.HandlerFunc) {
	server.POST("/checkout", c.PlaceOrder)
	server.GET("/order/last", c.GetLastOrder)
	server.GET("/order/:orderId", c.GetOrder)

	server.GET("/kitchen/:restaurantId/orders", staff, c.GetKitchenOrders)
	server.GET("/billing/:restaurantId/orders", staff, c.GetBillingOrders)
	server.PATCH("/order/:orderId/status", staff, c.UpdateOrderStatus)

	offline := server.Group("/offline")
	{
		offline.GET("/orders", c.GetOfflineOrders)
		offline.POST("/sync", c.SyncOfflineOrders)
	}
}
