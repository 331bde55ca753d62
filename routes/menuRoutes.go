package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func MenuRoutes(server *gin.Engine, c *controllers.Controller, staff gin.HandlerFunc) {
	server.GET("/menu/:restaurantId", c.GetMenu)
	server.POST("/menu/:restaurantId", staff, c.CreateMenuItem)
	server.PUT("/menu-item/:itemId", staff, c.UpdateMenuItem)
	server.DELETE("/menu-item/:itemId", staff, c.DeleteMenuItem)
}
