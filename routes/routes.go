package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint. staff guards the kitchen and menu
// management routes.
func RegisterRoutes(server *gin.Engine, c *controllers.Controller, staff gin.HandlerFunc) {
	DefaultRoutes(server, c)
	AuthRoutes(server, c)
	CartRoutes(server, c)
	OrderRoutes(server, c, staff)
	MenuRoutes(server, c, staff)
	TableRoutes(server, c, staff)
	NotificationRoutes(server, c)
}
