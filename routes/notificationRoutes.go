package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func NotificationRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/notifications", c.GetNotifications)
	server.DELETE("/notifications", c.DismissNotifications)
}
