package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/", c.GetHome)
	server.GET("/health", c.GetHealth)
}
