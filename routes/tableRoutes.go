package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func TableRoutes(server *gin.Engine, c *controllers.Controller, staff gin.HandlerFunc) {
	server.POST("/table/:tableId", c.SelectTable)
	server.POST("/table/:tableId/service-request", c.CreateServiceRequest)
	server.GET("/service-requests/:restaurantId", staff, c.GetServiceRequests)
	server.POST("/review", c.SubmitReview)
}
