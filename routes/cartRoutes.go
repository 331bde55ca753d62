package routes

import (
	"github.com/Kariqs/tablefy/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, c *controllers.Controller) {
	cart := server.Group("/cart")
	{
		cart.GET("", c.GetCart)
		cart.POST("", c.AddCartItem)
		cart.PATCH("/quantity", c.UpdateCartQuantity)
		cart.DELETE("/item", c.RemoveCartItem)
		cart.DELETE("", c.ClearCart)
	}
}
