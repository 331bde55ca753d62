package controllers

import (
	"net/http"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/realtime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (c *Controller) Login(ctx *gin.Context) {
	var creds models.LoginData
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	res, err := c.API.Login(ctx.Request.Context(), creds)
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	if res.User.Restaurant != "" {
		c.joinRoom(realtime.KitchenRoom(res.User.Restaurant))
	}
	c.Log.Info("staff logged in", zap.String("user", res.User.ID), zap.String("role", res.User.Role))
	c.Feed.Success("Welcome back, " + res.User.Fullname)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Logged in", "user": res.User})
}

func (c *Controller) Logout(ctx *gin.Context) {
	if err := c.API.Logout(ctx.Request.Context()); err != nil {
		c.Log.Warn("logout not confirmed by api", zap.Error(err))
	}
	c.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen, realtime.KeyBilling, realtime.KeyServiceRequests)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}
