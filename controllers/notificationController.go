package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (c *Controller) GetNotifications(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"notifications": c.Feed.Recent()})
}

func (c *Controller) DismissNotifications(ctx *gin.Context) {
	c.Feed.Dismiss()
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgNotificationsOff})
}
