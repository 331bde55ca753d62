package controllers

import (
	"context"
	"net/http"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/querycache"
	"github.com/Kariqs/tablefy/realtime"
	"github.com/gin-gonic/gin"
)

func menuKey(restaurant string) string { return realtime.KeyMenu + ":" + restaurant }

func (c *Controller) GetMenu(ctx *gin.Context) {
	restaurant := c.restaurantParam(ctx)
	items, err := querycache.Fetch(ctx.Request.Context(), c.Cache, menuKey(restaurant),
		func(rctx context.Context) ([]models.MenuItem, error) {
			return c.API.ListMenu(rctx, restaurant)
		})
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}

	if category := ctx.Query("category"); category != "" {
		filtered := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": items})
}

func (c *Controller) CreateMenuItem(ctx *gin.Context) {
	var item models.MenuItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	created, err := c.API.CreateMenuItem(ctx.Request.Context(), c.restaurantParam(ctx), item)
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Cache.Invalidate(realtime.KeyMenu)
	c.Feed.Success(created.Name + " added to the menu")
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Menu item created", "item": created})
}

func (c *Controller) UpdateMenuItem(ctx *gin.Context) {
	var item models.MenuItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	item.ID = ctx.Param("itemId")

	updated, err := c.API.UpdateMenuItem(ctx.Request.Context(), item)
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Cache.Invalidate(realtime.KeyMenu)
	c.Feed.Success(updated.Name + " saved")
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Menu item updated", "item": updated})
}

func (c *Controller) DeleteMenuItem(ctx *gin.Context) {
	if err := c.API.DeleteMenuItem(ctx.Request.Context(), ctx.Param("itemId")); err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Cache.Invalidate(realtime.KeyMenu)
	c.Feed.Success(msgMenuItemDeleted)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgMenuItemDeleted})
}
