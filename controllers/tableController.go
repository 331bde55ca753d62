package controllers

import (
	"context"
	"net/http"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/querycache"
	"github.com/Kariqs/tablefy/realtime"
	"github.com/gin-gonic/gin"
)

type serviceRequestInput struct {
	Type    string `json:"type" binding:"required,oneof=call_waiter request_bill water"`
	Message string `json:"message"`
}

func (c *Controller) SelectTable(ctx *gin.Context) {
	table, err := c.Checkout.SelectTable(ctx.Request.Context(), ctx.Param("tableId"))
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"table": table})
}

func (c *Controller) CreateServiceRequest(ctx *gin.Context) {
	var input serviceRequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	created, err := c.API.CreateServiceRequest(ctx.Request.Context(), models.ServiceRequest{
		Restaurant: c.Restaurant,
		Table:      ctx.Param("tableId"),
		Type:       input.Type,
		Message:    input.Message,
	})
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Cache.Invalidate(realtime.KeyServiceRequests)
	c.Feed.Success("A member of staff is on the way")
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Request sent", "request": created})
}

func (c *Controller) GetServiceRequests(ctx *gin.Context) {
	restaurant := c.restaurantParam(ctx)
	requests, err := querycache.Fetch(ctx.Request.Context(), c.Cache, realtime.KeyServiceRequests+":"+restaurant,
		func(rctx context.Context) ([]models.ServiceRequest, error) {
			return c.API.ListServiceRequests(rctx, restaurant)
		})
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"requests": requests})
}

func (c *Controller) SubmitReview(ctx *gin.Context) {
	review := models.Review{Restaurant: c.Restaurant}
	if err := ctx.ShouldBindJSON(&review); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if review.Order == "" {
		review.Order = c.Checkout.LastOrderID()
	}

	created, err := c.API.SubmitReview(ctx.Request.Context(), review)
	if err != nil {
		sendGatewayError(ctx, err)
		return
	}
	c.Feed.Success("Thank you for your review")
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Review submitted", "review": created})
}
