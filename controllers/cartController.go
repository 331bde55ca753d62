package controllers

import (
	"net/http"

	"github.com/Kariqs/tablefy/models"
	"github.com/gin-gonic/gin"
)

type addToCartInput struct {
	Item                models.MenuItem `json:"item"`
	Quantity            int             `json:"quantity" binding:"omitempty,min=1"`
	SpecialInstructions string          `json:"specialInstructions"`
}

type cartLineInput struct {
	ItemID              string `json:"itemId" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
}

type quantityInput struct {
	cartLineInput
	Delta int `json:"delta" binding:"required"`
}

func (c *Controller) GetCart(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": c.Cart.Summary()})
}

func (c *Controller) AddCartItem(ctx *gin.Context) {
	var input addToCartInput
	if err := ctx.ShouldBindJSON(&input); err != nil || input.Item.ID == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	c.Cart.AddToCart(input.Item, input.Quantity, input.SpecialInstructions)
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": input.Item.Name + " added to cart",
		"cart":    c.Cart.Summary(),
	})
}

func (c *Controller) UpdateCartQuantity(ctx *gin.Context) {
	var input quantityInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if _, ok := c.Cart.Line(input.ItemID, input.SpecialInstructions); !ok {
		sendErrorResponse(ctx, http.StatusNotFound, "Item is not in the cart")
		return
	}

	c.Cart.UpdateQuantity(input.ItemID, input.SpecialInstructions, input.Delta)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgQuantityUpdated, "cart": c.Cart.Summary()})
}

func (c *Controller) RemoveCartItem(ctx *gin.Context) {
	var input cartLineInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	c.Cart.RemoveFromCart(input.ItemID, input.SpecialInstructions)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgItemRemoved, "cart": c.Cart.Summary()})
}

func (c *Controller) ClearCart(ctx *gin.Context) {
	c.Cart.ClearCart()
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgCartCleared, "cart": c.Cart.Summary()})
}
