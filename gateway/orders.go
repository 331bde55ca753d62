package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Kariqs/tablefy/models"
)

// CreateOrder submits an order and returns it with its server id and number.
func (c *Client) CreateOrder(ctx context.Context, p models.OrderPayload) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, request{method: http.MethodPost, path: "/orders", body: p}, &o)
	return o, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(id)}, &o)
	return o, err
}

// ListOrders returns a restaurant's orders, optionally filtered by status.
func (c *Client) ListOrders(ctx context.Context, restaurantID, status string) ([]models.Order, error) {
	query := map[string]string{"restaurant": restaurantID}
	if status != "" {
		query["status"] = status
	}
	var orders []models.Order
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders", query: query}, &orders)
	return orders, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/orders/" + url.PathEscape(id) + "/status",
		body:   map[string]string{"status": status},
	}, &o)
	return o, err
}
