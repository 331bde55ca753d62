package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Kariqs/tablefy/models"
)

func (c *Client) ListMenu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/menu-items",
		query:  map[string]string{"restaurant": restaurantID},
	}, &items)
	return items, err
}

func (c *Client) CreateMenuItem(ctx context.Context, restaurantID string, item models.MenuItem) (models.MenuItem, error) {
	item.RestaurantID = restaurantID
	var created models.MenuItem
	err := c.do(ctx, request{method: http.MethodPost, path: "/menu-items", body: item}, &created)
	return created, err
}

func (c *Client) UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	var updated models.MenuItem
	err := c.do(ctx, request{method: http.MethodPut, path: "/menu-items/" + url.PathEscape(item.ID), body: item}, &updated)
	return updated, err
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/menu-items/" + url.PathEscape(id)}, nil)
}
