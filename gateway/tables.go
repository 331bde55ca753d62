package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Kariqs/tablefy/models"
)

// GetTable resolves the table a QR code points at.
func (c *Client) GetTable(ctx context.Context, id string) (models.Table, error) {
	var t models.Table
	err := c.do(ctx, request{method: http.MethodGet, path: "/tables/" + url.PathEscape(id)}, &t)
	return t, err
}

func (c *Client) CreateServiceRequest(ctx context.Context, sr models.ServiceRequest) (models.ServiceRequest, error) {
	var created models.ServiceRequest
	err := c.do(ctx, request{method: http.MethodPost, path: "/service-requests", body: sr}, &created)
	return created, err
}

func (c *Client) SubmitReview(ctx context.Context, r models.Review) (models.Review, error) {
	var created models.Review
	err := c.do(ctx, request{method: http.MethodPost, path: "/reviews", body: r}, &created)
	return created, err
}

// ListServiceRequests returns the open waiter/bill requests of a restaurant.
func (c *Client) ListServiceRequests(ctx context.Context, restaurantID string) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/service-requests",
		query:  map[string]string{"restaurant": restaurantID},
	}, &requests)
	return requests, err
}
