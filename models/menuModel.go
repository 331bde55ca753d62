package models

// MenuItem is a dish as served by the remote menu endpoints.
type MenuItem struct {
	ID           string         `json:"id"`
	RestaurantID string         `json:"restaurant,omitempty"`
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	Price        float64        `json:"price" binding:"min=0"`
	Image        string         `json:"image"`
	Category     string         `json:"category"`
	Available    bool           `json:"available"`
	Extras       map[string]any `json:"extras,omitempty"`
}
