package models

// CartLine is one distinct item + instructions entry of the cart.
type CartLine struct {
	ItemID              string         `json:"itemId"`
	Name                string         `json:"name"`
	Price               float64        `json:"price"`
	Quantity            int            `json:"quantity"`
	SpecialInstructions string         `json:"specialInstructions"`
	Image               string         `json:"image,omitempty"`
	Category            string         `json:"category,omitempty"`
	Description         string         `json:"description,omitempty"`
	Extras              map[string]any `json:"extras,omitempty"`
}

// Matches reports whether the line has the given identity.
func (l CartLine) Matches(itemID, specialInstructions string) bool {
	return l.ItemID == itemID && l.SpecialInstructions == specialInstructions
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

type CartSummary struct {
	Items    []CartLine `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Count    int        `json:"count"`
}
