package domain

// CartItem is a catalog service plus a quantity. Quantity is always >= 1;
// an update that would drop it to zero removes the line instead.
type CartItem struct {
	ServiceID int64   `json:"service_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
}
