package model

// Product is a catalog product and, once in the cart, a line item.
// Quantity is zero for catalog entries and at least 1 for cart lines.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Summary is the header info shown above a cart.
type Summary struct {
	Items int     `json:"items"`
	Total float64 `json:"total"`
}

// Summarize counts units and sums price*quantity.
func Summarize(products []Product) Summary {
	var s Summary
	for _, p := range products {
		s.Items += p.Quantity
		s.Total += p.Price * float64(p.Quantity)
	}
	return s
}
