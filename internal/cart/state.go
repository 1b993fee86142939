package cart

import "github.com/Makepad-fr/gomarketplace/internal/model"

// The state helpers never modify old; each returns a fresh slice.

func indexOf(products []model.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// addState bumps an existing line, keeping its stored fields, or appends
// item with quantity 1.
func addState(old []model.Product, item model.Product) []model.Product {
	if indexOf(old, item.ID) >= 0 {
		return incrementState(old, item.ID)
	}
	item.Quantity = 1
	out := make([]model.Product, len(old), len(old)+1)
	copy(out, old)
	return append(out, item)
}

func incrementState(old []model.Product, id string) []model.Product {
	out := make([]model.Product, len(old))
	for i, p := range old {
		if p.ID == id {
			p.Quantity++
		}
		out[i] = p
	}
	return out
}

// decrementState stops at 1; a line is never removed this way.
func decrementState(old []model.Product, id string) []model.Product {
	out := make([]model.Product, len(old))
	for i, p := range old {
		if p.ID == id && p.Quantity > 1 {
			p.Quantity--
		}
		out[i] = p
	}
	return out
}
