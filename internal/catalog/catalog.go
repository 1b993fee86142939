// Package catalog supplies the products a user can put in the cart.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Makepad-fr/gomarketplace/internal/model"
)

// Default is the built-in catalog used when no file is configured.
func Default() []model.Product {
	return []model.Product{
		{ID: "1", Title: "Cadeira Rivatti", ImageURL: "https://images-shoptime.b2w.io/produtos/01/00/item/125599/7/125599787_1GG.png", Price: 1400},
		{ID: "2", Title: "Poltrona de madeira", ImageURL: "https://images-shoptime.b2w.io/produtos/01/00/oferta/81375/6/81375682_1GG.jpg", Price: 750},
		{ID: "3", Title: "Sapato", ImageURL: "https://images-americanas.b2w.io/produtos/01/00/img/1511797/6/1511797699_1GG.jpg", Price: 280},
		{ID: "4", Title: "Caneca Go", ImageURL: "https://go.dev/images/gophers/ladder.svg", Price: 39.9},
	}
}

// Load reads a JSON array of products from path. An empty path yields
// Default(). Quantities in the file are ignored.
func Load(path string) ([]model.Product, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []model.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(products))
	for i := range products {
		if products[i].ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if seen[products[i].ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, products[i].ID)
		}
		seen[products[i].ID] = true
		products[i].Quantity = 0
	}
	return products, nil
}

func Find(products []model.Product, id string) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
