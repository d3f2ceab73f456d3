package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

type seedProduct struct {
	ID          string `koanf:"id"`
	Name        string `koanf:"name"`
	Description string `koanf:"description"`
	Price       string `koanf:"price"`
	Stock       int    `koanf:"stock"`
}

// LoadCatalog adds every entry listed under "products" in the YAML file at
// path and returns how many were added. The file is checked in full before
// anything is written.
//
//	products:
//	  - id: kb-01
//	    name: Keyboard
//	    price: "10.00"
//	    stock: 5
func (s *Store) LoadCatalog(ctx context.Context, path string) (int, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	var entries []seedProduct
	if err := k.Unmarshal("products", &entries); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%s: no products listed", path)
	}

	seen := make(map[string]bool, len(entries))
	catalog := make([]product.Product, 0, len(entries))
	for i, e := range entries {
		id, name := strings.TrimSpace(e.ID), strings.TrimSpace(e.Name)
		if id == "" || name == "" {
			return 0, fmt.Errorf("%s: entry %d needs id and name", path, i)
		}
		if seen[id] {
			return 0, fmt.Errorf("%s: duplicate id %q", path, id)
		}
		seen[id] = true
		price, err := product.ParsePrice(e.Price)
		if err != nil {
			return 0, fmt.Errorf("%s: %s: %w", path, id, err)
		}
		if err := stock.ValidateLevel(e.Stock); err != nil {
			return 0, fmt.Errorf("%s: %s: %w", path, id, err)
		}
		catalog = append(catalog, product.Product{
			ID: id, Name: name, Description: strings.TrimSpace(e.Description), Price: price, Stock: e.Stock,
		})
	}

	repo := s.Products()
	for i := range catalog {
		if err := repo.Create(ctx, &catalog[i]); err != nil {
			return i, err
		}
	}
	return len(catalog), nil
}
