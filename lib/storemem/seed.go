// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storemem

import "github.com/cartkit-project/cartkit/lib/schema/store"

// catalogEntry pairs a product with the service-side attributes the
// wire Product type does not carry.
type catalogEntry struct {
	product store.Product
	taxRate float64 // percent, applied per line item
	aisleID int64
}

// seedAisles is the default store floor plan.
func seedAisles() map[int64]store.Aisle {
	return map[int64]store.Aisle{
		1: {ID: 1, Name: "Produce", Section: "A"},
		2: {ID: 2, Name: "Dairy", Section: "B"},
		3: {ID: 3, Name: "Bakery", Section: "B"},
		4: {ID: 4, Name: "Beverages", Section: "C"},
		5: {ID: 5, Name: "Snacks", Section: "C"},
		6: {ID: 6, Name: "Household", Section: "D"},
	}
}

// seedCatalog is the default product catalog.
func seedCatalog() []catalogEntry {
	return []catalogEntry{
		{store.Product{ID: 1, Name: "Bananas", SKU: "PRD-001", Barcode: "100001", Category: "produce", Price: 1.29, StockQuantity: 150}, 0, 1},
		{store.Product{ID: 2, Name: "Gala Apples", SKU: "PRD-002", Barcode: "100002", Category: "produce", Price: 2.49, StockQuantity: 80}, 0, 1},
		{store.Product{ID: 3, Name: "Whole Milk 1L", SKU: "DRY-001", Barcode: "200001", Category: "dairy", Price: 1.99, StockQuantity: 60}, 0, 2},
		{store.Product{ID: 4, Name: "Cheddar Cheese", SKU: "DRY-002", Barcode: "200002", Category: "dairy", Price: 4.99, StockQuantity: 40}, 8, 2},
		{store.Product{ID: 5, Name: "Sourdough Loaf", SKU: "BKY-001", Barcode: "300001", Category: "bakery", Price: 3.49, StockQuantity: 25}, 0, 3},
		{store.Product{ID: 6, Name: "Croissant 4-pack", SKU: "BKY-002", Barcode: "300002", Category: "bakery", Price: 4.29, StockQuantity: 30}, 8, 3},
		{store.Product{ID: 7, Name: "Orange Juice 1L", SKU: "BEV-001", Barcode: "400001", Category: "beverages", Price: 3.79, StockQuantity: 50}, 8, 4},
		{store.Product{ID: 8, Name: "Sparkling Water 6x", SKU: "BEV-002", Barcode: "400002", Category: "beverages", Price: 5.49, StockQuantity: 70}, 8, 4},
		{store.Product{ID: 9, Name: "Tortilla Chips", SKU: "SNK-001", Barcode: "500001", Category: "snacks", Price: 2.99, StockQuantity: 90}, 8, 5},
		{store.Product{ID: 10, Name: "Dark Chocolate Bar", SKU: "SNK-002", Barcode: "500002", Category: "snacks", Price: 2.19, StockQuantity: 120}, 8, 5},
		{store.Product{ID: 11, Name: "Dish Soap", SKU: "HSH-001", Barcode: "600001", Category: "household", Price: 3.29, StockQuantity: 45}, 8, 6},
		{store.Product{ID: 12, Name: "Paper Towels 2x", SKU: "HSH-002", Barcode: "600002", Category: "household", Price: 4.59, StockQuantity: 35}, 8, 6},
	}
}
