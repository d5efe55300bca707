package domain

// Category mirrors GET /api/categories rows.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PhotoPath string `json:"photo_path"`
}

// CatalogItem mirrors the rows of GET /api/items. Quantity is the stock
// available at fetch time; the cart snapshots it into a stock limit when the
// item is added.
type CatalogItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     Price  `json:"price"`
	Quantity  int    `json:"quantity"`
	PhotoPath string `json:"photo_path"`
}
