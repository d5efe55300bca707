package domain

// CartLine is one catalog item and its requested quantity in the active cart.
// StockLimit is the stock available when the item was first added; quantity is
// kept inside [1, StockLimit] by every mutation.
type CartLine struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	UnitPrice  Price  `json:"price"`
	Quantity   int    `json:"quantity"`
	StockLimit int    `json:"stock"`
}

// Subtotal is the display amount for the line.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice.Amount() * float64(l.Quantity)
}

// Cart is an ordered sequence of lines, one per catalog item id.
type Cart struct {
	lines []CartLine
}

// Add puts one unit of the item into the cart. An existing line grows by one
// only while below its stock limit; a new line is created only when the item
// has stock at all. Out-of-stock adds are silently ignored.
func (c *Cart) Add(item CatalogItem) {
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			if c.lines[i].Quantity < c.lines[i].StockLimit {
				c.lines[i].Quantity++
			}
			return
		}
	}
	if item.Quantity <= 0 {
		return
	}
	c.lines = append(c.lines, CartLine{
		ID:         item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
		StockLimit: item.Quantity,
	})
}

// Remove deletes the line with the given id, if present.
func (c *Cart) Remove(id int64) {
	for i, l := range c.lines {
		if l.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity clamps the requested quantity into [1, StockLimit] for the line.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(id int64, quantity int) {
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		if quantity > c.lines[i].StockLimit {
			quantity = c.lines[i].StockLimit
		}
		if quantity < 1 {
			quantity = 1
		}
		c.lines[i].Quantity = quantity
		return
	}
}

// Clear removes every line one at a time, front first, so any per-removal
// behavior layered above Remove still applies.
func (c *Cart) Clear() {
	for len(c.lines) > 0 {
		c.Remove(c.lines[0].ID)
	}
}

// Total recomputes the cart total on every call; it is never cached.
func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.UnitPrice.Amount() * float64(l.Quantity)
	}
	return sum
}

// Line returns the current state of the line with the given id.
func (c *Cart) Line(id int64) (CartLine, bool) {
	for _, l := range c.lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
