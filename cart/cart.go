// Package cart holds the per-session shopping cart. Items pair a product
// with a piece of student artwork; the pair (product ID, artwork ID) is the
// item's identity, so one product can appear on several rows as long as each
// row carries different artwork.
package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stevejford/sassiart/pricing"
)

// ProductSnapshot is the product as it was when added to the cart. Later
// edits to the stored product do not reach into open carts.
type ProductSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BasePrice float64   `json:"base_price"`
	ImageURL  string    `json:"image_url"`
}

// ArtworkSnapshot is the artwork as it was when added to the cart.
type ArtworkSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	StudentName string    `json:"student_name"`
	ImageURL    string    `json:"image_url"`
}

// Item is one cart row: a product/artwork pairing and a quantity of at
// least 1.
type Item struct {
	Product  ProductSnapshot `json:"product"`
	Artwork  ArtworkSnapshot `json:"artwork"`
	Quantity int             `json:"quantity"`
}

// Cart is safe for concurrent use; two browser tabs can share one session.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// AddItem puts the pairing in the cart. If the same (product, artwork) pair
// is already present its quantity is incremented by 1 instead of creating a
// duplicate row; otherwise the item is appended with quantity 1. The
// resulting item is returned.
func (c *Cart) AddItem(product ProductSnapshot, artwork ArtworkSnapshot) Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID && c.items[i].Artwork.ID == artwork.ID {
			c.items[i].Quantity++
			return c.items[i]
		}
	}

	item := Item{Product: product, Artwork: artwork, Quantity: 1}
	c.items = append(c.items, item)
	return item
}

// RemoveItem deletes the row matching both IDs exactly. It reports whether
// a row was removed; removing an absent pair is a no-op.
func (c *Cart) RemoveItem(productID, artworkID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID && c.items[i].Artwork.ID == artworkID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQuantity sets the matching row's quantity. Values below 1 are
// clamped to 1: a decrement can never empty a row, only RemoveItem can.
// It reports whether a matching row was found.
func (c *Cart) UpdateQuantity(productID, artworkID uuid.UUID, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID && c.items[i].Artwork.ID == artworkID {
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the rows in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of rows (not the summed quantity).
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total recomputes the cart total from the current rows on every call. It is
// never cached: Σ base_price × quantity, exact to 2 decimal places.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]float64, len(c.items))
	for i, item := range c.items {
		lines[i] = pricing.LineTotal(item.Product.BasePrice, item.Quantity)
	}
	return pricing.Sum(lines...)
}
