// Package cart holds the items a customer intends to order on this device.
//
// Lines are keyed by (item id, special instructions). Every mutation rewrites
// the full snapshot to storage; a snapshot that cannot be read on startup
// yields an empty cart.
package cart

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/notify"
	"github.com/Kariqs/tablefy/storage"
	"go.uber.org/zap"
)

type Store struct {
	mu       sync.Mutex
	lines    []models.CartLine
	storage  storage.Storage
	notifier notify.Notifier
	log      *zap.Logger
}

// New rehydrates the cart from s.
func New(s storage.Storage, n notify.Notifier, log *zap.Logger) *Store {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	st := &Store{storage: s, notifier: n, log: log}

	var lines []models.CartLine
	if storage.LoadJSON(s, storage.KeyCart, &lines) {
		st.lines = validLines(lines)
	}
	return st
}

// AddToCart merges quantity into the line with the same item and instructions,
// or appends a new line. A quantity below 1 adds one.
func (s *Store) AddToCart(item models.MenuItem, quantity int, specialInstructions string) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	if i := s.indexOf(item.ID, specialInstructions); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, models.CartLine{
			ItemID:              item.ID,
			Name:                item.Name,
			Price:               item.Price,
			Quantity:            quantity,
			SpecialInstructions: specialInstructions,
			Image:               item.Image,
			Category:            item.Category,
			Description:         item.Description,
			Extras:              maps.Clone(item.Extras),
		})
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("%s added to cart", item.Name))
}

// RemoveFromCart deletes the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveFromCart(itemID, specialInstructions string) {
	s.mu.Lock()
	i := s.indexOf(itemID, specialInstructions)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	name := s.lines[i].Name
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notifier.Info(fmt.Sprintf("%s removed from cart", name))
}

// UpdateQuantity adjusts the matching line by delta. A change that would take
// the quantity below 1 is ignored; use RemoveFromCart to drop a line.
func (s *Store) UpdateQuantity(itemID, specialInstructions string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(itemID, specialInstructions)
	if i < 0 || delta == 0 {
		return
	}
	next := s.lines[i].Quantity + delta
	if next < 1 {
		return
	}
	s.lines[i].Quantity = next
	s.persistLocked()
}

// ClearCart empties the cart and erases the stored snapshot.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if err := s.storage.Remove(storage.KeyCart); err != nil {
		s.log.Warn("cart snapshot not erased", zap.Error(err))
	}
}

// CartTotal is the sum of price times quantity over all lines.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.lines {
		total += l.LineTotal()
	}
	return total
}

// CartCount is the sum of quantities over all lines.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, len(s.lines))
	for i, l := range s.lines {
		l.Extras = maps.Clone(l.Extras)
		out[i] = l
	}
	return out
}

func (s *Store) Line(itemID, specialInstructions string) (models.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(itemID, specialInstructions); i >= 0 {
		l := s.lines[i]
		l.Extras = maps.Clone(l.Extras)
		return l, true
	}
	return models.CartLine{}, false
}

func (s *Store) Summary() models.CartSummary {
	lines := s.Lines()
	summary := models.CartSummary{Items: lines}
	for _, l := range lines {
		summary.Subtotal += l.LineTotal()
		summary.Count += l.Quantity
	}
	return summary
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *Store) indexOf(itemID, specialInstructions string) int {
	for i, l := range s.lines {
		if l.Matches(itemID, specialInstructions) {
			return i
		}
	}
	return -1
}

// persistLocked writes the snapshot. A failed write keeps the in-memory cart;
// the server becomes the record once the order is submitted.
func (s *Store) persistLocked() {
	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	if err := storage.SaveJSON(s.storage, storage.KeyCart, lines); err != nil {
		s.log.Warn("cart snapshot not written", zap.Error(err))
	}
}

// validLines drops lines without an item id or with a quantity below 1.
func validLines(lines []models.CartLine) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID == "" || l.Quantity < 1 {
			continue
		}
		out = append(out, l)
	}
	return out
}
