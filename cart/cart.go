// Package cart keeps the local shopping cart. It never talks to the network;
// lines live in durable storage and every mutation is announced on the hub.
package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"food-marketplace-client/broadcast"
	"food-marketplace-client/models"
	"food-marketplace-client/storage"

	"go.uber.org/zap"
)

type Manager struct {
	store  storage.Store
	hub    *broadcast.Hub
	logger *zap.SugaredLogger
	mu     sync.Mutex
}

func NewManager(store storage.Store, hub *broadcast.Hub, logger *zap.SugaredLogger) *Manager {
	return &Manager{store: store, hub: hub, logger: logger}
}

// Lines returns the cart in insertion order. A corrupt entry reads as empty.
func (m *Manager) Lines() ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Add merges quantity into an existing line for the same food or appends a
// new one. A line whose quantity ends at zero or below is dropped.
func (m *Manager) Add(foodID models.ID, quantity int) error {
	if foodID.IsZero() {
		return fmt.Errorf("add to cart: empty food id")
	}
	return m.mutate(func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].FoodID == foodID {
				lines[i].Quantity += quantity
				return lines
			}
		}
		return append(lines, models.CartLine{FoodID: foodID, Quantity: quantity})
	})
}

func (m *Manager) Remove(foodID models.ID) error {
	return m.mutate(func(lines []models.CartLine) []models.CartLine {
		out := lines[:0]
		for _, l := range lines {
			if l.FoodID != foodID {
				out = append(out, l)
			}
		}
		return out
	})
}

// UpdateQuantity sets an existing line to max(0, quantity); zero removes it.
// Unknown foods are ignored.
func (m *Manager) UpdateQuantity(foodID models.ID, quantity int) error {
	return m.mutate(func(lines []models.CartLine) []models.CartLine {
		for i := range lines {
			if lines[i].FoodID == foodID {
				lines[i].Quantity = max(0, quantity)
			}
		}
		return lines
	})
}

func (m *Manager) Clear() error {
	m.mu.Lock()
	err := m.store.Remove(storage.KeyCart)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.hub.Publish(broadcast.TopicCart)
	return nil
}

// Quantity is the quantity of one food, 0 when it is not in the cart.
func (m *Manager) Quantity(foodID models.ID) (int, error) {
	lines, err := m.Lines()
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if l.FoodID == foodID {
			return l.Quantity, nil
		}
	}
	return 0, nil
}

// Count sums quantities over all lines.
func (m *Manager) Count() (int, error) {
	lines, err := m.Lines()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total, nil
}

func (m *Manager) mutate(fn func([]models.CartLine) []models.CartLine) error {
	m.mu.Lock()
	lines, err := m.load()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	lines = normalize(fn(lines))
	err = m.save(lines)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.hub.Publish(broadcast.TopicCart)
	return nil
}

func (m *Manager) load() ([]models.CartLine, error) {
	raw, ok, err := m.store.Get(storage.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		m.logger.Warnw("ignoring unreadable cart", "error", err)
		return nil, nil
	}
	return normalize(lines), nil
}

func (m *Manager) save(lines []models.CartLine) error {
	if len(lines) == 0 {
		return m.store.Remove(storage.KeyCart)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return m.store.Set(storage.KeyCart, string(raw))
}

// normalize keeps at most one line per food, in first-seen order, each with a
// positive quantity.
func normalize(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	index := make(map[models.ID]int, len(lines))
	for _, l := range lines {
		if l.FoodID.IsZero() {
			continue
		}
		if i, ok := index[l.FoodID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.FoodID] = len(out)
		out = append(out, l)
	}
	kept := out[:0]
	for _, l := range out {
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	return kept
}
