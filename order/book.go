package order

import (
	"fmt"
	"slices"
)

// NewBook returns an empty open order book
func NewBook() *Book {
	return &Book{}
}

// Add stores a resting order and returns it with a fresh id
func (b *Book) Add(r Request, tick int64) Open {
	b.lastID++
	o := Open{ID: b.lastID, Request: r, CreatedAt: tick}
	b.orders = append(b.orders, o)
	return o
}

// Remove deletes an open order
func (b *Book) Remove(id uint64) error {
	i, ok := b.find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	b.orders = slices.Delete(b.orders, i, i+1)
	return nil
}

// Get returns an open order
func (b *Book) Get(id uint64) (Open, error) {
	i, ok := b.find(id)
	if !ok {
		return Open{}, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	return b.orders[i], nil
}

// orders are appended with increasing ids so the slice stays sorted
func (b *Book) find(id uint64) (int, bool) {
	return slices.BinarySearchFunc(b.orders, id, func(o Open, id uint64) int {
		switch {
		case o.ID < id:
			return -1
		case o.ID > id:
			return 1
		}
		return 0
	})
}

// List returns a copy of the open orders in ascending id order
func (b *Book) List() []Open {
	return slices.Clone(b.orders)
}

// Len returns the number of open orders
func (b *Book) Len() int {
	return len(b.orders)
}
