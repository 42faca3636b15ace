// Package chainblock holds an in-memory, insertion-ordered ledger of
// transactions keyed by their ID, together with the filtered and sorted
// views used to query it.
//
// A Chainblock is not safe for concurrent use; callers sharing one across
// goroutines must serialize access themselves.
package chainblock

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/example/chainblock/pkg/transaction"
)

var (
	// ErrNotFound is returned when no entry has the requested ID
	ErrNotFound = errors.New("transaction not found")
	// ErrEmptyResult is returned by filtered queries that match nothing
	ErrEmptyResult = errors.New("no matching transactions")
)

// Chainblock is a keyed collection of transactions. Entries are stored by
// value; ChangeStatus is the only way to mutate a stored entry.
type Chainblock struct {
	entries map[int]transaction.Transaction
	order   []int
	logger  *zap.Logger
}

// Option configures a Chainblock
type Option func(*Chainblock)

// WithLogger sets the logger used for debug events
func WithLogger(logger *zap.Logger) Option {
	return func(c *Chainblock) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty Chainblock
func New(opts ...Option) *Chainblock {
	c := &Chainblock{
		entries: make(map[int]transaction.Transaction),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the number of stored entries
func (c *Chainblock) Count() int {
	return len(c.entries)
}

// Add stores tx unless an entry with the same ID already exists, in which
// case the call is a no-op.
func (c *Chainblock) Add(tx transaction.Transaction) {
	if _, ok := c.entries[tx.ID]; ok {
		c.logger.Debug("duplicate transaction ignored", zap.Int("id", tx.ID))
		return
	}
	c.entries[tx.ID] = tx
	c.order = append(c.order, tx.ID)
}

// Contains reports whether an entry with tx's ID is stored. Other fields are
// not compared.
func (c *Chainblock) Contains(tx transaction.Transaction) bool {
	return c.ContainsID(tx.ID)
}

// ContainsID reports whether an entry with the given ID is stored
func (c *Chainblock) ContainsID(id int) bool {
	_, ok := c.entries[id]
	return ok
}

// GetByID returns the stored entry with the given ID
func (c *Chainblock) GetByID(id int) (transaction.Transaction, error) {
	tx, ok := c.entries[id]
	if !ok {
		return transaction.Transaction{}, fmt.Errorf("get transaction %d: %w", id, ErrNotFound)
	}
	return tx, nil
}

// ChangeStatus sets the status of the stored entry with the given ID
func (c *Chainblock) ChangeStatus(id int, status transaction.Status) error {
	tx, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("change status of transaction %d: %w", id, ErrNotFound)
	}
	c.logger.Debug("transaction status changed",
		zap.Int("id", id),
		zap.Stringer("from", tx.Status),
		zap.Stringer("to", status),
	)
	tx.Status = status
	c.entries[id] = tx
	return nil
}

// RemoveByID deletes the entry with the given ID. The relative order of the
// remaining entries is unchanged.
func (c *Chainblock) RemoveByID(id int) error {
	if _, ok := c.entries[id]; !ok {
		return fmt.Errorf("remove transaction %d: %w", id, ErrNotFound)
	}
	delete(c.entries, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	c.logger.Debug("transaction removed", zap.Int("id", id))
	return nil
}

// All iterates over the stored entries in insertion order
func (c *Chainblock) All() iter.Seq[transaction.Transaction] {
	return func(yield func(transaction.Transaction) bool) {
		for _, id := range c.order {
			if !yield(c.entries[id]) {
				return
			}
		}
	}
}

// Transactions returns a snapshot of the stored entries in insertion order.
// An empty store yields an empty, non-nil slice.
func (c *Chainblock) Transactions() []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(c.order))
	for tx := range c.All() {
		out = append(out, tx)
	}
	return out
}
