package chainblock

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/example/chainblock/pkg/transaction"
)

// filter collects matching entries in insertion order
func (c *Chainblock) filter(match func(transaction.Transaction) bool) []transaction.Transaction {
	var out []transaction.Transaction
	for tx := range c.All() {
		if match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func byAmountDesc(a, b transaction.Transaction) int {
	return cmp.Compare(b.Amount, a.Amount)
}

func byAmountDescThenID(a, b transaction.Transaction) int {
	if c := byAmountDesc(a, b); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func nonEmpty[T any](items []T, query string) ([]T, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", query, ErrEmptyResult)
	}
	return items, nil
}

func hasStatus(status transaction.Status) func(transaction.Transaction) bool {
	return func(tx transaction.Transaction) bool { return tx.Status == status }
}

// ByStatus returns the entries with the given status, highest amount first.
// Entries with equal amounts keep their insertion order.
func (c *Chainblock) ByStatus(status transaction.Status) ([]transaction.Transaction, error) {
	matched := c.filter(hasStatus(status))
	slices.SortStableFunc(matched, byAmountDesc)
	return nonEmpty(matched, fmt.Sprintf("transactions with status %s", status))
}

// SendersByStatus returns the sender of every entry with the given status,
// grouped per sender and ranked by how often each sender appears. Senders
// with the same frequency keep the order in which they were first seen.
func (c *Chainblock) SendersByStatus(status transaction.Status) ([]string, error) {
	names := c.parties(status, func(tx transaction.Transaction) string { return tx.From })
	return nonEmpty(names, fmt.Sprintf("senders with status %s", status))
}

// ReceiversByStatus is SendersByStatus keyed on the receiver
func (c *Chainblock) ReceiversByStatus(status transaction.Status) ([]string, error) {
	names := c.parties(status, func(tx transaction.Transaction) string { return tx.To })
	return nonEmpty(names, fmt.Sprintf("receivers with status %s", status))
}

type partyCount struct {
	name  string
	count int
}

func (c *Chainblock) parties(status transaction.Status, key func(transaction.Transaction) string) []string {
	var (
		counts []partyCount
		index  = make(map[string]int)
		total  int
	)
	for tx := range c.All() {
		if tx.Status != status {
			continue
		}
		name := key(tx)
		i, ok := index[name]
		if !ok {
			i = len(counts)
			index[name] = i
			counts = append(counts, partyCount{name: name})
		}
		counts[i].count++
		total++
	}

	slices.SortStableFunc(counts, func(a, b partyCount) int {
		return cmp.Compare(b.count, a.count)
	})

	out := make([]string, 0, total)
	for _, pc := range counts {
		for range pc.count {
			out = append(out, pc.name)
		}
	}
	return out
}

// AllByAmountDescThenID returns every entry, highest amount first and ties
// broken by ascending ID. An empty store yields an empty slice, not an error.
func (c *Chainblock) AllByAmountDescThenID() []transaction.Transaction {
	all := c.Transactions()
	slices.SortFunc(all, byAmountDescThenID)
	return all
}

// BySender returns the entries sent by sender, highest amount first
func (c *Chainblock) BySender(sender string) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool { return tx.From == sender })
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions from %q", sender))
}

// ByReceiver returns the entries received by receiver, highest amount first
func (c *Chainblock) ByReceiver(receiver string) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool { return tx.To == receiver })
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions to %q", receiver))
}

// ByStatusAndMaxAmount returns the entries with the given status and an
// amount of at most maxAmount.
func (c *Chainblock) ByStatusAndMaxAmount(status transaction.Status, maxAmount float64) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool {
		return tx.Status == status && tx.Amount <= maxAmount
	})
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions with status %s up to %g", status, maxAmount))
}

// BySenderAndMinAmount returns the entries sent by sender with an amount
// strictly greater than minAmount.
func (c *Chainblock) BySenderAndMinAmount(sender string, minAmount float64) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool {
		return tx.From == sender && tx.Amount > minAmount
	})
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions from %q above %g", sender, minAmount))
}

// ByReceiverAndAmountRange returns the entries received by receiver with
// lo <= amount < hi.
func (c *Chainblock) ByReceiverAndAmountRange(receiver string, lo, hi float64) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool {
		return tx.To == receiver && tx.Amount >= lo && tx.Amount < hi
	})
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions to %q in [%g, %g)", receiver, lo, hi))
}

// InAmountRange returns the entries with lo <= amount <= hi, highest amount
// first and ties broken by ascending ID.
func (c *Chainblock) InAmountRange(lo, hi float64) ([]transaction.Transaction, error) {
	matched := c.filter(func(tx transaction.Transaction) bool {
		return tx.Amount >= lo && tx.Amount <= hi
	})
	slices.SortFunc(matched, byAmountDescThenID)
	return nonEmpty(matched, fmt.Sprintf("transactions in [%g, %g]", lo, hi))
}
