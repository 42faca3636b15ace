package transaction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a status name cannot be parsed
var ErrUnknownStatus = errors.New("unknown transaction status")

// Status is the outcome of a transaction. The zero value is not a valid
// status.
type Status uint8

const (
	Successful Status = iota + 1
	Failed
	Aborted
)

var statusNames = [...]string{
	Successful: "successful",
	Failed:     "failed",
	Aborted:    "aborted",
}

// Valid reports whether s is one of the declared statuses
func (s Status) Valid() bool {
	return s >= Successful && int(s) < len(statusNames)
}

func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ParseStatus converts a case-insensitive status name into a Status
func ParseStatus(name string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n != "" && n == needle {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Transaction represents a single ledger entry. ID is the identity key and
// never changes once the transaction is created.
type Transaction struct {
	ID     int     `json:"id" mapstructure:"id"`
	Status Status  `json:"status" mapstructure:"status"`
	From   string  `json:"from" mapstructure:"from"`
	To     string  `json:"to" mapstructure:"to"`
	Amount float64 `json:"amount" mapstructure:"amount"`
}

// New creates a transaction
func New(id int, status Status, from, to string, amount float64) Transaction {
	return Transaction{
		ID:     id,
		Status: status,
		From:   from,
		To:     to,
		Amount: amount,
	}
}
