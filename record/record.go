// Package record defines the transaction record shared between ingestion
// and the ledger. A record is immutable once accepted; later dispute
// handling reads it back from the owning account's log.
package record

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of transaction kinds the engine understands.
// Input cells that match none of them map to KindUnknown and are dropped
// during ingestion.
type Kind int

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// String returns the input-format spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseKind maps an input cell to a Kind. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit
	case "withdrawal":
		return KindWithdrawal
	case "dispute":
		return KindDispute
	case "resolve":
		return KindResolve
	case "chargeback":
		return KindChargeback
	default:
		return KindUnknown
	}
}

// Monetary reports whether records of this kind carry their own amount.
// Only deposits and withdrawals do; the other kinds re-derive the amount
// from the transaction they reference.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Referencing reports whether records of this kind reference an earlier
// transaction instead of introducing a new one.
func (k Kind) Referencing() bool {
	return k == KindDispute || k == KindResolve || k == KindChargeback
}

// Transaction is a single accepted input record.
//
// For deposit and withdrawal records, Tx is a fresh transaction id and
// Amount holds the monetary value. For dispute, resolve, and chargeback
// records, Tx names the transaction being referenced and Amount is unset.
type Transaction struct {
	Kind   Kind
	Client uint32
	Tx     uint32

	// Amount is set only when HasAmount is true, which is the case for
	// deposit and withdrawal records.
	Amount    decimal.Decimal
	HasAmount bool
}

// ParseAmount converts an input cell into an exact decimal value.
// Surrounding whitespace is tolerated; anything that does not parse as a
// decimal is an error so the row can be rejected before arithmetic.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
