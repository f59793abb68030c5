package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/record"
)

// DisputeStatus tracks where a deposit sits in its dispute lifecycle.
// The zero value means the deposit has never been disputed.
type DisputeStatus int

const (
	StatusNormal DisputeStatus = iota
	StatusDisputed
	StatusResolved
	StatusChargedBack
)

// String returns a human-readable status for diagnostics.
func (s DisputeStatus) String() string {
	switch s {
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	case StatusChargedBack:
		return "charged back"
	default:
		return "not disputed"
	}
}

// Account holds one customer's balance state and transaction history.
//
// Available + Held == Total after every applied record. Locked is set by
// a chargeback and never cleared. The log is append-only; accepted
// records are retained for the lifetime of the run so later disputes can
// find them.
type Account struct {
	Client    uint32
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	log    []record.Transaction
	byTx   map[uint32]int
	status map[uint32]DisputeStatus
}

func newAccount(client uint32) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
		byTx:      make(map[uint32]int),
		status:    make(map[uint32]DisputeStatus),
	}
}

// append adds a record to the account's log in arrival order. Deposits
// and withdrawals are additionally indexed by transaction id for later
// dispute resolution; a duplicate id keeps its first entry, matching the
// first-match semantics of a linear scan.
func (a *Account) append(rec record.Transaction) {
	a.log = append(a.log, rec)
	if rec.Kind.Monetary() {
		if _, exists := a.byTx[rec.Tx]; !exists {
			a.byTx[rec.Tx] = len(a.log) - 1
		}
	}
}

// findByTx returns the deposit or withdrawal with the given transaction
// id. Only dispute, resolve, and chargeback handling may use it.
func (a *Account) findByTx(tx uint32) (record.Transaction, bool) {
	i, ok := a.byTx[tx]
	if !ok {
		return record.Transaction{}, false
	}
	return a.log[i], true
}

// Log returns the account's accepted records in arrival order.
func (a *Account) Log() []record.Transaction {
	return a.log
}

// DisputeStatusOf returns the dispute lifecycle status of a transaction.
func (a *Account) DisputeStatusOf(tx uint32) DisputeStatus {
	return a.status[tx]
}
