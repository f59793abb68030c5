package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/record"
)

// Record-level issues are collected during replay instead of aborting it.
// Each issue names the offending record so callers can report it; the
// account state is left exactly as it was before the record.

// OverflowError reports a deposit or withdrawal whose checked arithmetic
// would leave the representable balance range.
type OverflowError struct {
	Record record.Transaction
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s tx %d for client %d: amount %s overflows balance range",
		e.Record.Kind, e.Record.Tx, e.Record.Client, e.Record.Amount)
}

// UnknownReferenceError reports a dispute, resolve, or chargeback that
// names a transaction id absent from the customer's log.
type UnknownReferenceError struct {
	Record record.Transaction
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s for client %d references unknown transaction %d",
		e.Record.Kind, e.Record.Client, e.Record.Tx)
}

// NotDisputableError reports a dispute, resolve, or chargeback whose
// referenced transaction is not a deposit. Only deposits take part in the
// dispute lifecycle; disputing a withdrawal would let a customer inflate
// available funds without a matching prior credit.
type NotDisputableError struct {
	Record     record.Transaction
	Referenced record.Kind
}

func (e *NotDisputableError) Error() string {
	return fmt.Sprintf("%s for client %d references %s transaction %d; only deposits can be disputed",
		e.Record.Kind, e.Record.Client, e.Referenced, e.Record.Tx)
}

// DisputeStateError reports a dispute-lifecycle violation under the strict
// policy: resolving or charging back a transaction that is not currently
// disputed, or re-disputing one that is disputed or charged back.
type DisputeStateError struct {
	Record record.Transaction
	Status DisputeStatus
}

func (e *DisputeStateError) Error() string {
	return fmt.Sprintf("%s for client %d rejected: transaction %d is %s",
		e.Record.Kind, e.Record.Client, e.Record.Tx, e.Status)
}

// InsufficientFundsError reports a withdrawal rejected under the
// deny-negative policy.
type InsufficientFundsError struct {
	Record    record.Transaction
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("withdrawal tx %d for client %d rejected: amount %s exceeds available %s",
		e.Record.Tx, e.Record.Client, e.Record.Amount, e.Available)
}

// LockedAccountError reports a record rejected under the freeze-locked
// policy because the account was locked by an earlier chargeback.
type LockedAccountError struct {
	Record record.Transaction
}

func (e *LockedAccountError) Error() string {
	return fmt.Sprintf("%s tx %d rejected: account %d is locked",
		e.Record.Kind, e.Record.Tx, e.Record.Client)
}
