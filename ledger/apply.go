package ledger

import (
	"go.uber.org/zap"

	"github.com/tallybook/tally/record"
)

// replayAccount applies every record in the account's log in arrival
// order. Each record is its own failure unit: a rejected record leaves
// the account untouched and replay moves on to the next one.
func (l *Ledger) replayAccount(acc *Account) {
	for _, rec := range acc.log {
		l.apply(acc, rec)
	}
}

// apply dispatches one record through the type-specific balance
// transition.
func (l *Ledger) apply(acc *Account, rec record.Transaction) {
	if acc.Locked && l.policy.FreezeLocked {
		l.reject(&LockedAccountError{Record: rec})
		return
	}

	switch rec.Kind {
	case record.KindDeposit:
		l.applyDeposit(acc, rec)
	case record.KindWithdrawal:
		l.applyWithdrawal(acc, rec)
	case record.KindDispute:
		l.applyDispute(acc, rec)
	case record.KindResolve:
		l.applyResolve(acc, rec)
	case record.KindChargeback:
		l.applyChargeback(acc, rec)
	default:
		// Ingestion drops unknown kinds before they reach a log; this
		// only fires if a caller appends records by hand.
		l.logger.Warn("ignoring record with unknown kind",
			zap.Uint32("client", rec.Client), zap.Uint32("tx", rec.Tx))
	}
}

// applyDeposit credits available and total using checked addition. On
// range overflow the record is rejected whole; both fields are committed
// together so a failure never half-applies.
func (l *Ledger) applyDeposit(acc *Account, rec record.Transaction) {
	total, ok := checkedAdd(acc.Total, rec.Amount)
	if !ok {
		l.reject(&OverflowError{Record: rec})
		return
	}
	available, ok := checkedAdd(acc.Available, rec.Amount)
	if !ok {
		l.reject(&OverflowError{Record: rec})
		return
	}
	acc.Total, acc.Available = total, available
}

// applyWithdrawal debits available and total, symmetric to applyDeposit.
// A withdrawal that drives available negative is only rejected under the
// deny-negative policy; the default trusts the stream.
func (l *Ledger) applyWithdrawal(acc *Account, rec record.Transaction) {
	if l.policy.DenyNegative && rec.Amount.GreaterThan(acc.Available) {
		l.reject(&InsufficientFundsError{Record: rec, Available: acc.Available})
		return
	}

	total, ok := checkedSub(acc.Total, rec.Amount)
	if !ok {
		l.reject(&OverflowError{Record: rec})
		return
	}
	available, ok := checkedSub(acc.Available, rec.Amount)
	if !ok {
		l.reject(&OverflowError{Record: rec})
		return
	}
	acc.Total, acc.Available = total, available
}

// applyDispute moves the referenced deposit's amount from available to
// held. The amount is read from the referenced record at lookup time, so
// repeated dispute/resolve cycles always move the same quantity.
func (l *Ledger) applyDispute(acc *Account, rec record.Transaction) {
	ref, ok := l.resolveReference(acc, rec)
	if !ok {
		return
	}

	if !l.policy.PermissiveDisputes {
		if st := acc.status[ref.Tx]; st == StatusDisputed || st == StatusChargedBack {
			l.reject(&DisputeStateError{Record: rec, Status: st})
			return
		}
	}

	acc.Held = saturatingAdd(acc.Held, ref.Amount)
	acc.Available = saturatingSub(acc.Available, ref.Amount)
	acc.status[ref.Tx] = StatusDisputed
}

// applyResolve reverses a dispute transfer, releasing held funds back to
// available. Total is unchanged.
func (l *Ledger) applyResolve(acc *Account, rec record.Transaction) {
	ref, ok := l.resolveReference(acc, rec)
	if !ok {
		return
	}

	if !l.policy.PermissiveDisputes {
		if st := acc.status[ref.Tx]; st != StatusDisputed {
			l.reject(&DisputeStateError{Record: rec, Status: st})
			return
		}
	}

	acc.Held = saturatingSub(acc.Held, ref.Amount)
	acc.Available = saturatingAdd(acc.Available, ref.Amount)
	acc.status[ref.Tx] = StatusResolved
}

// applyChargeback withdraws the disputed funds entirely and locks the
// account. Locking is permanent for the remainder of the run.
func (l *Ledger) applyChargeback(acc *Account, rec record.Transaction) {
	ref, ok := l.resolveReference(acc, rec)
	if !ok {
		return
	}

	if !l.policy.PermissiveDisputes {
		if st := acc.status[ref.Tx]; st != StatusDisputed {
			l.reject(&DisputeStateError{Record: rec, Status: st})
			return
		}
	}

	acc.Held = saturatingSub(acc.Held, ref.Amount)
	acc.Total = saturatingSub(acc.Total, ref.Amount)
	acc.Locked = true
	acc.status[ref.Tx] = StatusChargedBack
}

// resolveReference looks up the transaction a dispute, resolve, or
// chargeback refers to. Unknown ids and non-deposit references are
// rejected; only deposits take part in the dispute lifecycle.
func (l *Ledger) resolveReference(acc *Account, rec record.Transaction) (record.Transaction, bool) {
	ref, ok := acc.findByTx(rec.Tx)
	if !ok {
		l.logger.Info("ignoring record referencing unknown transaction",
			zap.Stringer("kind", rec.Kind),
			zap.Uint32("client", rec.Client),
			zap.Uint32("tx", rec.Tx))
		l.addIssue(&UnknownReferenceError{Record: rec})
		return record.Transaction{}, false
	}

	if ref.Kind != record.KindDeposit {
		l.reject(&NotDisputableError{Record: rec, Referenced: ref.Kind})
		return record.Transaction{}, false
	}

	return ref, true
}

// reject records an issue for a skipped record and logs it.
func (l *Ledger) reject(issue error) {
	l.logger.Warn("skipping transaction", zap.Error(issue))
	l.addIssue(issue)
}
