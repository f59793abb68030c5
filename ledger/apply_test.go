package ledger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/record"
)

func deposit(client, tx uint32, amount string) record.Transaction {
	return record.Transaction{
		Kind:      record.KindDeposit,
		Client:    client,
		Tx:        tx,
		Amount:    decimal.RequireFromString(amount),
		HasAmount: true,
	}
}

func withdrawal(client, tx uint32, amount string) record.Transaction {
	return record.Transaction{
		Kind:      record.KindWithdrawal,
		Client:    client,
		Tx:        tx,
		Amount:    decimal.RequireFromString(amount),
		HasAmount: true,
	}
}

func dispute(client, tx uint32) record.Transaction {
	return record.Transaction{Kind: record.KindDispute, Client: client, Tx: tx}
}

func resolve(client, tx uint32) record.Transaction {
	return record.Transaction{Kind: record.KindResolve, Client: client, Tx: tx}
}

func chargeback(client, tx uint32) record.Transaction {
	return record.Transaction{Kind: record.KindChargeback, Client: client, Tx: tx}
}

func replay(t *testing.T, policy Policy, recs ...record.Transaction) *Ledger {
	t.Helper()
	l := New(WithPolicy(policy))
	for _, rec := range recs {
		l.Append(rec)
	}
	assert.NoError(t, l.Replay(context.Background()))
	return l
}

func assertBalances(t *testing.T, acc *Account, available, held, total string) {
	t.Helper()
	assert.True(t, acc.Available.Equal(decimal.RequireFromString(available)),
		"available: got %s, want %s", acc.Available, available)
	assert.True(t, acc.Held.Equal(decimal.RequireFromString(held)),
		"held: got %s, want %s", acc.Held, held)
	assert.True(t, acc.Total.Equal(decimal.RequireFromString(total)),
		"total: got %s, want %s", acc.Total, total)
	assertInvariant(t, acc)
}

// assertInvariant checks total == available + held.
func assertInvariant(t *testing.T, acc *Account) {
	t.Helper()
	assert.True(t, acc.Total.Equal(acc.Available.Add(acc.Held)),
		"client %d: total %s != available %s + held %s",
		acc.Client, acc.Total, acc.Available, acc.Held)
}

func TestApplyDepositWithdrawal(t *testing.T) {
	t.Run("DepositsAccumulate", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			deposit(1, 2, "2.5"),
		)
		acc, ok := l.Account(1)
		assert.True(t, ok)
		assertBalances(t, acc, "3.5", "0", "3.5")
		assert.False(t, acc.Locked)
	})

	t.Run("WithdrawalDebits", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "5"),
			withdrawal(1, 2, "1.25"),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "3.75", "0", "3.75")
	})

	t.Run("InvariantHoldsAfterEveryStep", func(t *testing.T) {
		recs := []record.Transaction{
			deposit(1, 1, "1.0"),
			deposit(1, 2, "2.0"),
			withdrawal(1, 3, "0.5"),
			dispute(1, 2),
			resolve(1, 2),
			withdrawal(1, 4, "1.1"),
			dispute(1, 1),
		}
		for n := 1; n <= len(recs); n++ {
			l := replay(t, Policy{}, recs[:n]...)
			acc, _ := l.Account(1)
			assertInvariant(t, acc)
		}
	})

	t.Run("WithdrawalMayDriveAvailableNegative", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(2, 1, "2.0"),
			withdrawal(2, 2, "3.0"),
		)
		acc, _ := l.Account(2)
		assertBalances(t, acc, "-1", "0", "-1")
		assert.Equal(t, 0, len(l.Issues()))
	})

	t.Run("DenyNegativeRejectsOverdraft", func(t *testing.T) {
		l := replay(t, Policy{DenyNegative: true},
			deposit(2, 1, "2.0"),
			withdrawal(2, 2, "3.0"),
		)
		acc, _ := l.Account(2)
		assertBalances(t, acc, "2", "0", "2")

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*InsufficientFundsError)
		assert.True(t, ok, "want InsufficientFundsError, got %T", issues[0])
	})

	t.Run("EndToEndExample", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			deposit(2, 2, "2.0"),
			deposit(1, 3, "2.0"),
			withdrawal(1, 4, "1.5"),
			withdrawal(2, 5, "3.0"),
		)

		c1, _ := l.Account(1)
		assertBalances(t, c1, "1.5", "0", "1.5")
		assert.False(t, c1.Locked)

		c2, _ := l.Account(2)
		assertBalances(t, c2, "-1", "0", "-1")
		assert.False(t, c2.Locked)
	})
}

func TestApplyOverflow(t *testing.T) {
	huge := maxMagnitude.String()

	t.Run("DepositPastRangeRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, huge),
			deposit(1, 2, "1"),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, huge, "0", huge)

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*OverflowError)
		assert.True(t, ok, "want OverflowError, got %T", issues[0])
	})

	t.Run("WithdrawalPastRangeRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			withdrawal(1, 1, huge),
			withdrawal(1, 2, "1"),
		)
		acc, _ := l.Account(1)
		assert.True(t, acc.Total.Equal(maxMagnitude.Neg()))
		assert.Equal(t, 1, len(l.Issues()))
	})

	t.Run("RejectedDepositLeavesStateUntouched", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "10.5"),
			deposit(1, 2, huge),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "10.5", "0", "10.5")
	})
}

func TestApplyDispute(t *testing.T) {
	t.Run("DisputeHoldsFunds", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			deposit(1, 2, "2.0"),
			dispute(1, 2),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1", "2", "3")
		assert.Equal(t, StatusDisputed, acc.DisputeStatusOf(2))
	})

	t.Run("UnknownReferenceIsNoOp", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			dispute(1, 99),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1", "0", "1")
		assert.False(t, acc.Locked)

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*UnknownReferenceError)
		assert.True(t, ok, "want UnknownReferenceError, got %T", issues[0])
	})

	t.Run("ReferenceOwnedByOtherClientIsNoOp", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			dispute(2, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1", "0", "1")

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*UnknownReferenceError)
		assert.True(t, ok)
	})

	t.Run("WithdrawalCannotBeDisputed", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "5.0"),
			withdrawal(1, 2, "1.0"),
			dispute(1, 2),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "4", "0", "4")

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*NotDisputableError)
		assert.True(t, ok, "want NotDisputableError, got %T", issues[0])
	})

	t.Run("DoubleDisputeRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "2.0"),
			dispute(1, 1),
			dispute(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "0", "2", "2")

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*DisputeStateError)
		assert.True(t, ok, "want DisputeStateError, got %T", issues[0])
	})

	t.Run("DoubleDisputePermissiveMovesFundsTwice", func(t *testing.T) {
		l := replay(t, Policy{PermissiveDisputes: true},
			deposit(1, 1, "2.0"),
			dispute(1, 1),
			dispute(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "-2", "4", "2")
		assert.Equal(t, 0, len(l.Issues()))
	})
}

func TestApplyResolve(t *testing.T) {
	t.Run("ResolveReleasesHeldFunds", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "3.0"),
			dispute(1, 1),
			resolve(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "3", "0", "3")
		assert.False(t, acc.Locked)
		assert.Equal(t, StatusResolved, acc.DisputeStatusOf(1))
	})

	t.Run("ResolveWithoutDisputeRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "3.0"),
			resolve(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "3", "0", "3")

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*DisputeStateError)
		assert.True(t, ok)
	})

	t.Run("ResolveWithoutDisputePermissiveMovesFunds", func(t *testing.T) {
		l := replay(t, Policy{PermissiveDisputes: true},
			deposit(1, 1, "3.0"),
			resolve(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "6", "-3", "3")
	})

	t.Run("RepeatedDisputeResolveCycleMovesSameQuantity", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.5"),
			dispute(1, 1),
			resolve(1, 1),
			dispute(1, 1),
			resolve(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1.5", "0", "1.5")
		assert.Equal(t, 0, len(l.Issues()))
	})

	t.Run("ResolveUnknownReferenceIsNoOp", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "1.0"),
			resolve(1, 42),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1", "0", "1")
	})
}

func TestApplyChargeback(t *testing.T) {
	t.Run("ChargebackWithdrawsAndLocks", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			deposit(1, 2, "1.0"),
			dispute(1, 1),
			chargeback(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "1", "0", "1")
		assert.True(t, acc.Locked)
		assert.Equal(t, StatusChargedBack, acc.DisputeStatusOf(1))
	})

	t.Run("ChargebackWithoutDisputeRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			chargeback(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "4", "0", "4")
		assert.False(t, acc.Locked)
	})

	t.Run("SecondChargebackRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			dispute(1, 1),
			chargeback(1, 1),
			chargeback(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "0", "0", "0")
		assert.True(t, acc.Locked)
	})

	t.Run("ResolveAfterChargebackRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			dispute(1, 1),
			chargeback(1, 1),
			resolve(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "0", "0", "0")
		assert.True(t, acc.Locked)
	})

	t.Run("RedisputeAfterChargebackRejected", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			dispute(1, 1),
			chargeback(1, 1),
			dispute(1, 1),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "0", "0", "0")
	})

	t.Run("LockedAccountStillAppliesByDefault", func(t *testing.T) {
		l := replay(t, Policy{},
			deposit(1, 1, "4.0"),
			dispute(1, 1),
			chargeback(1, 1),
			deposit(1, 2, "2.0"),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "2", "0", "2")
		assert.True(t, acc.Locked)
	})

	t.Run("FreezeLockedRejectsAfterChargeback", func(t *testing.T) {
		l := replay(t, Policy{FreezeLocked: true},
			deposit(1, 1, "4.0"),
			dispute(1, 1),
			chargeback(1, 1),
			deposit(1, 2, "2.0"),
		)
		acc, _ := l.Account(1)
		assertBalances(t, acc, "0", "0", "0")
		assert.True(t, acc.Locked)

		issues := l.Issues()
		assert.Equal(t, 1, len(issues))
		_, ok := issues[0].(*LockedAccountError)
		assert.True(t, ok, "want LockedAccountError, got %T", issues[0])
	})
}
