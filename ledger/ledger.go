// Package ledger derives per-customer account balances by replaying an
// ordered log of financial transactions.
//
// Ingestion appends accepted records to per-customer logs; Replay then
// materializes each customer's balances by applying the records in
// arrival order through the transaction state machine. Dispute, resolve,
// and chargeback records reference earlier deposits in the same log and
// re-derive their amount from the referenced record at lookup time.
//
// Record-level failures (arithmetic overflow, unknown references,
// lifecycle violations) never abort a replay. They are logged, collected
// as typed issues, and leave the account exactly as it was before the
// offending record.
//
// Example usage:
//
//	l := ledger.New(ledger.WithPolicy(ledger.Policy{DenyNegative: true}))
//	for _, rec := range records {
//	    l.Append(rec)
//	}
//	if err := l.Replay(ctx); err != nil {
//	    // context cancellation only; record issues are in l.Issues()
//	}
//	for _, acc := range l.Accounts() {
//	    fmt.Println(acc.Client, acc.Total)
//	}
package ledger

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/tallybook/tally/record"
	"github.com/tallybook/tally/telemetry"
)

// Ledger owns the accounts map and the per-customer transaction logs.
// Accounts are created lazily on first reference and never deleted
// during a run.
type Ledger struct {
	policy Policy
	logger *zap.Logger

	accounts map[uint32]*Account

	mu     sync.Mutex
	issues []error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy sets the replay policy.
func WithPolicy(p Policy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		logger:   zap.NewNop(),
		accounts: make(map[uint32]*Account),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records an accepted transaction in its customer's log. Records
// must be appended in stream order; Replay depends on it.
func (l *Ledger) Append(rec record.Transaction) {
	l.getOrCreate(rec.Client).append(rec)
}

// getOrCreate returns the account for a customer id, creating it on
// first reference. Subsequent references reuse the same account.
func (l *Ledger) getOrCreate(client uint32) *Account {
	acc, ok := l.accounts[client]
	if !ok {
		acc = newAccount(client)
		l.accounts[client] = acc
	}
	return acc
}

// Replay materializes every account's balances from its log. Customers
// are replayed in parallel; within a customer, records are applied
// strictly in arrival order. The returned error is non-nil only on
// context cancellation; record-level issues are collected on the ledger.
func (l *Ledger) Replay(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("ledger.replay (%d accounts)", len(l.accounts)))
	defer timer.End()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, acc := range l.accounts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l.replayAccount(acc)
			return nil
		})
	}

	return g.Wait()
}

// Account returns the account for a customer id.
func (l *Ledger) Account(client uint32) (*Account, bool) {
	acc, ok := l.accounts[client]
	return acc, ok
}

// Accounts returns all accounts ordered by ascending customer id.
func (l *Ledger) Accounts() []*Account {
	accounts := make([]*Account, 0, len(l.accounts))
	for _, acc := range l.accounts {
		accounts = append(accounts, acc)
	}
	slices.SortFunc(accounts, func(a, b *Account) int {
		return int(a.Client) - int(b.Client)
	})
	return accounts
}

// Issues returns the record-level issues collected during replay.
func (l *Ledger) Issues() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.issues...)
}

// addIssue collects a record-level issue. Safe for concurrent use; the
// issue slice is the only state shared across customer replays.
func (l *Ledger) addIssue(err error) {
	l.mu.Lock()
	l.issues = append(l.issues, err)
	l.mu.Unlock()
}
