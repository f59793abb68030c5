package cli

import (
	"github.com/tallybook/tally/ledger"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Process ProcessCmd `cmd:"" default:"withargs" help:"Replay a transaction file and emit final account balances."`
	Check   CheckCmd   `cmd:"" help:"Replay a transaction file and report per-record issues without emitting balances."`
	Watch   WatchCmd   `cmd:"" help:"Re-process a transaction file whenever it changes."`
}

// PolicyFlags exposes the replay policy switches on a command.
type PolicyFlags struct {
	PermissiveDisputes bool `help:"Do not track per-transaction dispute state; repeated disputes and resolves move funds every time."`
	DenyNegative       bool `help:"Reject withdrawals that would drive available funds negative."`
	FreezeLocked       bool `help:"Reject all transactions on accounts locked by a chargeback."`
}

func (f PolicyFlags) Policy() ledger.Policy {
	return ledger.Policy{
		PermissiveDisputes: f.PermissiveDisputes,
		DenyNegative:       f.DenyNegative,
		FreezeLocked:       f.FreezeLocked,
	}
}
