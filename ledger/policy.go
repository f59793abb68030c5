package ledger

// Policy selects between the permissive behavior of the stream-trusting
// replay this engine models and hardened alternatives. The zero value is
// the default: strict dispute tracking, no insufficient-funds check, and
// locked accounts still accepting records.
type Policy struct {
	// PermissiveDisputes disables per-transaction dispute status
	// tracking, reproducing the behavior of inferring dispute state from
	// balance arithmetic alone. Double disputes, double resolves, and
	// resolve-without-dispute are then accepted and move funds each time.
	PermissiveDisputes bool

	// DenyNegative rejects withdrawals that would drive available funds
	// negative. Off by default: the input stream is treated as already
	// validated upstream.
	DenyNegative bool

	// FreezeLocked rejects every record on an account once a chargeback
	// has locked it. Off by default: a locked account keeps applying
	// subsequent records.
	FreezeLocked bool
}
