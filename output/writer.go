// Package output serializes final account balances.
//
// The CSV writer is the machine-readable surface: one row per customer,
// decimals rendered exactly as computed, clients in ascending order. The
// table renderer is the human-readable alternative for terminals.
package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tallybook/tally/ledger"
)

// WriteCSV writes account balances as CSV with a header row. Accounts
// are written in the order given; ledger.Accounts already sorts them by
// client id.
func WriteCSV(w io.Writer, accounts []*ledger.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, acc := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			acc.Available.String(),
			acc.Held.String(),
			acc.Total.String(),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
