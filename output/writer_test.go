package output

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/ledger"
)

func account(client uint32, available, held string, locked bool) *ledger.Account {
	a := decimal.RequireFromString(available)
	h := decimal.RequireFromString(held)
	return &ledger.Account{
		Client:    client,
		Available: a,
		Held:      h,
		Total:     a.Add(h),
		Locked:    locked,
	}
}

func TestWriteCSV(t *testing.T) {
	t.Run("EmptyLedger", func(t *testing.T) {
		var buf strings.Builder
		assert.NoError(t, WriteCSV(&buf, nil))
		assert.Equal(t, "client,available,held,total,locked\n", buf.String())
	})

	t.Run("OneRowPerAccount", func(t *testing.T) {
		accounts := []*ledger.Account{
			account(1, "1.5", "0", false),
			account(2, "-1", "0", false),
			account(3, "0", "2.25", true),
		}

		var buf strings.Builder
		assert.NoError(t, WriteCSV(&buf, accounts))

		expected := `client,available,held,total,locked
1,1.5,0,1.5,false
2,-1,0,-1,false
3,0,2.25,2.25,true
`
		assert.Equal(t, expected, buf.String())
	})

	t.Run("DecimalsRenderedExactly", func(t *testing.T) {
		accounts := []*ledger.Account{account(9, "0.0001", "0", false)}

		var buf strings.Builder
		assert.NoError(t, WriteCSV(&buf, accounts))
		assert.Contains(t, buf.String(), "9,0.0001,0,0.0001,false")
	})
}
