package output

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tallybook/tally/ledger"
)

func TestWriteTable(t *testing.T) {
	t.Run("HeaderAndRows", func(t *testing.T) {
		accounts := []*ledger.Account{
			account(1, "100.25", "0", false),
			account(42, "0", "5.5", true),
		}

		var buf strings.Builder
		assert.NoError(t, WriteTable(&buf, accounts))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Equal(t, 3, len(lines))
		assert.Contains(t, lines[0], "CLIENT")
		assert.Contains(t, lines[0], "LOCKED")
		assert.Contains(t, lines[1], "100.25")
		assert.Contains(t, lines[1], "false")
		assert.Contains(t, lines[2], "42")
		assert.Contains(t, lines[2], "true")
	})

	t.Run("EmptyLedgerPrintsHeaderOnly", func(t *testing.T) {
		var buf strings.Builder
		assert.NoError(t, WriteTable(&buf, nil))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Equal(t, 1, len(lines))
	})
}

func TestColumnWidths(t *testing.T) {
	header := []string{"A", "LONGHEADER"}
	rows := [][]string{
		{"12345", "x"},
		{"1", "yy"},
	}
	assert.Equal(t, []int{5, 10}, columnWidths(header, rows))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "  abc", pad("abc", 5))
	assert.Equal(t, "abc", pad("abc", 3))
	assert.Equal(t, "abc", pad("abc", 1))
}
