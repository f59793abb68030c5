package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tallybook/tally/ledger"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

var tableHeader = []string{"CLIENT", "AVAILABLE", "HELD", "TOTAL", "LOCKED"}

// WriteTable renders account balances as an aligned terminal table.
// Numeric columns are right-aligned; locked accounts are highlighted.
func WriteTable(w io.Writer, accounts []*ledger.Account) error {
	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			acc.Available.String(),
			acc.Held.String(),
			acc.Total.String(),
			strconv.FormatBool(acc.Locked),
		})
	}

	widths := columnWidths(tableHeader, rows)

	header := make([]string, len(tableHeader))
	for i, cell := range tableHeader {
		header[i] = headerStyle.Render(pad(cell, widths[i]))
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "  ")); err != nil {
		return err
	}

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			padded := pad(cell, widths[j])
			if j == len(row)-1 && accounts[i].Locked {
				padded = lockedStyle.Render(padded)
			} else if j == len(row)-1 {
				padded = dimStyle.Render(padded)
			}
			cells[j] = padded
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}

	return nil
}

// columnWidths returns the display width of each column over the header
// and all rows.
func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = runewidth.StringWidth(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// pad right-aligns a cell to the given display width.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}
