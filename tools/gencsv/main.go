// Transaction CSV Generator
//
// This tool generates a large transaction file for performance testing
// and profiling. It emits deposits, withdrawals, and dispute lifecycle
// records across a pool of customers, with a sprinkling of malformed
// rows to exercise ingestion error containment.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 1000000 > large.csv  # Specify row count
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

const defaultRows = 100000

func main() {
	rows := defaultRows
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid row count %q\n", os.Args[1])
			os.Exit(1)
		}
		rows = n
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprintln(w, "type,client,tx,amount")

	const clients = 500
	nextTx := uint32(1)

	// Remember recent deposits per client so disputes can reference them.
	deposits := make(map[uint32][]uint32)

	for i := 0; i < rows; i++ {
		client := uint32(rand.Intn(clients) + 1)

		switch r := rand.Float64(); {
		case r < 0.60:
			amount := float64(rand.Intn(1000000)) / 100
			fmt.Fprintf(w, "deposit,%d,%d,%.2f\n", client, nextTx, amount)
			deposits[client] = append(deposits[client], nextTx)
			nextTx++

		case r < 0.88:
			amount := float64(rand.Intn(100000)) / 100
			fmt.Fprintf(w, "withdrawal,%d,%d,%.2f\n", client, nextTx, amount)
			nextTx++

		case r < 0.94:
			if txs := deposits[client]; len(txs) > 0 {
				fmt.Fprintf(w, "dispute,%d,%d,\n", client, txs[rand.Intn(len(txs))])
			}

		case r < 0.97:
			if txs := deposits[client]; len(txs) > 0 {
				fmt.Fprintf(w, "resolve,%d,%d,\n", client, txs[rand.Intn(len(txs))])
			}

		case r < 0.98:
			if txs := deposits[client]; len(txs) > 0 {
				fmt.Fprintf(w, "chargeback,%d,%d,\n", client, txs[rand.Intn(len(txs))])
			}

		default:
			// Malformed rows: bad type, bad id, or bad amount.
			switch rand.Intn(3) {
			case 0:
				fmt.Fprintf(w, "transfer,%d,%d,1.00\n", client, nextTx)
			case 1:
				fmt.Fprintf(w, "deposit,abc,%d,1.00\n", nextTx)
			default:
				fmt.Fprintf(w, "deposit,%d,%d,1.2.3\n", client, nextTx)
			}
			nextTx++
		}
	}
}
