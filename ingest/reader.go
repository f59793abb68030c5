// Package ingest decodes delimited-text transaction rows into records.
//
// The input is CSV with a header row and columns type, client, tx,
// amount. Rows that fail to decode are logged, counted, and skipped;
// ingestion only fails outright when the underlying reader does.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tallybook/tally/record"
	"github.com/tallybook/tally/telemetry"
)

// Stats counts the outcome of one ingestion pass. Rows excludes the
// header.
type Stats struct {
	Rows     int
	Accepted int
	Skipped  int
}

// Reader decodes transaction rows.
type Reader struct {
	logger *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for per-row diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// New creates a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadAll decodes every row from src, passing each accepted record to
// accept in stream order. Malformed rows never abort the pass; the
// returned error is non-nil only for I/O failures or cancellation.
func (r *Reader) ReadAll(ctx context.Context, src io.Reader, accept func(record.Transaction)) (Stats, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start("ingest.read")
	defer timer.End()

	var stats Stats

	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // amount column is absent for some kinds

	// Header row. An empty input is fine; it just yields no accounts.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading header: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Rows++
			stats.Skipped++
			r.logger.Error("skipping malformed row", zap.Error(err))
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("reading row: %w", err)
		}

		stats.Rows++
		rec, err := decodeRow(row)
		if err != nil {
			stats.Skipped++
			r.logger.Error("skipping row", zap.Strings("row", row), zap.Error(err))
			continue
		}

		r.logger.Debug("accepted transaction",
			zap.Stringer("kind", rec.Kind),
			zap.Uint32("client", rec.Client),
			zap.Uint32("tx", rec.Tx))
		stats.Accepted++
		accept(rec)
	}

	r.logger.Info("ingestion complete",
		zap.Int("rows", stats.Rows),
		zap.Int("accepted", stats.Accepted),
		zap.Int("skipped", stats.Skipped))

	return stats, nil
}

// decodeRow converts one CSV row into a record. The amount cell is
// required for deposits and withdrawals and ignored for the referencing
// kinds even when present.
func decodeRow(row []string) (record.Transaction, error) {
	if len(row) < 3 {
		return record.Transaction{}, fmt.Errorf("expected at least 3 columns, got %d", len(row))
	}

	kind := record.ParseKind(row[0])
	if kind == record.KindUnknown {
		return record.Transaction{}, fmt.Errorf("unknown transaction type %q", strings.TrimSpace(row[0]))
	}

	client, err := parseID(row[1])
	if err != nil {
		return record.Transaction{}, fmt.Errorf("invalid client id: %w", err)
	}

	tx, err := parseID(row[2])
	if err != nil {
		return record.Transaction{}, fmt.Errorf("invalid transaction id: %w", err)
	}

	rec := record.Transaction{Kind: kind, Client: client, Tx: tx}

	if kind.Monetary() {
		if len(row) < 4 || strings.TrimSpace(row[3]) == "" {
			return record.Transaction{}, fmt.Errorf("%s is missing an amount", kind)
		}
		amount, err := record.ParseAmount(row[3])
		if err != nil {
			return record.Transaction{}, err
		}
		rec.Amount = amount
		rec.HasAmount = true
	}

	return rec, nil
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not an unsigned integer", strings.TrimSpace(s))
	}
	return uint32(id), nil
}
