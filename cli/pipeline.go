package cli

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/tallybook/tally/ingest"
	"github.com/tallybook/tally/ledger"
)

// runPipeline runs one full ingest-then-replay pass over src and returns
// the materialized ledger. Ingestion finishes before replay starts, so
// every customer's log is complete and ordered when it is replayed.
func runPipeline(ctx context.Context, logger *zap.Logger, src io.Reader, policy ledger.Policy) (*ledger.Ledger, ingest.Stats, error) {
	l := ledger.New(
		ledger.WithPolicy(policy),
		ledger.WithLogger(logger),
	)

	r := ingest.New(ingest.WithLogger(logger))
	stats, err := r.ReadAll(ctx, src, l.Append)
	if err != nil {
		return nil, stats, err
	}

	if err := l.Replay(ctx); err != nil {
		return nil, stats, err
	}

	return l, stats, nil
}
