package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/tallybook/tally/logging"
	"github.com/tallybook/tally/output"
	"github.com/tallybook/tally/telemetry"
)

type ProcessCmd struct {
	File   FileOrStdin `help:"Transaction input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Format string      `help:"Output format for balances." enum:"csv,table" default:"csv"`
	Output string      `help:"Write balances to a file instead of stdout." short:"o" placeholder:"PATH"`

	PolicyFlags `embed:""`
}

func (cmd *ProcessCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		processTimer := collector.Start(fmt.Sprintf("process %s", cmd.File.DisplayName()))
		defer func() {
			processTimer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	src, err := cmd.File.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	l, stats, err := runPipeline(runCtx, logger, src, cmd.Policy())
	if err != nil {
		return err
	}

	if issues := l.Issues(); len(issues) > 0 {
		logger.Info("replay finished with skipped transactions",
			zap.Int("issues", len(issues)))
	}
	logger.Info("run summary",
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("accounts", len(l.Accounts())))

	w, cleanup, err := cmd.openOutput(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	emitTimer := telemetry.FromContext(runCtx).Start("output.emit")
	defer emitTimer.End()

	switch cmd.Format {
	case "table":
		return output.WriteTable(w, l.Accounts())
	default:
		return output.WriteCSV(w, l.Accounts())
	}
}

// openOutput returns the destination for emitted balances. With --output
// an existing file is only overwritten after interactive confirmation;
// non-interactive runs refuse rather than clobber.
func (cmd *ProcessCmd) openOutput(ctx *kong.Context) (io.Writer, func(), error) {
	if cmd.Output == "" {
		return ctx.Stdout, func() {}, nil
	}

	path, err := filepath.Abs(cmd.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", path))
		if err != nil {
			return nil, nil, err
		}
		if !confirmed {
			return nil, nil, fmt.Errorf("refusing to overwrite %s", path)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	cleanup := func() {
		_ = file.Close()
		printSuccess(ctx.Stderr, fmt.Sprintf("Balances written to %s", pathStyle.Render(path)))
	}
	return file, cleanup, nil
}
