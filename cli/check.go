package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/tallybook/tally/logging"
	"github.com/tallybook/tally/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Transaction input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`

	PolicyFlags `embed:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
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

		checkTimer := collector.Start(fmt.Sprintf("check %s", cmd.File.DisplayName()))
		defer func() {
			checkTimer.End()
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

	printInfof(ctx.Stdout, "%d rows read, %d accepted, %d skipped", stats.Rows, stats.Accepted, stats.Skipped)
	printInfof(ctx.Stdout, "%d account(s)", len(l.Accounts()))

	issues := l.Issues()
	if len(issues) == 0 && stats.Skipped == 0 {
		printSuccess(ctx.Stdout, "Check passed")
		return nil
	}

	for _, issue := range issues {
		_, _ = fmt.Fprintf(ctx.Stderr, "  %s\n", errorStyle.Render(issue.Error()))
	}

	_, _ = fmt.Fprintln(ctx.Stderr)
	printError(ctx.Stderr, fmt.Sprintf("%d skipped row(s), %d replay issue(s)", stats.Skipped, len(issues)))

	return NewCommandError(1)
}
