package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/tallybook/tally/logging"
	"github.com/tallybook/tally/output"
)

type WatchCmd struct {
	File   string `help:"Transaction input filename." arg:"" type:"existingfile"`
	Format string `help:"Output format for balances." enum:"csv,table" default:"table"`

	PolicyFlags `embed:""`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(path))

	if err := cmd.runOnce(ctx, runCtx, path); err != nil {
		printError(ctx.Stderr, err.Error())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: atomic saves replace the inode
	// and a watch on the old one would go quiet.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-runCtx.Done():
			printInfof(ctx.Stdout, "Stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				printInfof(ctx.Stdout, "%s changed, re-processing", pathStyle.Render(path))
				if err := cmd.runOnce(ctx, runCtx, path); err != nil {
					printError(ctx.Stderr, err.Error())
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

// runOnce processes the watched file and prints the resulting balances.
// Failures are reported and the watch keeps running; a transient state
// (for instance mid-save) resolves on the next event.
func (cmd *WatchCmd) runOnce(ctx *kong.Context, runCtx context.Context, path string) error {
	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	l, stats, err := runPipeline(runCtx, logger, src, cmd.Policy())
	if err != nil {
		return err
	}

	if cmd.Format == "csv" {
		if err := output.WriteCSV(ctx.Stdout, l.Accounts()); err != nil {
			return err
		}
	} else {
		if err := output.WriteTable(ctx.Stdout, l.Accounts()); err != nil {
			return err
		}
	}

	if stats.Skipped > 0 || len(l.Issues()) > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d skipped row(s), %d replay issue(s)", stats.Skipped, len(l.Issues())))
	} else {
		printSuccess(ctx.Stdout, fmt.Sprintf("%d row(s) applied cleanly", stats.Accepted))
	}

	return nil
}
