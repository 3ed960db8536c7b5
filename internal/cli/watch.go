package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/CloudClassify/internal/emoji"
	"github.com/yildizm/CloudClassify/internal/formatter"
	"github.com/yildizm/CloudClassify/internal/logger"
	"github.com/yildizm/CloudClassify/internal/monitor"
	"github.com/yildizm/CloudClassify/internal/predict"
	"github.com/yildizm/CloudClassify/internal/state"
)

var watchDebounce time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-classify an image whenever it changes",
		Long: `Submit an image once, then submit it again every time it is written or
replaced. Each outcome is printed in the selected output format; csv output
writes its header once so the stream can be appended to a file.

Press Ctrl+C to stop watching.

Examples:
  cloudclassify watch sky.jpg
  cloudclassify watch -o csv --debounce 1s camera/latest.jpg >> results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period after the last write (overrides watch.debounce)")

	return cmd
}

// watchSession resubmits one file through the reducer and prints each outcome
type watchSession struct {
	path      string
	predictor predict.Predictor
	formatter formatter.Formatter
	out       io.Writer
	log       *logger.Logger
	state     state.State
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("watch")

	path := filepath.Clean(args[0])
	if err := validateWatchFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	debounce := cfg.Watch.Debounce
	if cmd.Flags().Changed("debounce") {
		debounce = watchDebounce
	}

	client, err := predict.NewClient(cfg.ClientConfig(), predict.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create prediction client: %w", err)
	}

	f, err := formatter.New(getOutputFormat(), useColor())
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	watcher, err := createWatcher(path)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := monitor.NewTracker(client)
	defer func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.GetEmoji("door"), tracker.Summary())
	}()

	session := &watchSession{
		path:      path,
		predictor: tracker,
		formatter: f,
		out:       cmd.OutOrStdout(),
		log:       log,
		state:     state.New(cfg.UI.SerializeSubmits),
	}

	log.Info("%s Watching %s (debounce %s), press Ctrl+C to stop", emoji.GetEmoji("watch"), path, debounce)

	if err := session.resubmit(ctx); err != nil {
		log.Warn("%v", err)
	}

	return runWatchLoop(ctx, watcher, path, debounce, session.resubmit, log)
}

// resubmit reloads the file, selects it and prints the settled outcome
func (w *watchSession) resubmit(ctx context.Context) error {
	file, err := predict.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", w.path, err)
	}

	w.state, _ = state.Reduce(w.state, state.SelectFile{File: file})
	w.state = submitAndSettle(ctx, w.predictor, w.state)

	if ctx.Err() != nil {
		return nil
	}

	output, err := w.formatter.Format(formatter.FromState(w.state))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := w.out.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	w.log.DebugWithFields("settled", []logger.Field{
		logger.Attempt(w.state.Attempts),
		logger.F("failed", w.state.Err != nil),
	})
	return nil
}

// createWatcher watches the file's directory so that editors replacing the
// file by rename still produce events for it
func createWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Debug("failed to close watcher: %v", err)
	}
}

// runWatchLoop calls submit after each burst of write or create events on
// path has been quiet for debounce. It returns when ctx is done.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration,
	submit func(context.Context) error, log *logger.Logger) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("stopping watch")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isChangeOf(event, path) {
				continue
			}
			log.Debug("event %s", event)
			timer.Reset(debounce)

		case <-timer.C:
			if err := submit(ctx); err != nil {
				log.Warn("%v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// isChangeOf reports whether event writes or creates path
func isChangeOf(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
