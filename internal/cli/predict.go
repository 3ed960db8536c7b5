package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/CloudClassify/internal/config"
	"github.com/yildizm/CloudClassify/internal/formatter"
	"github.com/yildizm/CloudClassify/internal/logger"
	"github.com/yildizm/CloudClassify/internal/predict"
	"github.com/yildizm/CloudClassify/internal/state"
	"github.com/yildizm/CloudClassify/internal/ui"
)

var (
	predictNoTUI      bool
	predictTimeout    time.Duration
	predictOutputFile string
)

func newPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [file]",
		Short: "Classify an image",
		Long: `Upload an image to the prediction service and show the predicted class
and confidence.

With text output on a terminal this opens the interactive form, pre-selected
with the given file and submitted immediately. Use --no-tui, --verbose or a
non-text --output to print one prediction and exit. The exit status is
non-zero when the prediction fails.

Examples:
  cloudclassify predict
  cloudclassify predict sky.jpg
  cloudclassify predict --no-tui sky.jpg
  cloudclassify predict -o json --endpoint http://10.0.0.5:5000/predict sky.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPredict,
	}

	cmd.Flags().BoolVar(&predictNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().DurationVar(&predictTimeout, "timeout", 0, "request timeout (overrides endpoint.timeout, 0 waits indefinitely)")
	cmd.Flags().StringVar(&predictOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("cli")

	var file *predict.File
	if len(args) == 1 {
		f, err := predict.OpenFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", args[0], err)
		}
		file = f
		log.Debug("loaded %s (%s, %d bytes)", file.Name, file.ContentType, file.Size())
	}

	clientCfg := cfg.ClientConfig()
	if cmd.Flags().Changed("timeout") {
		clientCfg.Timeout = predictTimeout
	}

	client, err := predict.NewClient(clientCfg, predict.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create prediction client: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if shouldUseTUIMode() {
		return runPredictTUI(ctx, cmd.OutOrStdout(), client, cfg, file)
	}

	log.Debug("sending %s to %s", describeFile(file), client.Endpoint())

	s := state.New(cfg.UI.SerializeSubmits)
	s, _ = state.Reduce(s, state.SelectFile{File: file})
	s = submitAndSettle(ctx, client, s)

	f, err := formatter.New(getOutputFormat(), useColor())
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	output, err := f.Format(formatter.FromState(s))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), output, log); err != nil {
		return err
	}

	if s.Err != nil {
		log.Debug("%s", s.Err.Detail())
		return ErrPredictionFailed
	}
	return nil
}

// shouldUseTUIMode reports whether predict should open the interactive form
func shouldUseTUIMode() bool {
	return !predictNoTUI && getOutputFormat() == "text" && !isVerbose()
}

// runPredictTUI runs the form and leaves the final outcome on screen after exit
func runPredictTUI(ctx context.Context, out io.Writer, p predict.Predictor, cfg *config.Config, file *predict.File) error {
	final, err := ui.Run(ctx, p, ui.Options{
		Serialize:     cfg.UI.SerializeSubmits,
		Accept:        cfg.UI.Accept,
		File:          file,
		SubmitOnStart: file != nil,
		Logger:        newLogger("ui"),
	})
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if lines := state.Lines(final); len(lines) > 0 {
		fmt.Fprintln(out, strings.Join(lines, "\n"))
	}
	if final.Err != nil {
		return ErrPredictionFailed
	}
	return nil
}

// submitAndSettle submits the selected file and waits for its outcome.
// A submit the reducer rejects (no file, or serialized while pending)
// returns without a network call.
func submitAndSettle(ctx context.Context, p predict.Predictor, s state.State) state.State {
	s, req := state.Reduce(s, state.Submit{})
	if req == nil {
		return s
	}

	result, err := p.Predict(ctx, req.File)
	s, _ = state.Reduce(s, state.SettledFrom(req.Attempt, result, err))
	return s
}

// writeOutput writes output to --output-file or out
func writeOutput(out io.Writer, output []byte, log *logger.Logger) error {
	if predictOutputFile == "" {
		_, err := out.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, predictOutputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	log.Info("Output saved to: %s", predictOutputFile)
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("empty file path")
	}
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - the user names the output file
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}

func describeFile(f *predict.File) string {
	if f == nil {
		return "no file"
	}
	return f.Name
}
