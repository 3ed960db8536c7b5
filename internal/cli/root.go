package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/CloudClassify/internal/config"
	"github.com/yildizm/CloudClassify/internal/emoji"
	"github.com/yildizm/CloudClassify/internal/logger"
	"github.com/yildizm/CloudClassify/internal/ui"
)

// ErrPredictionFailed is returned when a prediction settled with an error.
// The error line has already been written, so callers only set the exit status.
var ErrPredictionFailed = errors.New("prediction failed")

var (
	cfgFile     string
	verbose     bool
	noColor     bool
	noEmoji     bool
	outputFmt   string
	endpointURL string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cloudclassify",
		Short: "Classify cloud images with a prediction service",
		Long: `CloudClassify uploads an image to a cloud classification service and shows
the predicted class together with the model's confidence.

Run "cloudclassify predict" for the interactive form, or pass a file with
--no-tui to print a single prediction in text, json, markdown or csv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyDisplayFlags(cmd)
			return loadGlobalConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv); defaults to output.default_format")
	rootCmd.PersistentFlags().StringVar(&endpointURL, "endpoint", "", "prediction endpoint URL (overrides endpoint.url)")

	// Add subcommands
	rootCmd.AddCommand(newPredictCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// applyDisplayFlags sets emoji state for all components
func applyDisplayFlags(cmd *cobra.Command) {
	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
		noEmoji = true
	}
	emoji.SetEmojiDisabled(noEmoji)
}

// loadGlobalConfig loads configuration and applies flag overrides on top of it
func loadGlobalConfig() error {
	loader := config.NewLoader()
	loader.SetWarningHandler(newLogger("config").Warn)

	cfg, err := loader.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if endpointURL != "" {
		cfg.Endpoint.URL = endpointURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --endpoint: %w", err)
		}
	}

	globalConfig = cfg
	ui.SetThemeByName(cfg.UI.Theme)
	ui.SetColorDisabled(!useColor())
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CloudClassify %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}

func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	if f := GetGlobalConfig().Output.DefaultFormat; f != "" {
		return f
	}
	return "text"
}

// useColor resolves --no-color, NO_COLOR and output.color_mode
func useColor() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

// newLogger returns a component logger gated on the verbose flag
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
