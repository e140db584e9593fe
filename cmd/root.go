package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/fable/internal/config"
	"github.com/Yates-Labs/fable/internal/console"
	"github.com/Yates-Labs/fable/internal/engine"
	"github.com/Yates-Labs/fable/internal/orchestrator"
	"github.com/Yates-Labs/fable/internal/tui"
)

// markdownWidth is the wrap column for rendered passages.
const markdownWidth = 80

var rootCmd = &cobra.Command{
	Use:   "fable",
	Short: "Fable - Interactive story generator",
	Long: `Fable co-writes an interactive story with a hosted language model.

It asks for a genre, a setting and a starting situation, then alternates
between narrating and asking what you do next. Type 'quit' to stop.

Configuration is read from $FABLE_CONFIG or <config dir>/fable/config.toml,
then from FABLE_* environment variables and a local .env file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStory,
}

// Execute runs the root command and exits with its status code.
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, engine.ErrInitialGeneration) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run error to the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, engine.ErrInitialGeneration):
		return 2
	default:
		return 1
	}
}

func runStory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := console.New(os.Stdout)
	d := config.DefaultsFor(cfg.Provider)
	out.Banner("Interactive Story Generator",
		fmt.Sprintf("Provider: %s", d.DisplayName),
		fmt.Sprintf("Ensure %s is set in your environment or a .env file.", d.KeyEnvVar),
		"Type 'quit' at any prompt to end the story.",
	)

	if cfg.Markdown {
		if err := out.EnableMarkdown(markdownWidth); err != nil {
			out.Warn(err.Error())
		}
	}

	logger := console.NewLogger(os.Stderr, cfg.Debug)
	in := console.NewLineReader()
	defer in.Close()

	session, err := orchestrator.Bootstrap(ctx, cfg, orchestrator.Dependencies{
		Input:  in,
		Output: out,
		Picker: tui.NewPicker(),
		Logger: logger,
	})
	if err != nil {
		if errors.Is(err, config.ErrCredentialMissing) {
			out.Error("API Key is required. Exiting.")
		}
		return err
	}

	loop := session.NewLoop(in, out, logger)
	loop.SetCallScope(interruptScope)
	return loop.Run(ctx)
}

// interruptScope lets Ctrl+C abort the generation call in flight without
// ending the session. Outside a call the signal keeps its default behaviour.
func interruptScope(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}
