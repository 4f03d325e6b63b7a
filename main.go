// Command threea converts, exports and inspects 3a animated ASCII art.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"threea/config"

	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "threea",
		Short: "Convert, export and inspect 3a animated ASCII art",
		Long: `threea reads 3a files in the current or the legacy format and can
rewrite them in the current format, export them to SVG, asciicast, ANSI,
JSON or plain text, and report on their contents.

A file argument of "-" or no argument at all reads standard input.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config file)")

	rootCmd.AddCommand(a.convertCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.infoCmd())
	rootCmd.AddCommand(a.validateCmd())

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if a.logLevel != "" {
		if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
		}
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", "path", a.configPath, "level", level)
	return nil
}
