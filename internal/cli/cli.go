// Package cli implements the polyboard command-line interface.
//
// # Commands
//
//   - play: open a window and drag pieces with the mouse
//   - simulate: run scripted drags headless and print the board
//   - shaders: compile the embedded shader programs and report them
//
// All commands accept --config to load a TOML or YAML file and
// --verbose (-v) for debug logging.
package cli

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/polyboard"
	"github.com/gogpu/polyboard/internal/config"
)

const appName = "polyboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Version is reported by --version.
var Version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// slog returns the CLI logger as a log/slog logger.
func (c *CLI) slog() *slog.Logger {
	return slog.New(c.Logger)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Drag pieces around a 3-D polygon board",
		Long:         `polyboard places pieces on the corners of a regular polygon. Dragging a piece swaps it into another corner while a partner piece moves into the free one.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			polyboard.SetLogger(c.slog())
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.shadersCommand())

	return root
}

// loadConfig returns the configured file, or the defaults when no
// --config was given, and the file system asset paths resolve against.
func (c *CLI) loadConfig() (config.File, fs.FS, error) {
	if c.configPath == "" {
		return config.Default(), os.DirFS("."), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.File{}, nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath)
	return cfg, os.DirFS(filepath.Dir(c.configPath)), nil
}
