package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vango-dev/graft/internal/config"
	"github.com/vango-dev/graft/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬─┐┌─┐┌─┐┌┬┐
  │ ┬├┬┘├─┤├┤  │
  └─┘┴└─┴ ┴└   ┴
`

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "graft",
		Short: "Render and diff virtual trees",
		Long: `graft reconciles virtual trees described by YAML tree documents.

  • render a document to HTML
  • diff two documents as the host mutations that turn one into the other
  • serve documents to websocket clients as mutation frames`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./graft.yaml if present)")

	rootCmd.AddCommand(
		renderCmd(a),
		diffCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) setup(stderr io.Writer) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	level, _ := a.cfg.LogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
