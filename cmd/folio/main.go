package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vango-dev/folio/internal/config"
	"github.com/vango-dev/folio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the state shared by every command. It is filled in by the
// root command before any subcommand runs.
type app struct {
	dir     string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		a.printError(err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "A file-routed static blog",
		Long: `folio serves and prerenders a blog from a directory of pages.

Routes come from the layout of the pages directory:

  • page.html files become routes, folders become segments
  • [name] folders bind one segment, [...name] folders bind the rest
  • (name) folders group pages without adding a segment
  • layout.html files wrap every page below them`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(
		buildCmd(a),
		serveCmd(a),
		devCmd(a),
		routesCmd(a),
		genCmd(a),
		versionCmd(a),
	)

	return rootCmd
}

// setup loads .env and the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	if f, ok := a.errOut.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		errors.DisableColors()
	}

	dir, err := filepath.Abs(a.dir)
	if err != nil {
		return err
	}
	if root, err := config.FindProjectRoot(dir); err == nil {
		dir = root
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !os.IsNotExist(err) {
		return errors.New("E121").WithDetail(".env is not a valid dotenv file.").Wrap(err)
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.errOut, cfg, a.verbose)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// printError reports err on stderr, as one JSON object when logs are
// configured as JSON.
func (a *app) printError(err error) {
	w := a.errOut
	if w == nil {
		w = os.Stderr
	}
	output := errors.OutputText
	if a.cfg != nil && strings.EqualFold(a.cfg.Log.Format, "json") {
		output = errors.OutputJSON
	}
	errors.Fprint(w, err, output)
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.out, "  %s\n", fmt.Sprintf(format, args...))
}
