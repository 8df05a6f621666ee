package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/config"
	"github.com/joacominatel/sqlcli/internal/tui"
	"github.com/joacominatel/sqlcli/internal/tui/results"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

// Replaced in tests.
var (
	openSession = app.Open
	runProgram  = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. The session is
// closed on every path.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sqlcli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	profile := fs.String("profile", "", "saved connection profile to use")
	execute := fs.String("e", "", "execute one statement, print its rows and exit")
	format := fs.String("format", "table", "output format for -e: table, csv or json")
	mode := fs.String("mode", "", "comma-separated SQLite open modes (readonly,readwrite,create,uri,fullmutex,sharedcache,privatecache)")
	reload := fs.Bool("reload", false, "always re-fetch table schemas")
	noCache := fs.Bool("no-table-cache", false, "do not cache fetched table schemas")
	save := fs.String("save", "", "save the connection under this profile name")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: sqlcli [flags] [database.db | postgresql://...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: failed to load config: %v\n", err)
		cfg = &config.Config{Preferences: config.Preferences{UseTableCache: true}}
	}

	conn, err := resolveConnection(cfg, *profile, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *mode != "" {
		conn.Mode = strings.Split(*mode, ",")
	}

	if *save != "" {
		if err := saveConnection(cfg, conn, *save); err != nil {
			fmt.Fprintf(stderr, "Warning: could not save connection: %v\n", err)
		}
	}

	if err := config.ResolvePassword(&conn); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	opts := app.QueryOptions{
		ReloadSchema:   *reload || cfg.Preferences.ReloadSchema,
		SkipTableCache: *noCache || !cfg.Preferences.UseTableCache,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	session, err := openSession(ctx, conn, logger)
	cancel()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = session.Close() }()

	if *execute != "" {
		if err := runOnce(stdout, session, *execute, *format, opts); err != nil {
			fmt.Fprintln(stderr, theme.StyleError.Render("Error: "+err.Error()))
			return 1
		}
		return 0
	}

	if err := runProgram(tui.NewModel(session, conn.DisplayString(), opts)); err != nil {
		fmt.Fprintf(stderr, "Error running program: %v\n", err)
		return 1
	}
	return 0
}

// resolveConnection picks the connection: named profile > positional target >
// default profile.
func resolveConnection(cfg *config.Config, profile, target string) (config.Connection, error) {
	if profile != "" {
		c, ok := cfg.Connection(profile)
		if !ok {
			return config.Connection{}, fmt.Errorf("unknown profile %q", profile)
		}
		return *c, nil
	}
	if target != "" {
		return config.ParseTarget(target)
	}
	if c := config.DefaultConnection(cfg); c != nil {
		return *c, nil
	}
	return config.Connection{}, errors.New("no database given and no saved connections")
}

func saveConnection(cfg *config.Config, conn config.Connection, name string) error {
	conn.Name = name
	if err := config.StorePassword(&conn); err != nil {
		return err
	}
	cfg.AddConnection(conn)
	return config.Save(cfg)
}

func runOnce(w io.Writer, session *app.Session, query, format string, opts app.QueryOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := session.Query(ctx, query, opts)
	if err != nil {
		return err
	}
	if format == "table" {
		_, err := fmt.Fprintln(w, results.Render(res))
		return err
	}
	return results.Write(w, res, format)
}
