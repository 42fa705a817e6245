// Command gridview pages, filters and sorts an item dataset from the
// command line or an interactive terminal grid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/odvcencio/furry-grid/config"
	"github.com/odvcencio/furry-grid/render"
	"github.com/odvcencio/furry-grid/routing"
	"github.com/odvcencio/furry-grid/store"
)

const version = "0.1.0"

const usage = `Furry grid viewer.

Settings come from FURRY_GRID_* environment variables; flags override them.

Usage:
    gridview dump [options] [--format=<format>]
    gridview state [options] [--plain]
    gridview tui [options]
    gridview -h | --help
    gridview --version

Options:
    -h --help            Show this screen.
    --version            Show version.
    --data=<path>        YAML dataset. Defaults to the built-in sample.
    --db=<path>          SQLite database, seeded from the dataset when empty.
    --query=<query>      Routing query, e.g. "filter=test1&order_by=name desc".
    --filter=<pattern>   Search pattern.
    --sort=<order_by>    Sort as an ordering, e.g. "requiredBy desc".
    --page=<page>        Selected page.
    --limit=<limit>      Page size. 0 shows every item.
    --format=<format>    text, markdown or html [default: text].
    --plain              Print state JSON without colour.`

// options are the parsed command line flags.
type options struct {
	Command string
	Data    string
	DB      string
	Query   string
	Filter  string
	Sort    string
	Page    string
	Limit   string
	Format  string
	Plain   bool
}

func parseOptions(argv []string) (options, error) {
	opts, err := docopt.ParseArgs(usage, argv, version)
	if err != nil {
		return options{}, fmt.Errorf("parse args: %w", err)
	}
	str := func(key string) string {
		s, _ := opts.String(key)
		return s
	}
	o := options{
		Data:   str("--data"),
		DB:     str("--db"),
		Query:  str("--query"),
		Filter: str("--filter"),
		Sort:   str("--sort"),
		Page:   str("--page"),
		Limit:  str("--limit"),
		Format: str("--format"),
	}
	o.Plain, _ = opts.Bool("--plain")
	for _, cmd := range []string{"dump", "state", "tui"} {
		if ok, _ := opts.Bool(cmd); ok {
			o.Command = cmd
		}
	}
	return o, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		config.Exitf("%v", err)
	}
	cfg, err := config.ParseEnv()
	if err != nil {
		config.Exitf("%v", err)
	}
	if opts.Data != "" {
		cfg.DataPath = opts.Data
	}
	if opts.DB != "" {
		cfg.DBPath = opts.DB
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	switch opts.Command {
	case "dump":
		err = dump(ctx, os.Stdout, cfg, logger, opts)
	case "state":
		err = printState(ctx, os.Stdout, cfg, logger, opts)
	case "tui":
		err = runTUI(ctx, cfg, logger, opts)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		config.Exitf("gridview %s: %v", opts.Command, err)
	}
}

func openStore(path string) (*store.SQLite, error) {
	if path == "" {
		return nil, nil
	}
	return store.OpenSQLite(path)
}

// project loads the dataset, navigates to the requested state and returns
// the settled session.
func project(ctx context.Context, cfg config.Config, logger *slog.Logger, opts options) (*session, func(), error) {
	st, err := requestState(opts.Query, opts.Filter, opts.Sort, opts.Page, opts.Limit)
	if err != nil {
		return nil, nil, err
	}
	db, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	items, err := loadItems(ctx, cfg.DataPath, db)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	s := newSession(sessionConfig{
		Config:    cfg,
		Logger:    logger,
		Store:     db,
		Items:     items,
		Immediate: true,
	})
	s.Navigate(itemsPath, st)
	s.grid.Refresh()
	if err := s.grid.Pipeline().Err().Get(); err != nil {
		s.Close()
		closeStore()
		return nil, nil, fmt.Errorf("project items: %w", err)
	}
	return s, func() {
		s.Close()
		closeStore()
	}, nil
}

func dump(ctx context.Context, w io.Writer, cfg config.Config, logger *slog.Logger, opts options) error {
	s, done, err := project(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer done()

	page := s.Page()
	switch strings.ToLower(opts.Format) {
	case "", "text":
		return render.Text(w, page)
	case "markdown", "md":
		_, err = w.Write(render.Markdown(page))
		return err
	case "html":
		html, err := render.HTML(render.Markdown(page))
		if err != nil {
			return err
		}
		_, err = w.Write(html)
		return err
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

func printState(ctx context.Context, w io.Writer, cfg config.Config, logger *slog.Logger, opts options) error {
	s, done, err := project(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer done()

	data, err := routing.Marshal(s.bridge.Save())
	if err != nil {
		return err
	}
	formatter := ""
	if opts.Plain {
		formatter = "noop"
	}
	if err := render.HighlightJSON(w, data, formatter, cfg.Style); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s?%s\n", s.Route().Path, s.Query())
	return err
}
