// Package cli implements the smartbuy command line client. Commands talk to
// the catalog either in-process or through a running server (--api), and
// keep favorites in a local key-value store.
package cli

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/config"
	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/apiclient"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
	"github.com/smartbuy360/backend/internal/infrastructure/storage"
	"github.com/smartbuy360/backend/internal/server"
	"github.com/smartbuy360/backend/internal/usecase"
)

// app carries what every command needs. Expensive pieces are built on first use.
type app struct {
	out    io.Writer
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
	reg    *metrics.Registry

	apiURL string
	format string

	api       domain.CatalogAPI
	favorites *usecase.FavoritesStore
	closers   []func() error
}

// Option customizes the root command
type Option func(*app)

// WithLogger makes every command log through lg instead of a config-built logger
func WithLogger(lg *zap.Logger) Option {
	return func(a *app) { a.logger = lg }
}

func newApp(out io.Writer, opts ...Option) *app {
	a := &app{out: out, v: viper.New(), reg: metrics.NewRegistry()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the command tree with args. Stores opened by the command are
// closed before it returns, whether or not the command failed.
func Execute(ctx context.Context, out io.Writer, args []string, opts ...Option) (err error) {
	a := newApp(out, opts...)
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

// rootCommand assembles the smartbuy command tree
func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartbuy",
		Short:         "SmartBuy360 - compare prices across vendors",
		Long:          "Search the SmartBuy360 catalog, compare vendor offers and keep a list of favorites.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", "", "Base URL of a running SmartBuy360 server (default: in-process catalog)")
	flags.StringVar(&a.format, "format", "table", "Output format: table, json")
	flags.String("data-dir", "", "Directory for the favorites database")
	flags.String("favorites-store", "", "Favorites store: pebble, memory")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	_ = a.v.BindPFlag("favorites.path", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("favorites.store", flags.Lookup("favorites-store"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		a.searchCommand(),
		a.imageCommand(),
		a.productCommand(),
		a.compareCommand(),
		a.historyCommand(),
		a.reviewsCommand(),
		a.reviewCommand(),
		a.favoritesCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) init() error {
	if a.format != "table" && a.format != "json" {
		return errors.Errorf("unknown format %q (want table or json)", a.format)
	}

	cfg, err := config.LoadWith(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		lg, err := config.NewLogger(cfg)
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
		a.logger = lg
		a.closers = append(a.closers, func() error {
			_ = lg.Sync()
			return nil
		})
	}
	return nil
}

func (a *app) close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// catalog returns the remote client when --api is set, the in-process
// service otherwise.
func (a *app) catalog() domain.CatalogAPI {
	if a.api != nil {
		return a.api
	}
	if a.apiURL != "" {
		a.api = apiclient.NewClient(a.apiURL, apiclient.WithLogger(a.logger))
		return a.api
	}

	svc, cleanup := server.NewCatalogService(a.cfg, a.logger, a.reg)
	a.closers = append(a.closers, func() error {
		cleanup()
		return nil
	})
	a.api = svc
	return a.api
}

func (a *app) favoritesStore(ctx context.Context) (*usecase.FavoritesStore, error) {
	if a.favorites != nil {
		return a.favorites, nil
	}

	var kv domain.KeyValueStore
	switch a.cfg.Favorites.Store {
	case "memory":
		kv = storage.NewMemoryStore()
	default:
		ps, err := storage.NewPebbleStore(a.cfg.Favorites.Path)
		if err != nil {
			return nil, errors.Wrap(err, "open favorites")
		}
		kv = ps
	}
	a.closers = append(a.closers, kv.Close)

	a.favorites = usecase.NewFavoritesStore(ctx, kv, a.cfg.Favorites.Key, a.logger, a.reg)
	return a.favorites, nil
}
