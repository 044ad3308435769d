package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/tally"
	"github.com/etnz/tally/web"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
	save bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "edit the book from a web browser" }
func (*serveCmd) Usage() string {
	return `tly serve [-addr <address>] [-save]

  Serves the book over HTTP: an HTML page at / and a JSON API to edit, import
  and export it. The book lives in memory, it starts from the working file when
  there is one and from a single empty order otherwise.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (default from the configuration, :8080)")
	f.BoolVar(&c.save, "save", false, "write the book back into the working file on shutdown")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	book, err := c.initialBook(cfg.File, cfg.Currency)
	if err != nil {
		logger.Error("failed to load book", zap.String("file", cfg.File), zap.Error(err))
		return subcommands.ExitFailure
	}

	store, err := openPrices(ctx, cfg.Prices, cfg.Currency, cfg.Seed)
	if err != nil {
		logger.Error("failed to open price database", zap.String("dsn", cfg.Prices), zap.Error(err))
		return subcommands.ExitFailure
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := web.NewSession(book, store)
	server := web.NewServer(cfg.Addr, session, logger)

	err = serveUntilDone(ctx, server.Start, func() error {
		logger.Info("shutting down")
		if !c.save {
			return nil
		}
		return session.View(func(b *tally.Book) error {
			if err := EncodeBook(b); err != nil {
				return err
			}
			logger.Info("book saved", zap.String("file", cfg.File), zap.Int("orders", b.Len()))
			return nil
		})
	})
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// serveUntilDone runs start until ctx is done. onStop runs once start has
// returned, and only when ctx stopped it: a server that failed on its own
// returns its error and onStop is skipped.
func serveUntilDone(ctx context.Context, start func(context.Context) error, onStop func() error) error {
	g, gctx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})
	g.Go(func() error {
		defer close(stopped)
		return start(gctx)
	})
	g.Go(func() error {
		select {
		case <-stopped:
			return nil
		case <-ctx.Done():
		}
		<-stopped
		return onStop()
	})
	return g.Wait()
}

// initialBook reads the working file, or returns a fresh placeholder book when
// there is none.
func (c *serveCmd) initialBook(file, currency string) (*tally.Book, error) {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return tally.NewPlaceholderBook(currency, today()), nil
	}
	return DecodeBook()
}
