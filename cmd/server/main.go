// Command server exposes the Morfeusz analyzer as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/analyze?token=<word>[&capacity=<n>]
//	POST /api/analyze/tokens   body: {"tokens":["..."],"capacity":n}
//	GET  /api/paradigm?lemma=<lemma>
//	GET  /api/about
//	GET  /api/options
//	POST /api/options          body: {"code":c,"value":v}
//	GET  /api/tags?tag=<tag>
//	GET  /metrics
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cours-de-latin/morfeusz"
)

const shutdownTimeout = 10 * time.Second

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func run(ctx context.Context, cfg config, log *zap.Logger) error {
	log.Info("loading lexicon", zap.String("path", cfg.Lexicon))
	start := time.Now()
	lex, err := morfeusz.LoadLexicon(cfg.Lexicon)
	if err != nil {
		return err
	}
	log.Info("lexicon loaded",
		zap.Int("entries", lex.Entries()),
		zap.Duration("elapsed", time.Since(start)))

	reg, err := cfg.registry()
	if err != nil {
		return err
	}
	analyzer, err := morfeusz.New(lex, morfeusz.WithRegistry(reg))
	if err != nil {
		return err
	}
	srv, err := newServer(analyzer, cfg.CacheSize, cfg.MaxCapacity, log)
	if err != nil {
		return err
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return hs.Shutdown(sctx)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
