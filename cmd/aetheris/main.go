// Aetheris - personal tool aggregation backend.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aetheris-lab/aetheris/internal/api"
	"github.com/aetheris-lab/aetheris/internal/domain/assistant"
	"github.com/aetheris-lab/aetheris/internal/domain/codegen"
	"github.com/aetheris-lab/aetheris/internal/domain/history"
	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/aetheris-lab/aetheris/internal/infra/cache"
	"github.com/aetheris-lab/aetheris/internal/infra/config"
	"github.com/aetheris-lab/aetheris/internal/infra/eventbus"
	"github.com/aetheris-lab/aetheris/internal/infra/llm"
	"github.com/aetheris-lab/aetheris/internal/infra/sqlite"
	"github.com/aetheris-lab/aetheris/internal/infra/workerpool"
	"github.com/aetheris-lab/aetheris/internal/server"
	"github.com/aetheris-lab/aetheris/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("aetheris", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	if err := serve(*configPath, out); err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func serve(configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		return fmt.Errorf("run migrations: %w", err)
	}

	bus := eventbus.New()
	store := cache.NewStore()
	defer store.ClearAll()
	pool := workerpool.New(cfg.WorkerPool)
	defer pool.Close()

	registry := tool.NewRegistry(store,
		tool.WithTTL(cfg.CacheTTL),
		tool.WithEventBus(bus),
	)
	if err := tool.RegisterBuiltins(registry, codegen.NewGenerator(pool), cfg.MaxConcurrent); err != nil {
		db.Close() //nolint:errcheck
		return fmt.Errorf("register tools: %w", err)
	}

	provider := llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
	chat := assistant.New(provider, store, cfg.OpenAIAPIKey != "", cfg.AITemperature, cfg.AIMaxTokens)

	execHistory := history.NewService(db)
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	recorder := history.NewRecorder(execHistory, bus)
	recorder.Start(recorderCtx)

	serverCfg := server.DefaultConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port

	srv := server.NewServer(db, api.Deps{
		Store:     store,
		Registry:  registry,
		Assistant: chat,
		History:   execHistory,
	}, serverCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(context.Background())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		fmt.Fprintf(out, "received %s\n", sig) //nolint:errcheck
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stopRecorder()
			db.Close() //nolint:errcheck
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopRecorder()
	recorder.Wait()

	return srv.Shutdown(shutdownCtx)
}

func printHelp(out io.Writer) {
	helpText := `Aetheris - personal tool aggregation backend

Usage:
  aetheris [options]

Options:
  --version          Show version information
  --help             Show this help message
  --config <path>    Load settings from a YAML file

Environment:
  AETHERIS_HOST, AETHERIS_PORT, AETHERIS_DB_PATH, CACHE_TTL,
  MAX_CONCURRENT, WORKER_POOL, OPENAI_API_KEY, OPENAI_API_BASE,
  OPENAI_MODEL, AI_TEMPERATURE, AI_MAX_TOKENS

Examples:
  aetheris --version
  AETHERIS_PORT=9000 aetheris
  aetheris --config aetheris.yaml`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
