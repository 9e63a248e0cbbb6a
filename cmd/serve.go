package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/syntaxiz/internal/config"
	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/llm"
	"github.com/abhisek/syntaxiz/internal/server"
	"github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// sweepInterval is how often expired sessions are purged from registries
// that do not expire entries on their own.
const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quiz sessions over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SYNTAXIZ_ADDR)")
	serveCmd.Flags().String("registry", "", "Session registry: memory, redis or sqlite (default: redis when SYNTAXIZ_REDIS_ADDR is set, else memory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	kind, _ := cmd.Flags().GetString("registry")

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	var events store.EventRepo
	if st != nil {
		defer st.Close()
		events = st.EventRepo()
	}

	registry, closeRegistry, err := newRegistry(ctx, cfg, kind, st, logger)
	if err != nil {
		return err
	}
	defer closeRegistry()

	checker := syntaxcheck.New()
	gen, err := newGenerator(cfg, checker)
	if err != nil {
		return err
	}

	provider, err := llm.NewProviderFromEnv(ctx, events, logger)
	if err != nil {
		logger.Warnw("LLM provider not configured; explanations will be rule-based", "error", err)
	}

	srv, err := server.New(server.Options{
		Addr:      cfg.Server.Addr,
		Engine:    session.NewEngine(gen, checker, session.Options{Events: events, Logger: logger}),
		Registry:  registry,
		Explainer: explain.NewService(provider, logger),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newRegistry picks the session registry backend. The returned func
// releases its resources.
func newRegistry(ctx context.Context, cfg *config.Config, kind string, st *store.Store, logger *zap.SugaredLogger) (server.Registry, func(), error) {
	if kind == "" {
		kind = "memory"
		if cfg.Redis.Addr != "" {
			kind = "redis"
		}
	}
	ttl := cfg.Server.SessionTTL

	switch kind {
	case "memory":
		reg := server.NewMemoryRegistry(ttl)
		go reg.RunSweeper(ctx, sweepInterval)
		logger.Infow("session registry", "kind", kind, "ttl", ttl)
		return reg, func() {}, nil

	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("redis registry needs SYNTAXIZ_REDIS_ADDR")
		}
		client, err := server.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.Infow("session registry", "kind", kind, "addr", cfg.Redis.Addr, "ttl", ttl)
		return server.NewRedisRegistry(client, ttl), func() { _ = client.Close() }, nil

	case "sqlite":
		if st == nil {
			return nil, nil, fmt.Errorf("sqlite registry needs history enabled")
		}
		reg := server.NewSnapshotRegistry(st.SnapshotRepo(), ttl)
		go pruneSnapshots(ctx, reg, logger)
		logger.Infow("session registry", "kind", kind, "ttl", ttl)
		return reg, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown registry %q (want memory, redis or sqlite)", kind)
}

func pruneSnapshots(ctx context.Context, reg *server.SnapshotRegistry, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := reg.Prune(ctx)
			if err != nil {
				logger.Warnw("prune session snapshots", "error", err)
				continue
			}
			if n > 0 {
				logger.Debugw("pruned session snapshots", "count", n)
			}
		}
	}
}
