package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/syntaxiz/internal/config"
	"github.com/abhisek/syntaxiz/internal/logging"
	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

var rootCmd = &cobra.Command{
	Use:   "syntaxiz",
	Short: "JavaScript syntax quiz",
	Long:  "Syntaxiz shows short JavaScript snippets. Call each one valid or invalid, then fix the broken ones until they parse.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SYNTAXIZ_DB env var)")
	pf.Int64("seed", 0, "Random seed for snippet generation (0 means time-seeded)")
	pf.StringSlice("category", nil, "Restrict snippets to a category (repeatable): for-loop, quotes, brackets, equality")
	pf.Bool("no-history", false, "Do not record or read session history")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, then applies persistent flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("seed") {
		cfg.Quiz.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("category") {
		cfg.Quiz.Categories, _ = flags.GetStringSlice("category")
	}
	if flags.Changed("no-history") {
		cfg.NoHistory, _ = flags.GetBool("no-history")
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db / SYNTAXIZ_DB first,
// then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the event store, or returns nil when history is off.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.NoHistory {
		return nil, nil
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openHistory is openStore for commands that only read history.
func openHistory(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.NoHistory {
		return nil, fmt.Errorf("history is disabled")
	}
	return openStore(cfg)
}

func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}

// newGenerator builds the taxonomy generator with the structural and
// parse-agreement validators.
func newGenerator(cfg *config.Config, checker syntaxcheck.Checker) (*problemgen.TaxonomyGenerator, error) {
	cats, err := problemgen.ParseCategories(cfg.Quiz.Categories)
	if err != nil {
		return nil, err
	}
	seed := cfg.Quiz.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gcfg := problemgen.DefaultConfig()
	gcfg.Categories = cats
	gcfg.Validators = append(gcfg.Validators, &problemgen.ParseAgreementValidator{Checker: checker})
	return problemgen.New(problemgen.NewSource(seed), gcfg)
}
