package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/syntaxiz/internal/app"
	"github.com/abhisek/syntaxiz/internal/explain"
	"github.com/abhisek/syntaxiz/internal/llm"
	"github.com/abhisek/syntaxiz/internal/logging"
	"github.com/abhisek/syntaxiz/internal/screens/home"
	"github.com/abhisek/syntaxiz/internal/screens/quiz"
	"github.com/abhisek/syntaxiz/internal/selfupdate"
	"github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/store"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// updateCheckTimeout keeps a slow release API from delaying startup.
const updateCheckTimeout = 2 * time.Second

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logger := logging.Nop()
	if cfg.LogFile != "" {
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	var events store.EventRepo
	if st != nil {
		defer st.Close()
		events = st.EventRepo()
	}

	checker := syntaxcheck.New()
	gen, err := newGenerator(cfg, checker)
	if err != nil {
		return err
	}

	var notes []string
	provider, err := llm.NewProviderFromEnv(ctx, events, logger)
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations will be rule-based.")
		notes = append(notes, "explanations: rule-based (LLM setup failed)")
	case provider == nil:
		notes = append(notes, "explanations: rule-based")
	default:
		notes = append(notes, "explanations: "+provider.ModelID())
	}
	if note := updateNote(ctx); note != "" {
		notes = append(notes, note)
	}

	engine := session.NewEngine(gen, checker, session.Options{Events: events, Logger: logger})
	return app.Run(app.Options{
		Home: home.Options{
			Quiz: quiz.Deps{
				Engine:           engine,
				Explain:          explain.NewService(provider, logger),
				FeedbackDuration: cfg.Quiz.FeedbackDuration,
			},
			Events: events,
			Notes:  notes,
		},
	})
}

// updateNote returns a one-line notice when a newer release exists.
// Failures are silent; startup never waits on the network for long.
func updateNote(ctx context.Context) string {
	current := currentVersion()
	if current == devVersion {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	res, err := selfupdate.NewChecker(selfupdate.WithTimeout(updateCheckTimeout)).
		Check(ctx, &selfupdate.CheckInput{Version: current})
	if err != nil || !res.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("update available: %s (run syntaxiz update)", res.LatestVersion)
}
