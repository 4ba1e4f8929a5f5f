package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/app"
	"github.com/abhisek/learnlink/internal/identity"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		log.Error("connect stores", "error", err)
		return fmt.Errorf("connect stores: %w", err)
	}
	defer b.Close()

	svc := newServices(b, cfg, st.OutcomeRepo(), log)
	log.Info("console started", "journal", cfg.Journal.Path)
	return app.Run(app.Options{
		Identity: svc.identity,
		Session:  &identity.Session{},
		Menu:     svc.deps,
		Log:      log,
	})
}
