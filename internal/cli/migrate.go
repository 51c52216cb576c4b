package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/dayplan/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Connects to the database and applies any schema migrations that
have not been applied yet, in order, each in its own transaction.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (--url flag or database.url in dayplan.yaml)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, store.NewDBConfig(databaseURL))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	cmd.Println("Migrations applied")
	return nil
}
