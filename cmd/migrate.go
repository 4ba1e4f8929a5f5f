package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnlink/internal/docstore"
	"github.com/abhisek/learnlink/internal/graphstore"
	"github.com/abhisek/learnlink/internal/widestore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create indexes, tables and graph schema",
	Long:  "Creates the MongoDB indexes, the Cassandra keyspace and tables, and the Dgraph schema. Safe to run repeatedly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		docs, err := docstore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer docs.Close(ctx)
		if err := docs.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		fmt.Println("✓ mongo indexes")

		if err := widestore.EnsureSchema(ctx, cfg.Cassandra); err != nil {
			return fmt.Errorf("cassandra schema: %w", err)
		}
		fmt.Printf("✓ cassandra keyspace %s\n", cfg.Cassandra.Keyspace)

		graph, err := graphstore.Open(cfg.Dgraph)
		if err != nil {
			return err
		}
		defer graph.Close()
		if err := graph.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("dgraph schema: %w", err)
		}
		fmt.Println("✓ dgraph schema")
		return nil
	},
}
