package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cu-events/events-api/pkg/config"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/event"
	"github.com/cu-events/events-api/pkg/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd imports the events of a YAML file into the event store
var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Imports events into the event store",
	Long: `Imports the events listed in a YAML file into the MongoDB event store.
	Events with an id replace any stored event with the same id. Events without an id are added.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		uri, err := cmd.Flags().GetString("uri")
		if err != nil {
			return err
		}
		database, err := cmd.Flags().GetString("database")
		if err != nil {
			return err
		}

		return seed(cmd.Context(), file, config.Mongo{URI: uri, Database: database})
	},
}

func init() {
	rootCmd.Flags().StringP("file", "f", "cmd/seed/events.yaml", "The YAML file listing the events")
	rootCmd.Flags().StringP("uri", "u", os.Getenv("MONGODB_URI"), "The MongoDB connection string")
	rootCmd.Flags().StringP("database", "d", databaseOrDefault(), "The MongoDB database")
}

func databaseOrDefault() string {
	if database := os.Getenv("MONGODB_DATABASE"); database != "" {
		return database
	}
	return "events"
}

func seed(ctx context.Context, path string, c config.Mongo) error {
	if c.URI == "" {
		return fmt.Errorf("a MongoDB connection string is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := event.LoadSeed(f)
	if err != nil {
		return err
	}

	database, err := storage.NewMongo(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Client().Disconnect(context.WithoutCancel(ctx))
	}()

	catalog := event.NewCatalog(logger, event.NewRepository(logger, docstore.NewMongo(database)))
	if err := catalog.Import(ctx, events); err != nil {
		return err
	}

	logger.Info("Events imported", "count", len(events), "file", path)
	return nil
}
