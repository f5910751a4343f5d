package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/exportiq/insight-engine/pkg/classify"
	"github.com/exportiq/insight-engine/pkg/config"
	"github.com/exportiq/insight-engine/pkg/database"
	"github.com/exportiq/insight-engine/pkg/resolve"
	"github.com/exportiq/insight-engine/pkg/services"
	"github.com/exportiq/insight-engine/pkg/store"
	"github.com/exportiq/insight-engine/pkg/viz"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <query> [query ...]\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting insight-engine",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("store", cfg.Store),
	)

	ctx := context.Background()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	backend, cleanup, err := newBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create store backend", zap.Error(err))
	}
	defer cleanup()

	st, err := store.Open(ctx, backend, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	logger.Info("Store loaded", zap.Strings("tables", st.Tables()))

	pipeline := services.NewPipeline(
		classify.New(catalog, logger),
		resolve.New(st, catalog, logger),
		viz.New(logger),
		nil,
		logger,
	)

	// CLI invocations run unrestricted: every catalog agent is in scope.
	agentCodes := make([]string, 0, len(catalog.Agents))
	for _, agent := range catalog.Agents {
		agentCodes = append(agentCodes, agent.Code)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, query := range os.Args[1:] {
		result, err := pipeline.Process(ctx, query, agentCodes)
		if err != nil {
			logger.Error("Query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if err := enc.Encode(result); err != nil {
			logger.Error("Failed to encode result", zap.Error(err))
		}
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "production") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newBackend selects the storage adapter. The returned cleanup closes
// any underlying connections and is safe to call unconditionally.
func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Backend, func(), error) {
	switch cfg.Store {
	case "postgres":
		db, err := database.NewConnection(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, func() {}, err
		}

		migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
		if err != nil {
			db.Close()
			return nil, func() {}, fmt.Errorf("failed to open migration connection: %w", err)
		}
		if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
			migrationDB.Close()
			db.Close()
			return nil, func() {}, err
		}
		migrationDB.Close()

		return store.NewPostgresBackend(db.Pool, logger), db.Close, nil
	default:
		return store.NewJSONBackend(cfg.DataDir, logger), func() {}, nil
	}
}
