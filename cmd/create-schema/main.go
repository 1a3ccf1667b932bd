package main

import (
	"context"
	"fmt"
	"os"

	"membership-backend/config"
	"membership-backend/database"
	"membership-backend/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	err = database.CreateSchema(ctx, pool, func(s database.Statement) {
		log.Info("applied", zap.String("statement", s.Name))
	})
	if err != nil {
		log.Fatal("failed to create schema", zap.Error(err))
	}

	log.Info("schema created", zap.Int("statements", len(database.SchemaStatements)))
}
