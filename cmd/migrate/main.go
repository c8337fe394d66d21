package main

import (
	"context"

	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qlog"
)

func main() {
	logger := qlog.NewDefault()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	dbCfg := cfg.DB()
	dbCfg.Debug = qlog.ParseLevel(cfg.LogLevel) <= qlog.ParseLevel("debug")

	database, err := db.New(ctx, dbCfg)
	if err != nil {
		logger.Fatal("failed to connect to database", "driver", dbCfg.Driver, "error", err)
	}
	defer database.Close()

	logger.Info("running migrations", "driver", dbCfg.Driver)
	if err := db.Migrate(ctx, database, logger); err != nil {
		logger.Fatal("failed to migrate", "error", err)
	}
}
