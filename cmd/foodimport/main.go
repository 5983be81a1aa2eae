package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Spok95/nutrition-calc/internal/config"
	"github.com/Spok95/nutrition-calc/internal/domain/foods"
	"github.com/Spok95/nutrition-calc/internal/infra/db"
	"github.com/Spok95/nutrition-calc/internal/infra/logger"
)

// foodimport загружает CSV/XLSX и полностью заменяет таблицу foods в Postgres.
func main() {
	configPath := flag.String("config", "config/example.yaml", "path to config file")
	file := flag.String("file", "", "CSV or XLSX file with foods")
	merge := flag.Bool("merge", false, "upsert by name instead of replacing the table")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.App.Env)

	if *file == "" || cfg.Postgres.DSN == "" {
		fmt.Fprintln(os.Stderr, "usage: foodimport -file foods.csv (postgres.dsn must be set)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kind := foods.SourceCSV
	if strings.EqualFold(filepath.Ext(*file), ".xlsx") {
		kind = foods.SourceXLSX
	}
	table, err := foods.Load(ctx, foods.Source{Kind: kind, Path: *file})
	if err != nil {
		log.Error("read source failed", "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := foods.NewRepo(pool)
	if *merge {
		// новые продукты попадают в конец таблицы
		for _, rec := range table.Records() {
			if _, err := repo.Upsert(ctx, rec); err != nil {
				log.Error("upsert failed", "food", rec.Name, "err", err)
				pool.Close()
				os.Exit(1)
			}
		}
	} else if err := repo.ReplaceAll(ctx, table.Records()); err != nil {
		log.Error("import failed", "err", err)
		pool.Close()
		os.Exit(1)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		log.Error("count failed", "err", err)
	}
	log.Info("foods imported", "file", *file, "read", table.Len(), "stored", n)
}
