package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/nutrition-calc/internal/bot"
	"github.com/Spok95/nutrition-calc/internal/config"
	"github.com/Spok95/nutrition-calc/internal/dialog"
	"github.com/Spok95/nutrition-calc/internal/domain/foods"
	"github.com/Spok95/nutrition-calc/internal/domain/meal"
	"github.com/Spok95/nutrition-calc/internal/infra/db"
	httpx "github.com/Spok95/nutrition-calc/internal/infra/http"
	"github.com/Spok95/nutrition-calc/internal/infra/logger"
	"github.com/Spok95/nutrition-calc/internal/infra/metrics"
)

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	if err := run(cfg, log); err != nil {
		log.Error("service stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		if err := db.Migrate(cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")

		p, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer p.Close()
		pool = p
		log.Info("db connected")
	}

	src := foods.Source{Kind: foods.SourceKind(cfg.Nutrition.Source), Path: cfg.Nutrition.Path}
	if pool != nil {
		src.DB = foods.NewRepo(pool)
	}
	table, err := foods.Load(ctx, src)
	if err != nil {
		return err
	}
	log.Info("nutrition table loaded", "source", src.String(), "foods", table.Len())

	m := metrics.New(prometheus.DefaultRegisterer)
	m.SetTableSize(table.Len())

	strategy, err := meal.NewStrategy(cfg.Calculator.Strategy, table)
	if err != nil {
		return err
	}
	log.Info("calculator ready", "strategy", strategy.Name())

	if cfg.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		var states dialog.Store = dialog.NewMemStore()
		if pool != nil {
			states = dialog.NewRepo(pool)
		}
		b := bot.New(api, log, table, strategy, states, m)
		go func() {
			if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("bot stopped", "err", err)
			}
		}()
		log.Info("telegram bot started", "username", api.Self.UserName)
	}

	h := httpx.NewHandler(log, table, strategy, m)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, h)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
	return nil
}
