package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mintleaf-fin/mintleaf/internal/api"
	"github.com/mintleaf-fin/mintleaf/internal/cache"
	"github.com/mintleaf-fin/mintleaf/internal/cli"
	"github.com/mintleaf-fin/mintleaf/internal/config"
	"github.com/mintleaf-fin/mintleaf/internal/export"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/session"
	"github.com/mintleaf-fin/mintleaf/internal/store"
)

// app is the composition root for one CLI invocation: config, session
// guard, API client, stores, and the optional snapshot cache.
type app struct {
	cfg        *config.Config
	client     *api.Client
	notifier   *cli.Notifier
	income     *store.Ledger
	expense    *store.Ledger
	categories *store.Categories
	snapshots  *cache.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	guard := session.NewStaticGuard(cfg.Token)
	if !guard.IsAuthenticated() {
		return nil, fmt.Errorf("not authenticated: set api.token in the config file or MINTLEAF_API_TOKEN")
	}

	// A broken cache only costs offline reads, never the session.
	var snapshots *cache.Store
	if s, err := cache.Open(cfg.CachePath); err != nil {
		slog.Warn("snapshot cache unavailable", "path", cfg.CachePath, "error", err)
	} else {
		snapshots = s
	}

	client := api.NewClient(cfg.BaseURL, guard)
	notifier := cli.NewNotifier(os.Stdout)

	var snaps store.Snapshots
	if snapshots != nil {
		snaps = snapshots
	}

	return &app{
		cfg:        cfg,
		client:     client,
		notifier:   notifier,
		income:     store.NewLedger(model.LedgerIncome, client, notifier, snaps),
		expense:    store.NewLedger(model.LedgerExpense, client, notifier, snaps),
		categories: store.NewCategories(client, notifier, snaps),
		snapshots:  snapshots,
	}, nil
}

func (a *app) close() {
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			slog.Warn("failed to close snapshot cache", "error", err)
		}
	}
}

func (a *app) ledger(kind model.LedgerKind) *store.Ledger {
	if kind == model.LedgerIncome {
		return a.income
	}
	return a.expense
}

func (a *app) exporter(kind model.LedgerKind) *export.Coordinator {
	return export.NewCoordinator(a.client, a.ledger(kind), a.notifier, a.cfg.OutputDir)
}
