// Copyright (c) 2026 CampusCal Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Entry point for the event-sync service. It:
//  1. Loads configuration from config.yaml and the bundled schema snapshots
//  2. Builds authenticated clients for the form store and the calendar store
//  3. Wires the import coordinator, deadline scheduler, and key-access reminder
//  4. Runs the recurring cron triggers and serves manual-trigger endpoints
//  5. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"

	"github.com/campuscal/eventsync/internal/config"
	"github.com/campuscal/eventsync/internal/deadline"
	"github.com/campuscal/eventsync/internal/importer"
	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notify"
	"github.com/campuscal/eventsync/internal/notion"
	"github.com/campuscal/eventsync/internal/record"
	"github.com/campuscal/eventsync/internal/schema"
	"github.com/campuscal/eventsync/internal/sheets"
)

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"
	sheetsScope    = "https://www.googleapis.com/auth/spreadsheets"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting CampusCal event-sync service")

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	// --- Load Schema Snapshots ---
	formSnap, err := schema.LoadFormSnapshot(cfg.FormSnapshotPath)
	if err != nil {
		slog.Error("failed to load form snapshot", "error", err)
		os.Exit(1)
	}
	calSnap, err := schema.LoadDatabaseSnapshot(cfg.CalendarSnapshotPath)
	if err != nil {
		slog.Error("failed to load calendar snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"tab", cfg.SheetTab,
		"form_snapshot", formSnap.Version,
		"calendar_snapshot", calSnap.Version,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Build authenticated clients ---
	jwtCfg := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.ServiceAccountKey),
		Scopes:     []string{sheetsScope},
		TokenURL:   googleTokenURL,
	}
	formClient := sheets.NewClient(jwtCfg.Client(ctx), "")

	storeHTTP := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.StoreToken},
	))
	storeClient := notion.NewClient(storeHTTP, "")

	sink := notify.NewWebhook(http.DefaultClient, cfg.WebhookURL)

	// --- Wire the pipeline ---
	health := schema.NewPipelineHealth(formSnap, calSnap)
	vocab := models.NewVocabulary(calSnap)
	builder := record.NewBuilder(vocab, loc)

	coordinator := importer.NewCoordinator(importer.CoordinatorConfig{
		Forms:           formClient,
		Store:           storeClient,
		Notifier:        sink,
		Builder:         builder,
		Health:          health,
		SpreadsheetID:   cfg.SpreadsheetID,
		Tab:             cfg.SheetTab,
		ProcessedColumn: cfg.ProcessedColumn,
		CalendarDB:      cfg.CalendarDatabaseID,
		HostedDB:        cfg.HostedDatabaseID,
	})

	scheduler := deadline.NewScheduler(deadline.SchedulerConfig{
		Store:      storeClient,
		Notifier:   sink,
		Guard:      health.Store,
		DatabaseID: cfg.CalendarDatabaseID,
		Roles:      cfg.Roles,
		Now:        func() time.Time { return time.Now().In(loc) },
	})

	keyAccess := deadline.NewKeyAccessReminder(
		storeClient, sink, cfg.CalendarDatabaseID,
		[]string{cfg.Roles["logistics"]},
		func() time.Time { return time.Now().In(loc) },
	)

	runSync := func() {
		if _, err := coordinator.Sync(ctx); err != nil {
			if errors.Is(err, importer.ErrRunInProgress) {
				return
			}
			slog.Error("sync run failed", "error", err)
		}
	}
	runDeadlines := func() {
		if err := scheduler.Run(ctx); err != nil {
			slog.Error("deadline run failed", "error", err)
		}
	}
	runKeyAccess := func() {
		if err := keyAccess.Run(ctx); err != nil {
			slog.Error("key-access run failed", "error", err)
		}
	}

	// --- Recurring triggers ---
	c := cron.New()
	if _, err := c.AddFunc(cfg.SyncSchedule, runSync); err != nil {
		slog.Error("invalid sync schedule", "schedule", cfg.SyncSchedule, "error", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc(cfg.DeadlineSchedule, runDeadlines); err != nil {
		slog.Error("invalid deadline schedule", "schedule", cfg.DeadlineSchedule, "error", err)
		os.Exit(1)
	}
	if _, err := c.AddFunc(cfg.KeyAccessSchedule, runKeyAccess); err != nil {
		slog.Error("invalid key-access schedule", "schedule", cfg.KeyAccessSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()

	slog.Info("recurring triggers started",
		"sync", cfg.SyncSchedule,
		"deadline", cfg.DeadlineSchedule,
		"key_access", cfg.KeyAccessSchedule,
	)

	// --- Manual triggers + health check ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.HandleFunc("/run/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		go runSync()
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/run/deadlines", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		go func() {
			runDeadlines()
			runKeyAccess()
		}()
		w.WriteHeader(http.StatusAccepted)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh

		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		cronCtx := c.Stop()
		<-cronCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("event-sync service listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("event-sync service stopped")
}
