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

// schemasnap regenerates the bundled schema snapshot files from the live
// form spreadsheet and calendar database. The snapshots it writes are
// hand-reviewed and committed with the deployment; the service itself
// never regenerates them at runtime.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
	"gopkg.in/yaml.v3"

	"github.com/campuscal/eventsync/internal/config"
	"github.com/campuscal/eventsync/internal/notion"
	"github.com/campuscal/eventsync/internal/schema"
	"github.com/campuscal/eventsync/internal/sheets"
)

var cli struct {
	Out   string `help:"Directory to write snapshot files into." default:"snapshots" type:"path"`
	Form  bool   `help:"Regenerate the host form snapshot."`
	Store bool   `help:"Regenerate the calendar database snapshot."`
}

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"
	sheetsScope    = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("schemasnap"),
		kong.Description("Regenerate schema snapshot files from the live form and calendar database."),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if !cli.Form && !cli.Store {
		cli.Form = true
		cli.Store = true
	}

	cfg, err := config.Load()
	if err != nil {
		kctx.FatalIfErrorf(err)
	}

	ctx := context.Background()
	version := time.Now().UTC().Format("2006-01-02")

	if err := os.MkdirAll(cli.Out, 0o755); err != nil {
		kctx.FatalIfErrorf(fmt.Errorf("create output directory: %w", err))
	}

	if cli.Form {
		kctx.FatalIfErrorf(snapForm(ctx, cfg, version))
	}
	if cli.Store {
		kctx.FatalIfErrorf(snapStore(ctx, cfg, version))
	}
}

// snapForm fetches the live header row and writes form.yaml.
func snapForm(ctx context.Context, cfg *config.Config, version string) error {
	jwtCfg := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.ServiceAccountKey),
		Scopes:     []string{sheetsScope},
		TokenURL:   googleTokenURL,
	}
	client := sheets.NewClient(jwtCfg.Client(ctx), "")

	data, err := client.LoadSheet(ctx, cfg.SpreadsheetID, cfg.SheetTab, cfg.ProcessedColumn)
	if err != nil {
		return fmt.Errorf("load live sheet: %w", err)
	}

	snap := schema.FormSnapshot{
		Version: version,
		Headers: data.Headers,
	}

	return writeSnapshot(filepath.Join(cli.Out, "form.yaml"), snap, len(data.Headers))
}

// snapStore fetches the live database schema and writes calendar.yaml.
func snapStore(ctx context.Context, cfg *config.Config, version string) error {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.StoreToken},
	))
	client := notion.NewClient(httpClient, "")

	db, err := client.GetDatabase(ctx, cfg.CalendarDatabaseID)
	if err != nil {
		return fmt.Errorf("fetch live database schema: %w", err)
	}

	snap := schema.DatabaseSnapshot{
		Version:    version,
		Properties: db.Properties,
	}

	return writeSnapshot(filepath.Join(cli.Out, "calendar.yaml"), snap, len(db.Properties))
}

func writeSnapshot(path string, snap interface{}, fields int) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.Info("snapshot written", "path", path, "fields", fields)
	return nil
}
