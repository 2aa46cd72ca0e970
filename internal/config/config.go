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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the event-sync service.
type Config struct {
	// Host form spreadsheet
	SpreadsheetID   string
	SheetTab        string
	ProcessedColumn string

	// Calendar document store
	CalendarDatabaseID string
	HostedDatabaseID   string
	StoreToken         string

	// Sheets service-account credentials
	ServiceAccountEmail string
	ServiceAccountKey   string // PEM private key, usually via ${ENV} expansion

	// Notification webhook and audience role mentions
	WebhookURL string
	Roles      map[string]string

	// Cron schedules (5-field expressions)
	SyncSchedule      string
	DeadlineSchedule  string
	KeyAccessSchedule string

	// Bundled schema snapshots
	FormSnapshotPath     string
	CalendarSnapshotPath string

	Timezone string
	Port     int
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Form struct {
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		Tab             string `yaml:"tab"`
		ProcessedColumn string `yaml:"processed_column"`
	} `yaml:"form"`
	Store struct {
		CalendarDatabaseID string `yaml:"calendar_database_id"`
		HostedDatabaseID   string `yaml:"hosted_database_id"`
		Token              string `yaml:"token"`
	} `yaml:"store"`
	Google struct {
		ServiceAccountEmail string `yaml:"service_account_email"`
		ServiceAccountKey   string `yaml:"service_account_key"`
	} `yaml:"google"`
	Notify struct {
		WebhookURL string            `yaml:"webhook_url"`
		Roles      map[string]string `yaml:"roles"`
	} `yaml:"notify"`
	Schedules struct {
		Sync      string `yaml:"sync"`
		Deadline  string `yaml:"deadline"`
		KeyAccess string `yaml:"key_access"`
	} `yaml:"schedules"`
	Snapshots struct {
		Form     string `yaml:"form"`
		Calendar string `yaml:"calendar"`
	} `yaml:"snapshots"`
	Timezone string `yaml:"timezone"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg := &Config{
		SpreadsheetID:        raw.Form.SpreadsheetID,
		SheetTab:             defaultString(raw.Form.Tab, "Form Responses 1"),
		ProcessedColumn:      defaultString(raw.Form.ProcessedColumn, "Imported"),
		CalendarDatabaseID:   raw.Store.CalendarDatabaseID,
		HostedDatabaseID:     raw.Store.HostedDatabaseID,
		StoreToken:           raw.Store.Token,
		ServiceAccountEmail:  raw.Google.ServiceAccountEmail,
		ServiceAccountKey:    raw.Google.ServiceAccountKey,
		WebhookURL:           raw.Notify.WebhookURL,
		Roles:                raw.Notify.Roles,
		SyncSchedule:         defaultString(raw.Schedules.Sync, "0 * * * *"),
		DeadlineSchedule:     defaultString(raw.Schedules.Deadline, "0 9 * * *"),
		KeyAccessSchedule:    defaultString(raw.Schedules.KeyAccess, "30 9 * * *"),
		FormSnapshotPath:     defaultString(raw.Snapshots.Form, "snapshots/form.yaml"),
		CalendarSnapshotPath: defaultString(raw.Snapshots.Calendar, "snapshots/calendar.yaml"),
		Timezone:             defaultString(raw.Timezone, "America/New_York"),
		Port:                 envOrDefaultInt("PORT", 8080),
	}

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("form.spreadsheet_id is required")
	}
	if cfg.CalendarDatabaseID == "" || cfg.HostedDatabaseID == "" {
		return nil, fmt.Errorf("store.calendar_database_id and store.hosted_database_id are required")
	}
	if cfg.StoreToken == "" {
		return nil, fmt.Errorf("store.token is required")
	}
	if cfg.ServiceAccountEmail == "" || cfg.ServiceAccountKey == "" {
		return nil, fmt.Errorf("google service account credentials are required")
	}
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("notify.webhook_url is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
