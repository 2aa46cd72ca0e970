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

// Package schema holds the hand-maintained snapshots of the external form
// and calendar-database layouts, and the guards that compare them against
// the live schemas before each pipeline run. The snapshots are versioned
// YAML files bundled with the deployment; only the guard latches mutate at
// runtime.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Property describes one property of the calendar database: its name, its
// Notion-style type ("title", "select", "date", ...), and the option list
// for select/multi_select properties. Options feed the closed-set
// vocabularies in internal/models.
type Property struct {
	Name    string   `yaml:"name" json:"name"`
	Type    string   `yaml:"type" json:"type"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// FormSnapshot is the expected header row of the host form spreadsheet,
// in published order.
type FormSnapshot struct {
	Version string   `yaml:"version"`
	Headers []string `yaml:"headers"`
}

// DatabaseSnapshot is the expected property layout of a calendar database.
type DatabaseSnapshot struct {
	Version    string     `yaml:"version"`
	Properties []Property `yaml:"properties"`
}

// LoadFormSnapshot reads a form snapshot from a YAML file.
func LoadFormSnapshot(path string) (*FormSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form snapshot %s: %w", path, err)
	}

	var snap FormSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse form snapshot %s: %w", path, err)
	}

	if len(snap.Headers) == 0 {
		return nil, fmt.Errorf("form snapshot %s has no headers", path)
	}

	return &snap, nil
}

// LoadDatabaseSnapshot reads a database snapshot from a YAML file.
func LoadDatabaseSnapshot(path string) (*DatabaseSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read database snapshot %s: %w", path, err)
	}

	var snap DatabaseSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse database snapshot %s: %w", path, err)
	}

	if len(snap.Properties) == 0 {
		return nil, fmt.Errorf("database snapshot %s has no properties", path)
	}

	return &snap, nil
}

// Property returns the snapshot property with the given name, or nil.
func (s *DatabaseSnapshot) Property(name string) *Property {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return &s.Properties[i]
		}
	}
	return nil
}
