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

package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestLoadFormSnapshot verifies parsing and the non-empty headers check.
func TestLoadFormSnapshot(t *testing.T) {
	path := writeFile(t, "form.yaml", `
version: "2026-08-14"
headers:
  - "Timestamp"
  - "Event Name"
  - "Imported"
`)

	snap, err := LoadFormSnapshot(path)
	if err != nil {
		t.Fatalf("LoadFormSnapshot: %v", err)
	}
	if snap.Version != "2026-08-14" {
		t.Errorf("version = %q", snap.Version)
	}
	if len(snap.Headers) != 3 || snap.Headers[2] != "Imported" {
		t.Errorf("headers = %v", snap.Headers)
	}
}

// TestLoadFormSnapshot_Empty verifies a snapshot with no headers is rejected.
func TestLoadFormSnapshot_Empty(t *testing.T) {
	path := writeFile(t, "form.yaml", `version: "2026-08-14"`)

	if _, err := LoadFormSnapshot(path); err == nil {
		t.Fatal("expected error for empty snapshot")
	}
}

// TestLoadDatabaseSnapshot verifies parsing including select options, and
// the Property lookup helper.
func TestLoadDatabaseSnapshot(t *testing.T) {
	path := writeFile(t, "calendar.yaml", `
version: "2026-08-14"
properties:
  - name: "Name"
    type: "title"
  - name: "TAP Status"
    type: "select"
    options:
      - "TODO"
      - "N/A"
      - "Done"
`)

	snap, err := LoadDatabaseSnapshot(path)
	if err != nil {
		t.Fatalf("LoadDatabaseSnapshot: %v", err)
	}
	if len(snap.Properties) != 2 {
		t.Fatalf("properties = %v", snap.Properties)
	}

	p := snap.Property("TAP Status")
	if p == nil || p.Type != "select" || len(p.Options) != 3 {
		t.Errorf("Property(TAP Status) = %+v", p)
	}
	if snap.Property("Missing") != nil {
		t.Error("lookup of absent property should be nil")
	}
}

// TestLoadDatabaseSnapshot_MissingFile verifies the read error is surfaced.
func TestLoadDatabaseSnapshot_MissingFile(t *testing.T) {
	if _, err := LoadDatabaseSnapshot(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
