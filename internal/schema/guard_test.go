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
	"errors"
	"strings"
	"testing"
)

func testFormSnapshot() *FormSnapshot {
	return &FormSnapshot{
		Version: "test",
		Headers: []string{"Timestamp", "Email Address", "Event Name", "Imported"},
	}
}

func testDatabaseSnapshot() *DatabaseSnapshot {
	return &DatabaseSnapshot{
		Version: "test",
		Properties: []Property{
			{Name: "Name", Type: "title"},
			{Name: "Date", Type: "date"},
			{Name: "TAP Status", Type: "select", Options: []string{"TODO", "N/A", "Done"}},
		},
	}
}

// TestFormGuard_Match verifies that an unchanged header row passes.
func TestFormGuard_Match(t *testing.T) {
	g := NewFormGuard(testFormSnapshot())

	if err := g.Check([]string{"Timestamp", "Email Address", "Event Name", "Imported"}); err != nil {
		t.Fatalf("unexpected mismatch: %v", err)
	}
}

// TestFormGuard_AddedColumn verifies that a new live column produces a diff
// listing exactly that addition.
func TestFormGuard_AddedColumn(t *testing.T) {
	g := NewFormGuard(testFormSnapshot())

	err := g.Check([]string{"Timestamp", "Email Address", "Event Name", "T-Shirt Size", "Imported"})
	if err == nil {
		t.Fatal("expected mismatch for added column")
	}

	var merr *MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if len(merr.Diff.Added) != 1 || !strings.Contains(merr.Diff.Added[0], "T-Shirt Size") {
		t.Errorf("diff.Added = %v, want exactly the new column", merr.Diff.Added)
	}
	if len(merr.Diff.Removed) != 0 {
		t.Errorf("diff.Removed = %v, want empty", merr.Diff.Removed)
	}
}

// TestFormGuard_ReorderedColumns verifies that a shuffled-but-equal header
// set is still drift: the normalizer projects by position.
func TestFormGuard_ReorderedColumns(t *testing.T) {
	g := NewFormGuard(testFormSnapshot())

	err := g.Check([]string{"Email Address", "Timestamp", "Event Name", "Imported"})
	if err == nil {
		t.Fatal("expected mismatch for reordered columns")
	}

	var merr *MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if len(merr.Diff.Changed) == 0 {
		t.Error("expected changed entries for reordered columns")
	}
}

// TestStoreGuard_TypeChange verifies that a property type change reports as
// changed, not as add+remove.
func TestStoreGuard_TypeChange(t *testing.T) {
	g := NewStoreGuard(testDatabaseSnapshot())

	live := []Property{
		{Name: "Name", Type: "title"},
		{Name: "Date", Type: "date"},
		{Name: "TAP Status", Type: "rich_text"},
	}

	err := g.Check(live)
	if err == nil {
		t.Fatal("expected mismatch for type change")
	}

	var merr *MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if len(merr.Diff.Changed) != 1 || !strings.Contains(merr.Diff.Changed[0], "TAP Status") {
		t.Errorf("diff.Changed = %v, want the retyped property", merr.Diff.Changed)
	}
}

// TestStoreGuard_RemovedProperty verifies a missing live property is drift.
func TestStoreGuard_RemovedProperty(t *testing.T) {
	g := NewStoreGuard(testDatabaseSnapshot())

	live := []Property{
		{Name: "Name", Type: "title"},
		{Name: "Date", Type: "date"},
	}

	err := g.Check(live)
	if err == nil {
		t.Fatal("expected mismatch for removed property")
	}
}

// TestLatch_SuppressesRepeatAlerts verifies that two consecutive failures
// with no intervening healthy run produce at most one alert.
func TestLatch_SuppressesRepeatAlerts(t *testing.T) {
	g := NewFormGuard(testFormSnapshot())

	if !g.ShouldAlert() {
		t.Fatal("first failure should alert")
	}
	if g.ShouldAlert() {
		t.Fatal("second failure with latch held should not alert")
	}

	g.MarkHealthy()

	if !g.ShouldAlert() {
		t.Fatal("failure after a healthy run should alert again")
	}
}

// TestPipelineHealth_IndependentLatches verifies the two guards latch
// independently, since either source can drift without the other.
func TestPipelineHealth_IndependentLatches(t *testing.T) {
	h := NewPipelineHealth(testFormSnapshot(), testDatabaseSnapshot())

	if !h.Form.ShouldAlert() {
		t.Fatal("form guard should alert")
	}
	if !h.Store.ShouldAlert() {
		t.Fatal("store guard should alert despite form latch being held")
	}

	h.Form.MarkHealthy()
	if !h.Form.ShouldAlert() {
		t.Fatal("form guard should alert after reset")
	}
	if h.Store.ShouldAlert() {
		t.Fatal("store latch should still be held")
	}
}

// TestDiff_String verifies the rendered diff lists each difference.
func TestDiff_String(t *testing.T) {
	d := &Diff{
		Added:   []string{`column "A"`},
		Removed: []string{`column "B"`},
	}

	s := d.String()
	if !strings.Contains(s, `added: column "A"`) || !strings.Contains(s, `removed: column "B"`) {
		t.Errorf("unexpected diff rendering:\n%s", s)
	}
}
