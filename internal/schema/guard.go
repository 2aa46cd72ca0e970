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
	"fmt"
	"strings"
	"sync"
)

// Diff is a structural difference between a live schema and its snapshot.
type Diff struct {
	Added   []string // fields present live but not in the snapshot
	Removed []string // fields in the snapshot but missing live
	Changed []string // fields whose position or type differs
}

// Empty reports whether the diff contains no differences.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// String renders the diff one difference per line, for notifications.
func (d *Diff) String() string {
	var b strings.Builder
	for _, f := range d.Added {
		fmt.Fprintf(&b, "added: %s\n", f)
	}
	for _, f := range d.Removed {
		fmt.Fprintf(&b, "removed: %s\n", f)
	}
	for _, f := range d.Changed {
		fmt.Fprintf(&b, "changed: %s\n", f)
	}
	return strings.TrimRight(b.String(), "\n")
}

// MismatchError signals that a live schema no longer matches its snapshot.
// It is fatal to the current run: the caller must not mutate anything.
type MismatchError struct {
	Source string // "host form" or "calendar database"
	Diff   *Diff
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s schema does not match snapshot:\n%s", e.Source, e.Diff)
}

// latch suppresses repeated alerts for the same unresolved mismatch.
// It trips on the first alert and clears only after a full error-free run.
type latch struct {
	mu      sync.Mutex
	tripped bool
}

// ShouldAlert reports whether a mismatch alert should be sent, and trips
// the latch so subsequent mismatches stay quiet until the latch clears.
func (l *latch) ShouldAlert() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tripped {
		return false
	}
	l.tripped = true
	return true
}

// MarkHealthy clears the latch. Called only after a run completes without
// a schema error on this guard's source.
func (l *latch) MarkHealthy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tripped = false
}

// FormGuard validates the live spreadsheet header row against the form
// snapshot. Header order matters: the normalizer projects rows by the live
// order, so a moved column is as dangerous as a renamed one.
type FormGuard struct {
	latch
	Snapshot *FormSnapshot
}

// NewFormGuard creates a guard for the host form headers.
func NewFormGuard(snap *FormSnapshot) *FormGuard {
	return &FormGuard{Snapshot: snap}
}

// Check compares the live header row with the snapshot. Returns a
// *MismatchError when they differ, nil otherwise.
func (g *FormGuard) Check(liveHeaders []string) error {
	diff := &Diff{}

	want := make(map[string]int, len(g.Snapshot.Headers))
	for i, h := range g.Snapshot.Headers {
		want[h] = i
	}
	got := make(map[string]int, len(liveHeaders))
	for i, h := range liveHeaders {
		got[h] = i
	}

	for _, h := range liveHeaders {
		if _, ok := want[h]; !ok {
			diff.Added = append(diff.Added, fmt.Sprintf("column %q", h))
		}
	}
	for _, h := range g.Snapshot.Headers {
		if _, ok := got[h]; !ok {
			diff.Removed = append(diff.Removed, fmt.Sprintf("column %q", h))
		}
	}

	// Same set of columns but shuffled order is still drift.
	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		for i, h := range g.Snapshot.Headers {
			if i < len(liveHeaders) && liveHeaders[i] != h {
				diff.Changed = append(diff.Changed,
					fmt.Sprintf("column %d: want %q, got %q", i+1, h, liveHeaders[i]))
			}
		}
	}

	if diff.Empty() {
		return nil
	}
	return &MismatchError{Source: "host form", Diff: diff}
}

// StoreGuard validates the live calendar-database property layout against
// the database snapshot. Properties are matched by name; a type change is
// reported as changed. Select option lists are not compared; hosts add
// options routinely and the vocabulary tolerates unknown members.
type StoreGuard struct {
	latch
	Snapshot *DatabaseSnapshot
}

// NewStoreGuard creates a guard for the calendar database.
func NewStoreGuard(snap *DatabaseSnapshot) *StoreGuard {
	return &StoreGuard{Snapshot: snap}
}

// Check compares live database properties with the snapshot.
func (g *StoreGuard) Check(live []Property) error {
	diff := &Diff{}

	want := make(map[string]Property, len(g.Snapshot.Properties))
	for _, p := range g.Snapshot.Properties {
		want[p.Name] = p
	}
	got := make(map[string]Property, len(live))
	for _, p := range live {
		got[p.Name] = p
	}

	for _, p := range live {
		if _, ok := want[p.Name]; !ok {
			diff.Added = append(diff.Added, fmt.Sprintf("property %q (%s)", p.Name, p.Type))
		}
	}
	for _, p := range g.Snapshot.Properties {
		lp, ok := got[p.Name]
		if !ok {
			diff.Removed = append(diff.Removed, fmt.Sprintf("property %q (%s)", p.Name, p.Type))
			continue
		}
		if lp.Type != p.Type {
			diff.Changed = append(diff.Changed,
				fmt.Sprintf("property %q: want type %s, got %s", p.Name, p.Type, lp.Type))
		}
	}

	if diff.Empty() {
		return nil
	}
	return &MismatchError{Source: "calendar database", Diff: diff}
}

// PipelineHealth bundles the two independent schema guards so a run
// invocation carries its health state explicitly instead of reaching for
// package-level flags. Either source can drift without the other.
type PipelineHealth struct {
	Form  *FormGuard
	Store *StoreGuard
}

// NewPipelineHealth creates guards for both sources.
func NewPipelineHealth(form *FormSnapshot, db *DatabaseSnapshot) *PipelineHealth {
	return &PipelineHealth{
		Form:  NewFormGuard(form),
		Store: NewStoreGuard(db),
	}
}
