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

package deadline

import (
	"context"
	"strings"
	"testing"

	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notion"
)

// TestKeyAccess_GroupsByLocation verifies the reminder fires five days out,
// groups events per room with the right access kind, and drops cancelled
// events.
func TestKeyAccess_GroupsByLocation(t *testing.T) {
	target := dayOut(5)

	store := &mockStore{
		props: storeProperties(),
		pages: []notion.Page{
			storePage(t, "Soldering", target+"T18:00:00Z", "a@example.edu", map[string]string{
				models.PropLocation:    "Whitaker Media Lab",
				models.PropEventStatus: "Confirmed",
			}),
			storePage(t, "Game Night", target, "b@example.edu", map[string]string{
				models.PropLocation:    "Sinclair 204",
				models.PropEventStatus: "Tentative",
			}),
			storePage(t, "Cancelled Mixer", target, "c@example.edu", map[string]string{
				models.PropLocation:    "Union Boardroom",
				models.PropEventStatus: "CANCELLED",
			}),
		},
	}
	notifier := &mockNotifier{}

	r := NewKeyAccessReminder(store, notifier, "cal-db", []string{"<@&200>"}, nowFunc)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.sent))
	}

	n := notifier.sent[0]
	if !strings.Contains(n.title, target) {
		t.Errorf("title = %q, want the target date", n.title)
	}
	if len(n.mentions) != 1 || n.mentions[0] != "<@&200>" {
		t.Errorf("mentions = %v", n.mentions)
	}

	if !strings.Contains(n.body, "**Sinclair 204** (door code required)") {
		t.Errorf("missing door-code section:\n%s", n.body)
	}
	if !strings.Contains(n.body, "**Whitaker Media Lab** (key card pickup required)") {
		t.Errorf("missing key-card section:\n%s", n.body)
	}
	if strings.Contains(n.body, "Cancelled Mixer") {
		t.Errorf("cancelled event listed:\n%s", n.body)
	}

	// Sections come out in location order.
	if strings.Index(n.body, "Sinclair 204") > strings.Index(n.body, "Whitaker Media Lab") {
		t.Errorf("sections out of order:\n%s", n.body)
	}
}

// TestKeyAccess_QueryTargetsKeyRooms verifies the filter constrains on the
// target day and the key-access room set.
func TestKeyAccess_QueryTargetsKeyRooms(t *testing.T) {
	store := &mockStore{props: storeProperties()}
	notifier := &mockNotifier{}

	r := NewKeyAccessReminder(store, notifier, "cal-db", nil, nowFunc)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(store.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(store.queries))
	}

	and, ok := store.queries[0]["and"].([]notion.Filter)
	if !ok || len(and) != 2 {
		t.Fatalf("filter = %v, want AND(date, OR(rooms))", store.queries[0])
	}
	rooms, ok := and[1]["or"].([]notion.Filter)
	if !ok || len(rooms) != 3 {
		t.Errorf("room legs = %v, want the three key-access rooms", and[1])
	}
}

// TestKeyAccess_QuietWhenEmpty verifies nothing is sent when no event needs
// key access on the target day.
func TestKeyAccess_QuietWhenEmpty(t *testing.T) {
	store := &mockStore{
		props: storeProperties(),
		pages: []notion.Page{
			storePage(t, "Stale Hit", dayOut(9), "", map[string]string{
				models.PropLocation:    "Sinclair 204",
				models.PropEventStatus: "Confirmed",
			}),
		},
	}
	notifier := &mockNotifier{}

	r := NewKeyAccessReminder(store, notifier, "cal-db", nil, nowFunc)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("notifications = %v, want none", notifier.sent)
	}
}
