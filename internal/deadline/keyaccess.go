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
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notify"
	"github.com/campuscal/eventsync/internal/notion"
)

// keyAccessOffsetDays: rooms needing physical key access are flagged four
// days out (plus the shared 24h buffer).
const keyAccessOffsetDays = 4

// Rooms that need a key card picked up from facilities, and rooms that
// open with a door code instead.
var (
	keyCardLocations = []models.Location{"Whitaker Media Lab", "Union Boardroom"}
	keyCodeLocations = []models.Location{"Sinclair 204"}
)

// KeyAccessReminder is the single-tier variant of the deadline scheduler:
// one fixed offset, a hardcoded room list, one notification grouped by
// location.
type KeyAccessReminder struct {
	store      EventStore
	notifier   Notifier
	databaseID string
	audience   []string
	now        func() time.Time
}

// NewKeyAccessReminder creates the key-access reminder.
func NewKeyAccessReminder(store EventStore, notifier Notifier, databaseID string, audience []string, now func() time.Time) *KeyAccessReminder {
	if now == nil {
		now = time.Now
	}
	return &KeyAccessReminder{
		store:      store,
		notifier:   notifier,
		databaseID: databaseID,
		audience:   audience,
		now:        now,
	}
}

// Run queries events at key-access rooms on the target day, drops
// cancelled ones, and emits one notification with a section per location.
func (r *KeyAccessReminder) Run(ctx context.Context) error {
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := today.AddDate(0, 0, keyAccessOffsetDays+dateBufferDays).Format("2006-01-02")

	rooms := append(append([]models.Location{}, keyCardLocations...), keyCodeLocations...)
	var locationLeaves []notion.Filter
	for _, loc := range rooms {
		locationLeaves = append(locationLeaves, notion.SelectEquals(models.PropLocation, string(loc)))
	}

	filter := notion.And(
		notion.DateEquals(models.PropDate, target),
		notion.Or(locationLeaves...),
	)

	pages, err := r.store.Query(ctx, r.databaseID, filter)
	if err != nil {
		return fmt.Errorf("query key-access candidates: %w", err)
	}

	byLocation := make(map[models.Location][]notion.Page)
	for _, page := range pages {
		if page.SelectValue(models.PropEventStatus) == string(models.StatusCancelled) {
			continue
		}
		if datePart(page.DateStart(models.PropDate)) != target {
			continue
		}
		loc := models.Location(page.SelectValue(models.PropLocation))
		byLocation[loc] = append(byLocation[loc], page)
	}

	if len(byLocation) == 0 {
		slog.Debug("no key-access events", "date", target)
		return nil
	}

	keyCard := make(map[models.Location]bool, len(keyCardLocations))
	for _, loc := range keyCardLocations {
		keyCard[loc] = true
	}

	locs := make([]string, 0, len(byLocation))
	for loc := range byLocation {
		locs = append(locs, string(loc))
	}
	sort.Strings(locs)

	var body strings.Builder
	for _, l := range locs {
		loc := models.Location(l)
		access := "door code"
		if keyCard[loc] {
			access = "key card pickup"
		}
		fmt.Fprintf(&body, "**%s** (%s required)\n", l, access)
		for _, page := range byLocation[loc] {
			fmt.Fprintf(&body, "- %s — %s\n",
				page.PlainText(models.PropName),
				hostDisplay(&page),
			)
		}
		body.WriteString("\n")
	}

	title := fmt.Sprintf("Key access needed for events on %s", target)
	r.notifier.Notify(ctx, r.mentions(), title, strings.TrimRight(body.String(), "\n"), notify.ColorGold)

	slog.Info("key-access reminder sent", "date", target, "locations", len(byLocation))
	return nil
}

func (r *KeyAccessReminder) mentions() []string {
	out := make([]string, len(r.audience))
	copy(out, r.audience)
	return out
}
