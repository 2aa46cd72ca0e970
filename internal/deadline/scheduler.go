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
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notify"
	"github.com/campuscal/eventsync/internal/notion"
	"github.com/campuscal/eventsync/internal/schema"
)

// dateBufferDays pads every threshold by one day so events with odd start
// times keep a 24h margin.
const dateBufferDays = 1

// EventStore is the query side of the calendar database.
// Implemented by notion.Client.
type EventStore interface {
	GetDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	Query(ctx context.Context, databaseID string, filter notion.Filter) ([]notion.Page, error)
}

// Notifier delivers best-effort chat notifications.
type Notifier interface {
	Notify(ctx context.Context, mentions []string, title, body string, color int)
}

// Scheduler evaluates the deadline catalog against the calendar database.
type Scheduler struct {
	store      EventStore
	notifier   Notifier
	guard      *schema.StoreGuard
	databaseID string
	catalog    []Category
	roles      map[string]string // audience key -> chat mention
	now        func() time.Time
}

// SchedulerConfig holds the scheduler's collaborators and settings.
type SchedulerConfig struct {
	Store      EventStore
	Notifier   Notifier
	Guard      *schema.StoreGuard
	DatabaseID string
	Catalog    []Category
	Roles      map[string]string
	Now        func() time.Time // defaults to time.Now
}

// NewScheduler creates a deadline scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = Catalog()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		store:      cfg.Store,
		notifier:   cfg.Notifier,
		guard:      cfg.Guard,
		databaseID: cfg.DatabaseID,
		catalog:    catalog,
		roles:      cfg.Roles,
		now:        now,
	}
}

// Run performs one deadline check: one batched store query for the whole
// catalog, local re-partitioning per rule, and one notification per
// category that matched at least one event.
func (s *Scheduler) Run(ctx context.Context) error {
	db, err := s.store.GetDatabase(ctx, s.databaseID)
	if err != nil {
		return fmt.Errorf("fetch calendar database schema: %w", err)
	}
	if err := s.guard.Check(db.Properties); err != nil {
		var merr *schema.MismatchError
		if errors.As(err, &merr) && s.guard.ShouldAlert() {
			s.notifier.Notify(ctx, nil, "Calendar database schema drift detected", merr.Diff.String(), notify.ColorRed)
		}
		return err
	}

	today := s.today()

	// One OR-of-ANDs filter covering every rule: O(1) round trips for the
	// query stage regardless of catalog size. The network filter is a
	// superset; the partitioning below is the source of truth.
	var leaves []notion.Filter
	for _, cat := range s.catalog {
		for _, rule := range cat.Rules {
			date := s.targetDate(today, rule)
			for _, value := range rule.Values {
				leaves = append(leaves, notion.And(
					notion.DateEquals(models.PropDate, date),
					notion.SelectEquals(rule.Property, value),
				))
			}
		}
	}

	pages, err := s.store.Query(ctx, s.databaseID, notion.Or(leaves...))
	if err != nil {
		return fmt.Errorf("query deadline candidates: %w", err)
	}

	slog.Debug("deadline candidates fetched", "count", len(pages))

	fired := 0
	for _, cat := range s.catalog {
		if s.notifyCategory(ctx, cat, today, pages) {
			fired++
		}
	}

	s.guard.MarkHealthy()

	slog.Info("deadline check complete", "candidates", len(pages), "categories_fired", fired)
	return nil
}

// notifyCategory partitions the candidate pages per rule and emits one
// aggregated notification when any rule matched. Returns whether it fired.
func (s *Scheduler) notifyCategory(ctx context.Context, cat Category, today time.Time, pages []notion.Page) bool {
	// Rules are presented in ascending day-offset order.
	rules := make([]Rule, len(cat.Rules))
	copy(rules, cat.Rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Offset < rules[j].Offset })

	var body strings.Builder
	var audiences []string
	seenAudience := make(map[string]bool)
	matchedAny := false

	for _, rule := range rules {
		date := s.targetDate(today, rule)
		var matched []notion.Page
		for _, page := range pages {
			if s.ruleMatches(rule, date, page) {
				matched = append(matched, page)
			}
		}
		if len(matched) == 0 {
			continue
		}
		matchedAny = true

		for _, a := range rule.Audience {
			if !seenAudience[a] {
				seenAudience[a] = true
				audiences = append(audiences, a)
			}
		}

		fmt.Fprintf(&body, "**%s** (%s)\n", rule.Heading, date)
		for _, page := range matched {
			fmt.Fprintf(&body, "- %s — %s (host: %s)\n",
				page.PlainText(models.PropName),
				page.URL,
				hostDisplay(&page),
			)
		}
		body.WriteString("\n")
	}

	if !matchedAny {
		return false
	}

	mentions := make([]string, 0, len(audiences))
	for _, a := range audiences {
		if m, ok := s.roles[a]; ok {
			mentions = append(mentions, m)
		} else {
			mentions = append(mentions, "@"+a)
		}
	}

	s.notifier.Notify(ctx, mentions, cat.Name, strings.TrimRight(body.String(), "\n"), cat.Color)
	return true
}

// ruleMatches re-checks the exact (date, property, value) triple for one
// page. A blank status reads as "<Property> N/A", never as a wildcard.
func (s *Scheduler) ruleMatches(rule Rule, date string, page notion.Page) bool {
	if datePart(page.DateStart(models.PropDate)) != date {
		return false
	}
	status := effectiveStatus(&page, rule.Property)
	for _, v := range rule.Values {
		if status == v {
			return true
		}
	}
	return false
}

// targetDate is the absolute calendar day a rule fires for.
func (s *Scheduler) targetDate(today time.Time, rule Rule) string {
	return today.AddDate(0, 0, rule.Offset+dateBufferDays).Format("2006-01-02")
}

// today truncates the clock to the calendar day in the scheduler's zone.
func (s *Scheduler) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// effectiveStatus reads a select property, defaulting blanks to
// "<Property> N/A" for matching purposes.
func effectiveStatus(page *notion.Page, property string) string {
	if v := page.SelectValue(property); v != "" {
		return v
	}
	return property + " " + string(models.StatusNA)
}

// hostDisplay is the human identity shown next to an event in a ping.
func hostDisplay(page *notion.Page) string {
	if h := page.PlainText(models.PropHost); h != "" {
		return h
	}
	return "unknown host"
}

// datePart strips the time portion of a stored date value.
func datePart(value string) string {
	if len(value) > 10 {
		return value[:10]
	}
	return value
}
