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

// Package deadline scans the calendar database for events crossing a
// day-offset/status threshold today and emits one aggregated notification
// per ping category. There is no "already notified" state: the scheduler
// runs daily and re-pings until a human advances the status field, which
// is the intended behavior.
package deadline

import (
	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notify"
)

// Rule is one deadline threshold: events Offset days out (plus the 24h
// buffer) whose status property holds one of Values get listed under
// Heading, pinging Audience.
type Rule struct {
	Offset   int
	Property string
	Values   []string
	Audience []string
	Heading  string
}

// Category is a named, ordered group of rules producing one notification
// per run when any of its rules match.
type Category struct {
	Name  string
	Color int
	Rules []Rule
}

// Catalog returns the fixed, ordered ping-category catalog. Rules within a
// category are evaluated independently; one event may match several rules
// and several categories in the same run.
func Catalog() []Category {
	todo := []string{string(models.StatusTODO)}

	return []Category{
		{
			Name:  "Funding",
			Color: notify.ColorGold,
			Rules: []Rule{
				{
					Offset:   14,
					Property: models.PropFunding,
					Values:   todo,
					Audience: []string{"finance"},
					Heading:  "Funding requests due in two weeks",
				},
				{
					Offset:   7,
					Property: models.PropFunding,
					Values:   todo,
					Audience: []string{"finance"},
					Heading:  "Funding requests due in a week",
				},
			},
		},
		{
			Name:  "TAP Invoice Deadline",
			Color: notify.ColorBlue,
			Rules: []Rule{
				{
					Offset:   28,
					Property: models.PropTAP,
					Values:   todo,
					Audience: []string{"finance", "logistics"},
					Heading:  "TAP invoice due in three weeks",
				},
				{
					Offset:   14,
					Property: models.PropTAP,
					Values:   todo,
					Audience: []string{"finance"},
					Heading:  "TAP invoice due in a week",
				},
			},
		},
		{
			Name:  "Event Details",
			Color: notify.ColorGreen,
			Rules: []Rule{
				{
					Offset:   10,
					Property: models.PropBooking,
					Values:   todo,
					Audience: []string{"logistics"},
					Heading:  "Room booking still open",
				},
				{
					Offset:   7,
					Property: models.PropCSI,
					Values:   todo,
					Audience: []string{"logistics"},
					Heading:  "CSI intake form due",
				},
			},
		},
	}
}
