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

package importer

import (
	"time"

	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notion"
)

// calendarProps maps an event record onto the calendar database layout.
func calendarProps(e *models.CalEvent) notion.Props {
	props := notion.Props{
		models.PropName:          notion.Title(e.Name),
		models.PropDescription:   notion.RichText(e.Description),
		models.PropPlainDesc:     notion.RichText(e.PlainDescription),
		models.PropDate:          notion.Date(e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339)),
		models.PropType:          notion.Select(string(e.Type)),
		models.PropEventStatus:   notion.Select(models.EventStatusConfirmed),
		models.PropAttendance:    notion.Number(e.Attendance),
		models.PropLocation:      notion.Select(string(e.Location)),
		models.PropFunding:       notion.Select(string(e.Funding)),
		models.PropTAP:           notion.Select(string(e.TAP)),
		models.PropBooking:       notion.Select(string(e.Booking)),
		models.PropCSI:           notion.Select(string(e.CSI)),
		models.PropProjector:     notion.Checkbox(e.Projector),
		models.PropTokenGroup:    notion.Select(e.TokenGroup),
		models.PropHost:          notion.RichText(e.Host),
		models.PropTechRequests:  notion.RichText(e.TechRequests),
		models.PropFinanceNotes:  notion.RichText(e.FinanceNotes),
		models.PropDateTimeNotes: notion.RichText(e.DateTimeNotes),
	}

	if len(e.Organizations) > 0 {
		names := make([]string, 0, len(e.Organizations))
		for _, o := range e.Organizations {
			names = append(names, string(o))
		}
		props[models.PropOrganizations] = notion.MultiSelect(names)
	}
	if e.Backup1 != nil {
		props[models.PropBackup1] = notion.Select(string(*e.Backup1))
	}
	if e.Backup2 != nil {
		props[models.PropBackup2] = notion.Select(string(*e.Backup2))
	}
	if e.EventURL != nil {
		props[models.PropEventLink] = notion.URL(*e.EventURL)
	}
	if e.FoodPickup != nil {
		props[models.PropFoodPickup] = notion.RichText(*e.FoodPickup)
	}

	return props
}

// hostedProps maps an event record onto the lighter hosted-event child
// layout: title and date only; the relation is injected by the client.
func hostedProps(e *models.CalEvent) notion.Props {
	return notion.Props{
		models.ChildPropName: notion.Title(e.Name),
		models.ChildPropDate: notion.Date(e.Start.Format("2006-01-02"), ""),
	}
}
