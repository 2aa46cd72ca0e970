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

package models

import "time"

// Status is a workflow status value for the derived requirement fields.
type Status string

const (
	StatusTODO         Status = "TODO"
	StatusNA           Status = "N/A"
	StatusNotRequested Status = "Not Requested"
	StatusDone         Status = "Done"
	StatusCancelled    Status = "CANCELLED"
)

// EventType is a member of the closed event-type set.
type EventType string

// EventTypeOther is the fallback when the form answer is not a known type.
const EventTypeOther EventType = "Other"

// Organization is a member of the closed participating-organization set.
type Organization string

// Location is a member of the closed venue set.
type Location string

const (
	LocationZoom      Location = "Zoom"
	LocationDiscord   Location = "Discord"
	LocationOffCampus Location = "Off Campus"
	LocationOther     Location = "Other (See Details)"
)

// AttendanceUnknown is the sentinel for an unparseable attendance estimate.
const AttendanceUnknown = -1

// CalEvent is the normalized, validated representation of one event, ready
// for upload to the calendar database. Constructed once during import and
// immutable afterward; the only mutation points are AttachStoreIDs and
// AttachChildPage, which record externally assigned identifiers after the
// corresponding page has been created.
type CalEvent struct {
	Name             string
	Description      string
	PlainDescription string
	Type             EventType
	Start            time.Time
	End              time.Time
	Attendance       int // AttendanceUnknown when not parseable
	Organizations    []Organization
	Location         Location
	Backup1          *Location // nil when cleared or unanswered
	Backup2          *Location
	EventURL         *string // sanitized; nil when absent or unparseable
	Funding          Status
	TAP              Status
	Booking          Status
	CSI              Status
	Projector        bool
	FoodPickup       *string
	TechRequests     string
	FinanceNotes     string
	DateTimeNotes    string
	TokenGroup       string
	Host             string

	// Assigned by the external store during upload.
	storeID     string
	storeURL    string
	childPageID string
}

// AttachStoreIDs records the calendar page ID and URL assigned by the
// store. Must be called before the linked child page is created.
func (e *CalEvent) AttachStoreIDs(id, url string) {
	e.storeID = id
	e.storeURL = url
}

// AttachChildPage records the hosted-event child page ID.
func (e *CalEvent) AttachChildPage(id string) {
	e.childPageID = id
}

// StoreID returns the calendar page ID, or "" before upload.
func (e *CalEvent) StoreID() string { return e.storeID }

// StoreURL returns the calendar page URL, or "" before upload.
func (e *CalEvent) StoreURL() string { return e.storeURL }

// ChildPageID returns the hosted-event page ID, or "" before it exists.
func (e *CalEvent) ChildPageID() string { return e.childPageID }
