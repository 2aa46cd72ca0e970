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

// Property names of the calendar database. The database snapshot and every
// upload/query must use these exact names.
const (
	PropName          = "Name"
	PropDescription   = "Description"
	PropPlainDesc     = "Plain Description"
	PropDate          = "Date"
	PropType          = "Type"
	PropEventStatus   = "Event Status"
	PropAttendance    = "Estimated Attendance"
	PropOrganizations = "Organizations"
	PropLocation      = "Location"
	PropBackup1       = "Backup Location 1"
	PropBackup2       = "Backup Location 2"
	PropEventLink     = "Event Link"
	PropFunding       = "Funding Status"
	PropTAP           = "TAP Status"
	PropBooking       = "Booking Status"
	PropCSI           = "CSI Intake Status"
	PropProjector     = "Projector"
	PropFoodPickup    = "Food Pickup"
	PropTechRequests  = "Tech Requests"
	PropFinanceNotes  = "Finance Notes"
	PropDateTimeNotes = "Date/Time Notes"
	PropTokenGroup    = "Token Group"
	PropHost          = "Host"
)

// Property names of the hosted-event child database.
const (
	ChildPropName     = "Name"
	ChildPropDate     = "Date"
	ChildPropRelation = "Calendar Event"
)

// Event Status values.
const (
	EventStatusConfirmed = "Confirmed"
	EventStatusTentative = "Tentative"
)
