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

// Package models defines the data structures shared across the event-sync
// pipeline: the host form response, the calendar event record, and the
// closed-set vocabularies extracted from the database snapshot.
package models

// Canonical host form questions. These are the spreadsheet header labels as
// published by the form; the form snapshot must list them in this order plus
// the processed-flag column.
const (
	QTimestamp        = "Timestamp"
	QEmail            = "Email Address"
	QEventName        = "What is the name of your event?"
	QDescription      = "Describe your event"
	QPlainDescription = "One-line plain text description for the calendar"
	QEventType        = "What type of event is this?"
	QDate             = "What date is your event?"
	QStartTime        = "What time does your event start?"
	QEndTime          = "What time does your event end?"
	QAttendance       = "How many attendees do you expect?"
	QOrganizations    = "Which organizations are involved?"
	QPlacement        = "Where is your event taking place?"
	QFirstChoice      = "First choice venue"
	QBackupVenue1     = "Backup venue #1"
	QBackupVenue2     = "Backup venue #2"
	QEventLink        = "Link to your event page (if any)"
	QFunding          = "Does your event require funding?"
	QTokenGroup       = "Which team is hosting this event?"
	QProjector        = "Do you need a projector or other AV equipment?"
	QFoodPickup       = "If you ordered food, when should it be picked up?"
	QTechRequests     = "Any tech requests?"
	QFinanceNotes     = "Finance notes"
	QDateTimeNotes    = "Anything else about the date/time?"
)

// CanonicalQuestions lists every form question in published order. The
// form snapshot is this list plus the processed-flag column; drift against
// it is caught by the schema guard, not the normalizer.
var CanonicalQuestions = []string{
	QTimestamp,
	QEmail,
	QEventName,
	QDescription,
	QPlainDescription,
	QEventType,
	QDate,
	QStartTime,
	QEndTime,
	QAttendance,
	QOrganizations,
	QPlacement,
	QFirstChoice,
	QBackupVenue1,
	QBackupVenue2,
	QEventLink,
	QFunding,
	QTokenGroup,
	QProjector,
	QFoodPickup,
	QTechRequests,
	QFinanceNotes,
	QDateTimeNotes,
}

// HostFormResponse is one spreadsheet row projected onto the live header
// order. Immutable once constructed; answers for absent cells are empty
// strings.
type HostFormResponse struct {
	rowIndex int
	headers  []string
	answers  map[string]string
}

// NewHostFormResponse builds a response from the live headers and one raw
// row. rowIndex is the zero-based data row index (sheet row = rowIndex+2,
// accounting for the header row and 1-based sheet numbering).
func NewHostFormResponse(headers []string, cells []string, rowIndex int) HostFormResponse {
	answers := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			answers[h] = cells[i]
		} else {
			answers[h] = ""
		}
	}
	return HostFormResponse{
		rowIndex: rowIndex,
		headers:  headers,
		answers:  answers,
	}
}

// RowIndex returns the zero-based data row index of this response.
func (r HostFormResponse) RowIndex() int { return r.rowIndex }

// SheetRow returns the 1-based spreadsheet row number (header row is 1).
func (r HostFormResponse) SheetRow() int { return r.rowIndex + 2 }

// Answer returns the raw answer for a question, or "" when the question is
// not present in the live headers.
func (r HostFormResponse) Answer(question string) string {
	return r.answers[question]
}
