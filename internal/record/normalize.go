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

// Package record converts raw spreadsheet rows into validated calendar
// event records. Normalize is a pure projection onto the live header
// order; Builder applies the business rules and is deterministic from the
// form response alone.
package record

import "github.com/campuscal/eventsync/internal/models"

// Normalize projects one raw row onto the live header order. Absent cells
// become empty strings. No content validation happens here: the schema
// guard catches drift and the builder validates content.
func Normalize(headerOrder []string, rawRow []string, rowIndex int) models.HostFormResponse {
	return models.NewHostFormResponse(headerOrder, rawRow, rowIndex)
}
