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

package record

import "github.com/campuscal/eventsync/internal/models"

// Placement answers from the "Where is your event taking place?" question.
// This is the canonical phrasing; the older form revision used longer
// sentences for the same choices and is no longer accepted.
const (
	PlacementZoomOnly    = "Zoom only"
	PlacementDiscordOnly = "Discord only"
	PlacementOffCampus   = "Off campus"
	PlacementNeedsVenue  = "Needs an on-campus venue"
	PlacementRoomBooked  = "Room already booked"
)

// venueLookup maps raw venue-name answers from the form to canonical
// location enum members. Unmapped answers fall back to Other (See Details).
var venueLookup = map[string]models.Location{
	"Great Hall (Sinclair)":  "Sinclair Great Hall",
	"Sinclair 204":           "Sinclair 204",
	"Auditorium (Whitaker)":  "Whitaker Auditorium",
	"Media Lab (Whitaker)":   "Whitaker Media Lab",
	"Union Boardroom":        "Union Boardroom",
	"Union Courtyard (tent)": "Union Courtyard",
}

// resolveVenue maps a raw venue answer to its canonical location. Empty
// answers resolve to nothing; unmapped non-empty answers to Other.
func resolveVenue(raw string) *models.Location {
	if raw == "" {
		return nil
	}
	loc, ok := venueLookup[raw]
	if !ok {
		loc = models.LocationOther
	}
	return &loc
}

// remotePlacement reports whether the placement answer means the event has
// no on-campus venue at all (Zoom-only, Discord-only, or off campus).
func remotePlacement(placement string) bool {
	switch placement {
	case PlacementZoomOnly, PlacementDiscordOnly, PlacementOffCampus:
		return true
	}
	return false
}

// placementOverride returns the forced location for remote placements.
func placementOverride(placement string) models.Location {
	switch placement {
	case PlacementZoomOnly:
		return models.LocationZoom
	case PlacementDiscordOnly:
		return models.LocationDiscord
	default:
		return models.LocationOffCampus
	}
}
