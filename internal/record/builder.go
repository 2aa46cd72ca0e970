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

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/campuscal/eventsync/internal/models"
)

// ValidationError marks a single row as unimportable. It isolates exactly
// one row: the batch continues without it.
type ValidationError struct {
	Row    int // 1-based sheet row, for human-facing messages
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// Accepted date and clock layouts for the form's free-ish date answers.
var (
	dateLayouts  = []string{"2006-01-02", "1/2/2006", "01/02/2006", "January 2, 2006"}
	clockLayouts = []string{"3:04 PM", "3:04PM", "15:04", "3 PM", "3PM"}
)

// Builder turns host form responses into calendar event records. All
// derived fields are computed from the response and the fixed vocabulary,
// never from external state, so Build is pure and deterministic.
type Builder struct {
	vocab *models.Vocabulary
	loc   *time.Location
}

// NewBuilder creates a builder using the given vocabulary and timezone.
func NewBuilder(vocab *models.Vocabulary, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{vocab: vocab, loc: loc}
}

// Build constructs a fully populated event record from one form response.
// Fatal problems (bad times, unknown hosting team) return a
// *ValidationError and no partial record. Non-fatal anomalies degrade:
// malformed URLs become nil with a logged warning, unknown organizations
// are dropped, unparseable attendance becomes the unknown sentinel.
func (b *Builder) Build(resp models.HostFormResponse) (*models.CalEvent, error) {
	row := resp.SheetRow()

	start, end, err := b.parseInterval(resp)
	if err != nil {
		return nil, err
	}

	tokenGroup := strings.TrimSpace(resp.Answer(models.QTokenGroup))
	if !b.vocab.IsTokenGroup(tokenGroup) {
		return nil, &ValidationError{
			Row:    row,
			Field:  models.QTokenGroup,
			Reason: fmt.Sprintf("%q is not a recognized hosting team", tokenGroup),
		}
	}

	placement := strings.TrimSpace(resp.Answer(models.QPlacement))
	location, backup1, backup2 := b.resolveLocations(placement, resp)

	tap := deriveTAP(placement)
	booking := deriveBooking(placement)
	csi := deriveCSI(tap, location)
	funding := deriveFunding(resp.Answer(models.QFunding))

	event := &models.CalEvent{
		Name:             strings.TrimSpace(resp.Answer(models.QEventName)),
		Description:      resp.Answer(models.QDescription),
		PlainDescription: resp.Answer(models.QPlainDescription),
		Type:             b.deriveType(resp.Answer(models.QEventType)),
		Start:            start,
		End:              end,
		Attendance:       parseAttendance(resp.Answer(models.QAttendance)),
		Organizations:    b.filterOrganizations(resp.Answer(models.QOrganizations)),
		Location:         location,
		Backup1:          backup1,
		Backup2:          backup2,
		EventURL:         sanitizeURL(resp.Answer(models.QEventLink), row),
		Funding:          funding,
		TAP:              tap,
		Booking:          booking,
		CSI:              csi,
		Projector:        strings.EqualFold(strings.TrimSpace(resp.Answer(models.QProjector)), "Yes"),
		FoodPickup:       optionalText(resp.Answer(models.QFoodPickup)),
		TechRequests:     resp.Answer(models.QTechRequests),
		FinanceNotes:     resp.Answer(models.QFinanceNotes),
		DateTimeNotes:    resp.Answer(models.QDateTimeNotes),
		TokenGroup:       tokenGroup,
		Host:             strings.TrimSpace(resp.Answer(models.QEmail)),
	}

	return event, nil
}

// parseInterval combines the date answer with the start and end clock
// answers. Unparseable values or end <= start are fatal for the row.
func (b *Builder) parseInterval(resp models.HostFormResponse) (time.Time, time.Time, error) {
	row := resp.SheetRow()

	day, err := parseDate(resp.Answer(models.QDate), b.loc)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Row: row, Field: models.QDate, Reason: err.Error()}
	}

	start, err := parseClock(resp.Answer(models.QStartTime), day)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Row: row, Field: models.QStartTime, Reason: err.Error()}
	}

	end, err := parseClock(resp.Answer(models.QEndTime), day)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Row: row, Field: models.QEndTime, Reason: err.Error()}
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, &ValidationError{
			Row:    row,
			Field:  models.QEndTime,
			Reason: fmt.Sprintf("end %s is not after start %s", end.Format("15:04"), start.Format("15:04")),
		}
	}

	return start, end, nil
}

// resolveLocations maps the venue choices through the lookup table, then
// applies the placement override: remote placements force the primary
// location and clear both backups.
func (b *Builder) resolveLocations(placement string, resp models.HostFormResponse) (models.Location, *models.Location, *models.Location) {
	if remotePlacement(placement) {
		return placementOverride(placement), nil, nil
	}

	primary := models.LocationOther
	if p := resolveVenue(strings.TrimSpace(resp.Answer(models.QFirstChoice))); p != nil {
		primary = *p
	}
	backup1 := resolveVenue(strings.TrimSpace(resp.Answer(models.QBackupVenue1)))
	backup2 := resolveVenue(strings.TrimSpace(resp.Answer(models.QBackupVenue2)))

	return primary, backup1, backup2
}

// deriveTAP: remote and off-campus events never need a TAP form.
func deriveTAP(placement string) models.Status {
	if remotePlacement(placement) {
		return models.StatusNA
	}
	return models.StatusTODO
}

// deriveBooking: only events still looking for a campus venue need a booking.
func deriveBooking(placement string) models.Status {
	if placement == PlacementNeedsVenue {
		return models.StatusTODO
	}
	return models.StatusNA
}

// deriveCSI: CSI intake applies exactly when no TAP is filed and the event
// still happens on campus infrastructure (Zoom/Discord count as on-campus
// for intake purposes; physically off-campus events are exempt). Computed
// after TAP and location since it couples both.
func deriveCSI(tap models.Status, location models.Location) models.Status {
	if tap == models.StatusNA && location != models.LocationOffCampus {
		return models.StatusTODO
	}
	return models.StatusNA
}

// deriveFunding: only an explicit "Yes" opens a funding request.
func deriveFunding(answer string) models.Status {
	if strings.TrimSpace(answer) == "Yes" {
		return models.StatusTODO
	}
	return models.StatusNotRequested
}

// deriveType maps the answer into the closed event-type set, falling back
// to Other for unrecognized values.
func (b *Builder) deriveType(answer string) models.EventType {
	answer = strings.TrimSpace(answer)
	if b.vocab.IsEventType(answer) {
		return models.EventType(answer)
	}
	return models.EventTypeOther
}

// filterOrganizations splits the multi-select answer and silently drops
// anything outside the known organization set.
func (b *Builder) filterOrganizations(answer string) []models.Organization {
	var orgs []models.Organization
	for _, part := range strings.Split(answer, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if b.vocab.IsOrganization(name) {
			orgs = append(orgs, models.Organization(name))
		}
	}
	return orgs
}

// parseAttendance extracts an integer estimate, tolerating "~" and "+"
// decorations. Anything else becomes the unknown sentinel.
func parseAttendance(answer string) int {
	cleaned := strings.TrimSpace(answer)
	cleaned = strings.Trim(cleaned, "~+")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return models.AttendanceUnknown
	}
	return n
}

// sanitizeURL normalizes the event link answer. A bare domain gets an
// https scheme; an empty answer is nil; a string that still fails to parse
// is logged and dropped, never fatal.
func sanitizeURL(raw string, row int) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		slog.Warn("dropping malformed event link", "row", row, "link", raw)
		return nil
	}

	out := parsed.String()
	return &out
}

// optionalText trims an answer, turning blanks into nil.
func optionalText(answer string) *string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	return &answer
}

// parseDate tries the accepted date layouts in the given timezone.
func parseDate(answer string, loc *time.Location) (time.Time, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, answer, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", answer)
}

// parseClock tries the accepted clock layouts and anchors the result to day.
func parseClock(answer string, day time.Time) (time.Time, error) {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if answer == "" {
		return time.Time{}, fmt.Errorf("time is empty")
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, answer); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), 0, 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", answer)
}
