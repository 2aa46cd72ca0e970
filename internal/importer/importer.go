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

// Package importer orchestrates one sync run: schema guards, row selection,
// record building with per-row error isolation, concurrent two-stage
// uploads, and processed-flag writeback for fully successful uploads only.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campuscal/eventsync/internal/models"
	"github.com/campuscal/eventsync/internal/notify"
	"github.com/campuscal/eventsync/internal/notion"
	"github.com/campuscal/eventsync/internal/record"
	"github.com/campuscal/eventsync/internal/schema"
	"github.com/campuscal/eventsync/internal/sheets"
)

// ErrRunInProgress is returned when a sync run overlaps a previous one.
// Overlapping runs would both see the same unprocessed rows and import
// them twice, so runs are strictly serialized.
var ErrRunInProgress = errors.New("sync run already in progress")

// FormStore is the spreadsheet side of the pipeline.
// Implemented by sheets.Client.
type FormStore interface {
	LoadSheet(ctx context.Context, spreadsheetID, tab, processedColumn string) (*sheets.SheetData, error)
	MarkProcessed(ctx context.Context, spreadsheetID, tab string, colIndex, rowIndex int) error
}

// EventStore is the calendar database side of the pipeline.
// Implemented by notion.Client.
type EventStore interface {
	GetDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	CreatePage(ctx context.Context, databaseID string, props notion.Props) (*notion.Page, error)
	CreateLinkedChild(ctx context.Context, databaseID, parentID, relationProperty string, props notion.Props) (*notion.Page, error)
}

// Notifier delivers best-effort chat notifications.
// Implemented by notify.Webhook.
type Notifier interface {
	Notify(ctx context.Context, mentions []string, title, body string, color int)
}

// Failure records one row that could not be imported.
type Failure struct {
	SheetRow      int
	Reason        string
	CorrelationID string // set for upload failures, empty for validation
}

// Result summarises one sync run.
type Result struct {
	Selected int
	Imported int
	Failures []Failure
}

// Coordinator runs the import pipeline.
type Coordinator struct {
	forms    FormStore
	store    EventStore
	notifier Notifier
	builder  *record.Builder
	health   *schema.PipelineHealth

	spreadsheetID   string
	tab             string
	processedColumn string
	calendarDB      string
	hostedDB        string

	runMu sync.Mutex
}

// CoordinatorConfig holds the coordinator's collaborators and settings.
type CoordinatorConfig struct {
	Forms           FormStore
	Store           EventStore
	Notifier        Notifier
	Builder         *record.Builder
	Health          *schema.PipelineHealth
	SpreadsheetID   string
	Tab             string
	ProcessedColumn string
	CalendarDB      string
	HostedDB        string
}

// NewCoordinator creates an import coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	return &Coordinator{
		forms:           cfg.Forms,
		store:           cfg.Store,
		notifier:        cfg.Notifier,
		builder:         cfg.Builder,
		health:          cfg.Health,
		spreadsheetID:   cfg.SpreadsheetID,
		tab:             cfg.Tab,
		processedColumn: cfg.ProcessedColumn,
		calendarDB:      cfg.CalendarDB,
		hostedDB:        cfg.HostedDB,
	}
}

// Sync performs one import run. A schema mismatch on either source aborts
// the run before any mutation; a bad row never aborts the batch.
func (c *Coordinator) Sync(ctx context.Context) (*Result, error) {
	if !c.runMu.TryLock() {
		slog.Warn("sync requested while a run is in progress")
		return nil, ErrRunInProgress
	}
	defer c.runMu.Unlock()

	slog.Info("starting host form sync", "spreadsheet", c.spreadsheetID, "tab", c.tab)

	// Reads are safe before the guards; mutation is not.
	sheet, err := c.forms.LoadSheet(ctx, c.spreadsheetID, c.tab, c.processedColumn)
	if err != nil {
		return nil, fmt.Errorf("load host form: %w", err)
	}

	if err := c.checkSchemas(ctx, sheet.Headers); err != nil {
		return nil, err
	}

	selected := c.selectRows(sheet)
	result := &Result{Selected: len(selected)}

	if len(selected) == 0 {
		slog.Info("no unprocessed rows")
		c.markHealthy()
		return result, nil
	}

	slog.Info("rows selected for import", "count", len(selected))

	// Build every record first; validation failures are reported per row
	// and excluded, the rest of the batch continues.
	type buildItem struct {
		resp  models.HostFormResponse
		event *models.CalEvent
	}
	var builds []buildItem

	var resultMu sync.Mutex
	for _, resp := range selected {
		event, err := c.builder.Build(resp)
		if err != nil {
			var verr *record.ValidationError
			if errors.As(err, &verr) {
				c.reportValidationFailure(ctx, result, &resultMu, verr)
				continue
			}
			// Builder only returns validation errors today; treat anything
			// else the same way rather than dropping it silently.
			c.reportValidationFailure(ctx, result, &resultMu, &record.ValidationError{
				Row: resp.SheetRow(), Field: "row", Reason: err.Error(),
			})
			continue
		}
		builds = append(builds, buildItem{resp: resp, event: event})
	}

	// Two-stage uploads run concurrently with no ordering between rows.
	// Each goroutine closes over its own record; the processed flag is
	// written only after its own upload is fully successful.
	var wg sync.WaitGroup
	for _, item := range builds {
		wg.Add(1)
		go func(item buildItem) {
			defer wg.Done()
			c.uploadOne(ctx, item.resp, item.event, sheet.ProcessedColumn, result, &resultMu)
		}(item)
	}
	wg.Wait()

	c.markHealthy()

	slog.Info("host form sync complete",
		"selected", result.Selected,
		"imported", result.Imported,
		"failed", len(result.Failures),
	)

	return result, nil
}

// checkSchemas runs both guards. On mismatch it notifies once per latch
// and propagates the error so the run aborts before mutating anything.
func (c *Coordinator) checkSchemas(ctx context.Context, liveHeaders []string) error {
	if err := c.health.Form.Check(liveHeaders); err != nil {
		var merr *schema.MismatchError
		if errors.As(err, &merr) && c.health.Form.ShouldAlert() {
			c.notifier.Notify(ctx, nil, "Host form schema drift detected", merr.Diff.String(), notify.ColorRed)
		}
		return err
	}

	db, err := c.store.GetDatabase(ctx, c.calendarDB)
	if err != nil {
		return fmt.Errorf("fetch calendar database schema: %w", err)
	}
	if err := c.health.Store.Check(db.Properties); err != nil {
		var merr *schema.MismatchError
		if errors.As(err, &merr) && c.health.Store.ShouldAlert() {
			c.notifier.Notify(ctx, nil, "Calendar database schema drift detected", merr.Diff.String(), notify.ColorRed)
		}
		return err
	}

	return nil
}

// selectRows picks rows that are not yet processed and not phantom blanks.
// Spreadsheet APIs hand back trailing empty rows; a row counts as present
// only when the event name answer is non-empty.
func (c *Coordinator) selectRows(sheet *sheets.SheetData) []models.HostFormResponse {
	var selected []models.HostFormResponse
	for i, row := range sheet.Rows {
		if sheet.Processed[i] {
			continue
		}
		resp := record.Normalize(sheet.Headers, row, i)
		if strings.TrimSpace(resp.Answer(models.QEventName)) == "" {
			continue
		}
		selected = append(selected, resp)
	}
	return selected
}

// uploadOne runs the per-record state machine: create the calendar page,
// then the linked hosted-event child, then mark the source row processed.
// A parent failure leaves the row untouched for retry; a child failure
// keeps the parent (the store has no transactions) and also leaves the
// checkbox unset.
func (c *Coordinator) uploadOne(ctx context.Context, resp models.HostFormResponse, event *models.CalEvent, processedCol int, result *Result, mu *sync.Mutex) {
	page, err := c.store.CreatePage(ctx, c.calendarDB, calendarProps(event))
	if err != nil {
		c.reportUploadFailure(ctx, result, mu, resp.SheetRow(), event.Name,
			fmt.Errorf("create calendar page: %w", err))
		return
	}
	event.AttachStoreIDs(page.ID, page.URL)

	child, err := c.store.CreateLinkedChild(ctx, c.hostedDB, page.ID, models.ChildPropRelation, hostedProps(event))
	if err != nil {
		c.reportUploadFailure(ctx, result, mu, resp.SheetRow(), event.Name,
			fmt.Errorf("create hosted-event page (calendar page %s kept): %w", page.ID, err))
		return
	}
	event.AttachChildPage(child.ID)

	if err := c.forms.MarkProcessed(ctx, c.spreadsheetID, c.tab, processedCol, resp.RowIndex()); err != nil {
		c.reportUploadFailure(ctx, result, mu, resp.SheetRow(), event.Name,
			fmt.Errorf("mark row processed: %w", err))
		return
	}

	mu.Lock()
	result.Imported++
	mu.Unlock()

	slog.Info("event imported",
		"row", resp.SheetRow(),
		"event", event.Name,
		"page", page.ID,
		"child", child.ID,
	)

	c.notifier.Notify(ctx, nil, "Event imported",
		fmt.Sprintf("%s\n%s", event.Name, event.StoreURL()), notify.ColorGreen)
}

func (c *Coordinator) reportValidationFailure(ctx context.Context, result *Result, mu *sync.Mutex, verr *record.ValidationError) {
	mu.Lock()
	result.Failures = append(result.Failures, Failure{SheetRow: verr.Row, Reason: verr.Error()})
	mu.Unlock()

	slog.Warn("row failed validation", "row", verr.Row, "field", verr.Field, "reason", verr.Reason)

	c.notifier.Notify(ctx, nil, "Event import failed",
		fmt.Sprintf("%s\nThe row was skipped; once the response is fixed it will retry on the next run.", verr),
		notify.ColorRed)
}

func (c *Coordinator) reportUploadFailure(ctx context.Context, result *Result, mu *sync.Mutex, sheetRow int, eventName string, err error) {
	correlationID := uuid.NewString()

	mu.Lock()
	result.Failures = append(result.Failures, Failure{
		SheetRow:      sheetRow,
		Reason:        err.Error(),
		CorrelationID: correlationID,
	})
	mu.Unlock()

	slog.Error("upload failed",
		"row", sheetRow,
		"event", eventName,
		"correlation_id", correlationID,
		"error", err,
	)

	c.notifier.Notify(ctx, nil, "Event upload failed",
		fmt.Sprintf("%s (row %d): %v\nCorrelation ID: %s", eventName, sheetRow, err, correlationID),
		notify.ColorRed)
}

// markHealthy clears both guard latches after a run with no schema error.
func (c *Coordinator) markHealthy() {
	c.health.Form.MarkHealthy()
	c.health.Store.MarkHealthy()
}
