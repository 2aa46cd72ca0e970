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

// Package sheets is the form store client. It reads the host form tab over
// the spreadsheet values API and writes the per-row processed flag back.
// The client exposes the literal header order as currently published;
// validation against the canonical snapshot is the schema guard's job.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production values API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// processedTrue is the cell value written when a row has been imported.
const processedTrue = "TRUE"

// SheetData is one loaded tab: live headers, raw data rows, and the parsed
// processed-flag column. Rows and Processed are parallel.
type SheetData struct {
	Headers   []string
	Rows      [][]string
	Processed []bool

	// ProcessedColumn is the zero-based index of the processed-flag column
	// in Headers, or -1 when the column is missing (schema drift).
	ProcessedColumn int
}

// Client talks to the spreadsheet values API. The HTTP client is expected
// to carry OAuth credentials (service-account JWT transport).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a form store client. baseURL is overridable for tests.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// valuesResponse mirrors the values.get response.
type valuesResponse struct {
	Values [][]string `json:"values"`
}

// LoadSheet fetches the whole tab and splits it into headers, data rows,
// and the processed-flag column named by processedColumn.
func (c *Client) LoadSheet(ctx context.Context, spreadsheetID, tab, processedColumn string) (*SheetData, error) {
	reqURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s?majorDimension=ROWS",
		c.baseURL, spreadsheetID, url.PathEscape(tab))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build values request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet values: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("sheet values error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("sheet values returned HTTP %d", resp.StatusCode)
	}

	var vr valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode sheet values: %w", err)
	}

	if len(vr.Values) == 0 {
		return nil, fmt.Errorf("sheet %s!%s is empty (no header row)", spreadsheetID, tab)
	}

	data := &SheetData{
		Headers:         vr.Values[0],
		Rows:            vr.Values[1:],
		ProcessedColumn: -1,
	}

	for i, h := range data.Headers {
		if h == processedColumn {
			data.ProcessedColumn = i
			break
		}
	}

	data.Processed = make([]bool, len(data.Rows))
	if data.ProcessedColumn >= 0 {
		for i, row := range data.Rows {
			if data.ProcessedColumn < len(row) {
				data.Processed[i] = strings.EqualFold(strings.TrimSpace(row[data.ProcessedColumn]), processedTrue)
			}
		}
	}

	slog.Debug("sheet loaded",
		"tab", tab,
		"headers", len(data.Headers),
		"rows", len(data.Rows),
	)

	return data, nil
}

// MarkProcessed sets the processed flag of one data row. colIndex is the
// zero-based processed-column index from SheetData; rowIndex is the
// zero-based data row index. Only the single cell is written.
func (c *Client) MarkProcessed(ctx context.Context, spreadsheetID, tab string, colIndex, rowIndex int) error {
	if colIndex < 0 {
		return fmt.Errorf("processed column index %d is invalid", colIndex)
	}

	// Data rows start at sheet row 2 (row 1 is the header).
	cell := fmt.Sprintf("%s!%s%d", tab, columnLetter(colIndex), rowIndex+2)
	reqURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		c.baseURL, spreadsheetID, url.PathEscape(cell))

	payload := map[string]interface{}{
		"range":          cell,
		"majorDimension": "ROWS",
		"values":         [][]string{{processedTrue}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal values update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build values update: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("write processed flag: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Error("values update error", "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("values update returned HTTP %d for %s", resp.StatusCode, cell)
	}

	slog.Debug("row marked processed", "cell", cell)
	return nil
}

// columnLetter converts a zero-based column index to A1 notation
// (0 → A, 25 → Z, 26 → AA).
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
