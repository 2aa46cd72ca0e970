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

// Package notion is the calendar/document store client. It fetches database
// schemas, creates calendar pages and their linked hosted-event child pages,
// and runs batched queries with composable AND/OR filters.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/campuscal/eventsync/internal/schema"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.notion.com/v1"

// apiVersion is sent as the Notion-Version header on every request.
const apiVersion = "2022-06-28"

// Client talks to the document store API. The HTTP client is expected to
// carry a bearer token (oauth2 static token source).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a document store client. baseURL is overridable for tests.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Database is a fetched database schema, flattened to the snapshot's
// property shape so the store guard can diff it directly.
type Database struct {
	ID         string
	Properties []schema.Property
}

// Page is a created or queried page.
type Page struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url"`
	Properties map[string]PropertyValue `json:"properties"`
}

// PropertyValue is one property of a queried page, decoded just far enough
// for the deadline partitioning and display code.
type PropertyValue struct {
	Type     string        `json:"type"`
	Title    []richText    `json:"title"`
	RichText []richText    `json:"rich_text"`
	Select   *selectOption `json:"select"`
	Date     *dateValue    `json:"date"`
	URL      *string       `json:"url"`
	Number   *float64      `json:"number"`
	Checkbox *bool         `json:"checkbox"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SelectValue returns the select value of a property, or "" when the
// property is absent or unset.
func (p *Page) SelectValue(property string) string {
	pv, ok := p.Properties[property]
	if !ok || pv.Select == nil {
		return ""
	}
	return pv.Select.Name
}

// DateStart returns the start of a date property, or "".
func (p *Page) DateStart(property string) string {
	pv, ok := p.Properties[property]
	if !ok || pv.Date == nil {
		return ""
	}
	return pv.Date.Start
}

// PlainText returns the concatenated plain text of a title or rich_text
// property, or "".
func (p *Page) PlainText(property string) string {
	pv, ok := p.Properties[property]
	if !ok {
		return ""
	}
	parts := pv.Title
	if len(parts) == 0 {
		parts = pv.RichText
	}
	out := ""
	for _, t := range parts {
		out += t.PlainText
	}
	return out
}

// databaseResponse mirrors the GET /databases/{id} response.
type databaseResponse struct {
	ID         string `json:"id"`
	Properties map[string]struct {
		Type   string `json:"type"`
		Select struct {
			Options []selectOption `json:"options"`
		} `json:"select"`
		MultiSelect struct {
			Options []selectOption `json:"options"`
		} `json:"multi_select"`
	} `json:"properties"`
}

// GetDatabase fetches a database's live schema.
func (c *Client) GetDatabase(ctx context.Context, databaseID string) (*Database, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/databases/%s", databaseID), nil)
	if err != nil {
		return nil, err
	}

	var dr databaseResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("decode database schema: %w", err)
	}

	db := &Database{ID: dr.ID}
	for name, p := range dr.Properties {
		prop := schema.Property{Name: name, Type: p.Type}
		for _, o := range p.Select.Options {
			prop.Options = append(prop.Options, o.Name)
		}
		for _, o := range p.MultiSelect.Options {
			prop.Options = append(prop.Options, o.Name)
		}
		db.Properties = append(db.Properties, prop)
	}

	return db, nil
}

// CreatePage creates a page in a database and returns its assigned ID and URL.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props Props) (*Page, error) {
	payload := map[string]interface{}{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": props,
	}

	body, err := c.do(ctx, http.MethodPost, "/pages", payload)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode created page: %w", err)
	}

	slog.Debug("page created", "database", databaseID, "page", page.ID)
	return &page, nil
}

// CreateLinkedChild creates a child page carrying a relation back to an
// already-created parent page. The parent ID is mandatory: the child stores
// it, so it can never be created first.
func (c *Client) CreateLinkedChild(ctx context.Context, databaseID, parentID, relationProperty string, props Props) (*Page, error) {
	if parentID == "" {
		return nil, fmt.Errorf("linked child requires an existing parent page ID")
	}

	linked := make(Props, len(props)+1)
	for k, v := range props {
		linked[k] = v
	}
	linked[relationProperty] = Relation(parentID)

	return c.CreatePage(ctx, databaseID, linked)
}

// queryResponse mirrors one page of the query endpoint response.
type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// Query runs a database query with the given filter and returns all result
// pages, following the cursor when the result set spans multiple pages.
func (c *Client) Query(ctx context.Context, databaseID string, filter Filter) ([]Page, error) {
	var all []Page
	cursor := ""

	for {
		payload := map[string]interface{}{"filter": filter}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}

		body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/databases/%s/query", databaseID), payload)
		if err != nil {
			return nil, err
		}

		var qr queryResponse
		if err := json.Unmarshal(body, &qr); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}

		all = append(all, qr.Results...)
		if !qr.HasMore {
			break
		}
		cursor = qr.NextCursor
	}

	return all, nil
}

// do runs one API request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Notion-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("store API error", "method", method, "path", path, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%s %s returned HTTP %d", method, path, resp.StatusCode)
	}

	return body, nil
}
