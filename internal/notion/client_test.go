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

package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TestGetDatabase verifies schema flattening, including select and
// multi_select options.
func TestGetDatabase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/databases/db-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Notion-Version") == "" {
			t.Error("missing Notion-Version header")
		}
		w.Write([]byte(`{
			"id": "db-1",
			"properties": {
				"Name": {"type": "title"},
				"TAP Status": {"type": "select", "select": {"options": [{"name": "TODO"}, {"name": "N/A"}]}},
				"Organizations": {"type": "multi_select", "multi_select": {"options": [{"name": "Robotics Club"}]}}
			}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)

	db, err := c.GetDatabase(context.Background(), "db-1")
	if err != nil {
		t.Fatalf("GetDatabase: %v", err)
	}
	if db.ID != "db-1" {
		t.Errorf("ID = %q", db.ID)
	}
	if len(db.Properties) != 3 {
		t.Fatalf("properties = %d, want 3", len(db.Properties))
	}

	byName := map[string][]string{}
	for _, p := range db.Properties {
		byName[p.Name] = p.Options
	}
	if got := byName["TAP Status"]; len(got) != 2 || got[0] != "TODO" {
		t.Errorf("TAP Status options = %v", got)
	}
	if got := byName["Organizations"]; len(got) != 1 || got[0] != "Robotics Club" {
		t.Errorf("Organizations options = %v", got)
	}
}

// TestCreatePage verifies the parent/properties payload shape and ID
// capture.
func TestCreatePage(t *testing.T) {
	var mu sync.Mutex
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.URL.Path != "/pages" || r.Method != http.MethodPost {
			t.Errorf("%s %s, want POST /pages", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id": "page-1", "url": "https://store.example/page-1"}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)

	page, err := c.CreatePage(context.Background(), "db-1", Props{"Name": Title("Soldering")})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.ID != "page-1" || page.URL != "https://store.example/page-1" {
		t.Errorf("page = %+v", page)
	}

	mu.Lock()
	defer mu.Unlock()
	parent, _ := gotBody["parent"].(map[string]interface{})
	if parent["database_id"] != "db-1" {
		t.Errorf("parent = %v", parent)
	}
	if _, ok := gotBody["properties"]; !ok {
		t.Error("missing properties in payload")
	}
}

// TestCreateLinkedChild verifies the relation back to the parent is
// injected into the child's properties.
func TestCreateLinkedChild(t *testing.T) {
	var mu sync.Mutex
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id": "child-1"}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)

	page, err := c.CreateLinkedChild(context.Background(), "db-2", "page-1", "Calendar Event",
		Props{"Name": Title("Soldering")})
	if err != nil {
		t.Fatalf("CreateLinkedChild: %v", err)
	}
	if page.ID != "child-1" {
		t.Errorf("ID = %q", page.ID)
	}

	mu.Lock()
	defer mu.Unlock()
	props, _ := gotBody["properties"].(map[string]interface{})
	rel, _ := props["Calendar Event"].(map[string]interface{})
	refs, _ := rel["relation"].([]interface{})
	if len(refs) != 1 {
		t.Fatalf("relation = %v", rel)
	}
	ref, _ := refs[0].(map[string]interface{})
	if ref["id"] != "page-1" {
		t.Errorf("relation target = %v, want page-1", ref["id"])
	}
}

// TestCreateLinkedChild_NoParent verifies the child can never be created
// before its parent exists.
func TestCreateLinkedChild_NoParent(t *testing.T) {
	c := NewClient(http.DefaultClient, "http://unused.invalid")

	if _, err := c.CreateLinkedChild(context.Background(), "db-2", "", "Calendar Event", Props{}); err == nil {
		t.Fatal("expected error for empty parent ID")
	}
}

// TestQuery_Pagination verifies the cursor loop collects every result page.
func TestQuery_Pagination(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls++

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)

		if calls == 1 {
			if _, ok := body["start_cursor"]; ok {
				t.Error("first query must not carry a cursor")
			}
			w.Write([]byte(`{"results": [{"id": "p1"}, {"id": "p2"}], "has_more": true, "next_cursor": "cur-1"}`))
			return
		}
		if body["start_cursor"] != "cur-1" {
			t.Errorf("cursor = %v, want cur-1", body["start_cursor"])
		}
		w.Write([]byte(`{"results": [{"id": "p3"}], "has_more": false}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)

	pages, err := c.Query(context.Background(), "db-1", DateEquals("Date", "2026-09-10"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	if pages[2].ID != "p3" {
		t.Errorf("last page = %q", pages[2].ID)
	}
}

// TestFilterJSON verifies the nested OR-of-ANDs structure serializes into
// the store's filter shape.
func TestFilterJSON(t *testing.T) {
	f := Or(
		And(DateEquals("Date", "2026-09-10"), SelectEquals("TAP Status", "TODO")),
		And(DateEquals("Date", "2026-09-24"), SelectEquals("Funding Status", "TODO")),
	)

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	or, ok := decoded["or"].([]interface{})
	if !ok || len(or) != 2 {
		t.Fatalf("or = %v", decoded["or"])
	}
	leg, _ := or[0].(map[string]interface{})
	and, ok := leg["and"].([]interface{})
	if !ok || len(and) != 2 {
		t.Fatalf("and = %v", leg["and"])
	}
	leaf, _ := and[1].(map[string]interface{})
	if leaf["property"] != "TAP Status" {
		t.Errorf("leaf property = %v", leaf["property"])
	}
}

// TestPageHelpers verifies the decode helpers on queried pages.
func TestPageHelpers(t *testing.T) {
	raw := `{
		"id": "p1",
		"properties": {
			"Name": {"type": "title", "title": [{"plain_text": "Intro to "}, {"plain_text": "Soldering"}]},
			"Date": {"type": "date", "date": {"start": "2026-09-10T18:00:00Z"}},
			"TAP Status": {"type": "select", "select": {"name": "TODO"}},
			"Funding Status": {"type": "select", "select": null}
		}
	}`

	var page Page
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := page.PlainText("Name"); got != "Intro to Soldering" {
		t.Errorf("PlainText = %q", got)
	}
	if got := page.DateStart("Date"); got != "2026-09-10T18:00:00Z" {
		t.Errorf("DateStart = %q", got)
	}
	if got := page.SelectValue("TAP Status"); got != "TODO" {
		t.Errorf("SelectValue = %q", got)
	}
	if got := page.SelectValue("Funding Status"); got != "" {
		t.Errorf("unset select = %q, want empty", got)
	}
	if got := page.SelectValue("Missing"); got != "" {
		t.Errorf("missing property = %q, want empty", got)
	}
}

// TestErrorStatus verifies non-200 responses surface as errors.
func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "validation_error"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL)

	if _, err := c.GetDatabase(context.Background(), "db-1"); err == nil {
		t.Fatal("expected error for HTTP 400")
	}
}
