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

// Package notify posts pipeline notifications to a chat webhook. Delivery
// is best-effort and fire-and-forget: failures are logged and swallowed,
// since there is no secondary channel to escalate to.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Embed colors used across the pipeline.
const (
	ColorRed   = 0xCC3333
	ColorGreen = 0x2E8B57
	ColorGold  = 0xD4A017
	ColorBlue  = 0x3366CC
)

// Webhook posts embed messages to a single chat webhook URL.
type Webhook struct {
	httpClient *http.Client
	url        string
}

// NewWebhook creates a webhook sink.
func NewWebhook(httpClient *http.Client, url string) *Webhook {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Webhook{
		httpClient: httpClient,
		url:        url,
	}
}

// embed is the chat platform's embed object.
type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// message is the webhook payload.
type message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

// Notify posts one embed. Mentions are prepended as the message content so
// the platform pings the audience roles. Errors are logged, never returned
// and never retried.
func (w *Webhook) Notify(ctx context.Context, mentions []string, title, body string, color int) {
	payload := message{
		Content: strings.Join(mentions, " "),
		Embeds: []embed{{
			Title:       title,
			Description: body,
			Color:       color,
		}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal notification", "title", title, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		slog.Error("build notification request", "title", title, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		slog.Warn("notification delivery failed", "title", title, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		slog.Warn("notification rejected",
			"title", title,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
	}
}
