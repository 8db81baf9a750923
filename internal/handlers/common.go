// Package handlers contains the HTTP entry points: the Telegram webhook, the
// Slack events endpoint and the direct push endpoint.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/pysugar/push-to-notion/internal/db/models"
)

// maxBodyBytes bounds inbound webhook payloads.
const maxBodyBytes = 1 << 20

// Dispatcher pushes text to an account's Notion page.
type Dispatcher interface {
	Dispatch(ctx context.Context, acc *models.Account, text string) error
}

// inbound is a request flattened the way the webhook senders expect: query
// parameters overlaid by a form or JSON body.
type inbound struct {
	body      []byte
	values    url.Values
	fields    map[string]json.RawMessage
	form      bool
	plainText bool
}

func readInbound(w http.ResponseWriter, r *http.Request) (*inbound, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	in := &inbound{body: body, values: r.URL.Query()}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		for k, v := range form {
			in.values[k] = v
		}
		in.form = true
	case strings.HasPrefix(mediaType, "application/json"):
		if len(bytes.TrimSpace(body)) == 0 {
			break
		}
		if err := json.Unmarshal(body, &in.fields); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case mediaType == "text/plain" || mediaType == "plain/text":
		in.plainText = true
	}
	return in, nil
}

// Get returns a string parameter, preferring the JSON body over the query.
func (in *inbound) Get(key string) string {
	if raw, ok := in.fields[key]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	return in.values.Get(key)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
