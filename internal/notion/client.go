// Package notion talks to the Notion REST API and appends inbound messages
// to an account's page as to-do blocks.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/pysugar/push-to-notion/internal/version"
)

// APIVersion is sent as the Notion-Version header on every call.
const APIVersion = "2022-06-28"

// APIError is a non-2xx response from Notion.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Page is the subset of a Notion page object the dispatcher needs.
type Page struct {
	ID             string    `json:"id"`
	Object         string    `json:"object"`
	URL            string    `json:"url,omitempty"`
	LastEditedTime time.Time `json:"last_edited_time"`
}

// Client handles communication with the Notion API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL, e.g. https://api.notion.com/v1.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Filter *searchFilter `json:"filter,omitempty"`
	Sort   *searchSort   `json:"sort,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchSort struct {
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
}

type searchResponse struct {
	Results []Page `json:"results"`
}

// SearchPages lists every page the token can access, most recently edited first.
func (c *Client) SearchPages(ctx context.Context, token string) ([]Page, error) {
	body := searchRequest{
		Filter: &searchFilter{Property: "object", Value: "page"},
		Sort:   &searchSort{Direction: "descending", Timestamp: "last_edited_time"},
	}
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/search", token, body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

type richText struct {
	Type string       `json:"type"`
	Text richTextBody `json:"text"`
}

type richTextBody struct {
	Content string `json:"content"`
}

type toDo struct {
	RichText []richText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color"`
}

type toDoBlock struct {
	Type string `json:"type"`
	ToDo toDo   `json:"to_do"`
}

type appendChildrenRequest struct {
	Children []toDoBlock `json:"children"`
}

// newToDo builds an unchecked, default-coloured to-do block holding text.
func newToDo(text string) toDoBlock {
	return toDoBlock{
		Type: "to_do",
		ToDo: toDo{
			RichText: []richText{{Type: "text", Text: richTextBody{Content: text}}},
			Checked:  false,
			Color:    "default",
		},
	}
}

// AppendToDo appends one to-do block containing text to the page.
func (c *Client) AppendToDo(ctx context.Context, token, pageID, text string) (json.RawMessage, error) {
	body := appendChildrenRequest{Children: []toDoBlock{newToDo(text)}}
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+pageID+"/children", token, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode notion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "push-to-notion/"+version.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read notion response: %w", err)
	}
	logging.FromContext(ctx).Debug("notion response", "method", method, "path", path, "status", resp.StatusCode, "body", logging.Body(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: logging.Body(respBody)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode notion response: %w", err)
	}
	return nil
}
