// Package auth holds the pieces shared by the Notion and Slack OAuth flows.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// State is the JSON payload carried through an OAuth round trip in the
// "state" parameter.
type State struct {
	ReturnURL string `json:"return_url"`
	User      string `json:"user,omitempty"`
}

// Encode renders s as the state query value.
func (s State) Encode() string {
	b, _ := json.Marshal(s)
	return string(b)
}

// DecodeState parses a state parameter. return_url is required.
func DecodeState(raw string) (State, error) {
	var s State
	if raw == "" {
		return s, errors.New("missing state")
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return s, fmt.Errorf("decode state: %w", err)
	}
	if s.ReturnURL == "" {
		return s, errors.New("state has no return_url")
	}
	return s, nil
}

// ReturnURL appends params to the state's return URL in the given order,
// keeping any query the URL already carries.
func ReturnURL(base string, params ...[2]string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse return_url: %w", err)
	}
	query := u.RawQuery
	for _, p := range params {
		if query != "" {
			query += "&"
		}
		query += url.QueryEscape(p[0]) + "=" + url.QueryEscape(p[1])
	}
	u.RawQuery = query
	return u.String(), nil
}
