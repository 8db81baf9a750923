package notion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/config"
	"golang.org/x/oauth2"
)

// GetOAuthConfig returns the OAuth2 config for the Notion public integration.
func GetOAuthConfig(cfg config.NotionConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// Exchange trades an authorization code for a Notion bot token. The token
// response body is kept verbatim as the grant's raw record.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (accounts.NotionGrant, error) {
	var grant accounts.NotionGrant
	if code == "" {
		return grant, errors.New("missing code")
	}

	capture := &bodyCapture{base: contextTransport(ctx)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: capture, Timeout: 30 * time.Second})

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return grant, fmt.Errorf("notion token exchange: %w", err)
	}
	return grantFromToken(token, capture.body)
}

func grantFromToken(token *oauth2.Token, raw []byte) (accounts.NotionGrant, error) {
	grant := accounts.NotionGrant{AccessToken: token.AccessToken, Raw: string(raw)}

	var ok bool
	if grant.BotID, ok = token.Extra("bot_id").(string); !ok || grant.BotID == "" {
		return grant, errors.New("notion token response missing bot_id")
	}
	if grant.WorkspaceID, ok = token.Extra("workspace_id").(string); !ok || grant.WorkspaceID == "" {
		return grant, errors.New("notion token response missing workspace_id")
	}

	owner, _ := token.Extra("owner").(map[string]any)
	user, _ := owner["user"].(map[string]any)
	if grant.OwnerID, ok = user["id"].(string); !ok || grant.OwnerID == "" {
		return grant, errors.New("notion token response missing owner.user.id")
	}
	return grant, nil
}

// bodyCapture keeps a copy of the last response body it returned.
type bodyCapture struct {
	base http.RoundTripper
	body []byte
}

func (c *bodyCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	c.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// contextTransport honours a client already placed in ctx under oauth2.HTTPClient.
func contextTransport(ctx context.Context) http.RoundTripper {
	if hc, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && hc.Transport != nil {
		return hc.Transport
	}
	return http.DefaultTransport
}
