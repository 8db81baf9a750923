// Package slack implements the Slack OAuth login and callback endpoints.
package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/config"
	slackAPI "github.com/slack-go/slack"
	"golang.org/x/oauth2"
)

// Doer sends HTTP requests; *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// OAuth exchanges Slack authorization codes for bot and user tokens.
type OAuth struct {
	cfg    config.SlackConfig
	conf   *oauth2.Config
	client Doer
}

// NewOAuth creates an exchanger. A nil client uses a 30s-timeout http.Client.
func NewOAuth(cfg config.SlackConfig, client Doer) *OAuth {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuth{cfg: cfg, conf: oauthConfig(cfg), client: client}
}

// AuthorizeURL is the Slack consent page URL for state. Slack takes
// comma-separated scope lists, so they are passed as raw parameters.
func (o *OAuth) AuthorizeURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("scope", strings.Join(o.cfg.Scopes, ","))}
	if len(o.cfg.UserScopes) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("user_scope", strings.Join(o.cfg.UserScopes, ",")))
	}
	return o.conf.AuthCodeURL(state, opts...)
}

func oauthConfig(cfg config.SlackConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     oauth2.Endpoint{AuthURL: cfg.AuthURL},
	}
}

// Exchange calls oauth.v2.access and validates the fields the account needs.
func (o *OAuth) Exchange(ctx context.Context, code string) (accounts.SlackGrant, error) {
	var grant accounts.SlackGrant
	if code == "" {
		return grant, errors.New("missing code")
	}

	resp, err := slackAPI.GetOAuthV2ResponseContext(ctx, o.client, o.cfg.ClientID, o.cfg.ClientSecret, code, o.cfg.RedirectURI)
	if err != nil {
		return grant, fmt.Errorf("slack oauth.v2.access: %w", err)
	}
	return grantFromResponse(resp)
}

func grantFromResponse(resp *slackAPI.OAuthV2Response) (accounts.SlackGrant, error) {
	grant := accounts.SlackGrant{
		TeamID:          resp.Team.ID,
		TeamName:        resp.Team.Name,
		BotID:           resp.BotUserID,
		BotAccessToken:  resp.AccessToken,
		UserID:          resp.AuthedUser.ID,
		UserAccessToken: resp.AuthedUser.AccessToken,
	}

	switch {
	case grant.TeamID == "":
		return grant, errors.New("slack oauth response missing team.id")
	case grant.BotID == "":
		return grant, errors.New("slack oauth response missing bot_user_id")
	case grant.BotAccessToken == "":
		return grant, errors.New("slack oauth response missing access_token")
	case grant.UserID == "":
		return grant, errors.New("slack oauth response missing authed_user.id")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return grant, fmt.Errorf("encode slack oauth response: %w", err)
	}
	grant.Raw = string(raw)
	return grant, nil
}
