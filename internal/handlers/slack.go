package handlers

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/pysugar/push-to-notion/internal/notion"
	slackAPI "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// SlackEventsHandler serves both the Events API and slash commands.
//
// Every request must carry the app's verification token; requests that do not
// are acknowledged with an empty 200 and otherwise ignored.
func SlackEventsHandler(verificationToken string, store accounts.Store, dispatcher Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)

		in, err := readInbound(w, r)
		if err != nil {
			log.Error("slack webhook: unreadable request", "error", err)
			w.WriteHeader(http.StatusOK)
			return
		}
		if !validToken(in.Get("token"), verificationToken) {
			log.Error("slack webhook: missing or invalid verification token")
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Info("slack request", "body", logging.Body(in.body))

		switch {
		case in.form && in.Get("command") != "":
			r.Body = io.NopCloser(bytes.NewReader(in.body))
			cmd, err := slackAPI.SlashCommandParse(r)
			if err != nil {
				log.Error("slack webhook: invalid slash command", "error", err)
				break
			}
			err = pushFromTeam(ctx, store, dispatcher, cmd.TeamID, cmd.UserID, cmd.Text)
			var de *notion.DispatchError
			if errors.As(err, &de) {
				log.Warn("slack push rejected", "team_id", cmd.TeamID, "reason", de.Error())
				// The response body is shown to the user who ran the command.
				writeJSON(w, http.StatusOK, slashReply{ResponseType: slackAPI.ResponseTypeEphemeral, Text: de.Error()})
				return
			}
			if err != nil {
				log.Error("slack webhook: slash command failed", "team_id", cmd.TeamID, "error", err)
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}

		case in.Get("type") == slackevents.URLVerification:
			writeJSON(w, http.StatusOK, challengeResponse{Challenge: in.Get("challenge")})
			return

		case in.Get("type") == slackevents.CallbackEvent:
			if err := handleSlackEvent(ctx, store, dispatcher, in.body); err != nil {
				log.Error("slack webhook: event failed", "error", err)
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func handleSlackEvent(ctx context.Context, store accounts.Store, dispatcher Dispatcher, body []byte) error {
	evt, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logging.FromContext(ctx).Warn("slack webhook: unparseable event", "error", err)
		return nil
	}

	switch ev := evt.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if !userMessage(ev) {
			return nil
		}
		err = pushFromTeam(ctx, store, dispatcher, evt.TeamID, ev.User, ev.Text)
	case *slackevents.AppMentionEvent:
		if ev.BotID != "" {
			return nil
		}
		err = pushFromTeam(ctx, store, dispatcher, evt.TeamID, ev.User, ev.Text)
	}

	var de *notion.DispatchError
	if errors.As(err, &de) {
		logging.FromContext(ctx).Warn("slack push rejected", "team_id", evt.TeamID, "reason", de.Error())
		return nil
	}
	return err
}

// userMessage reports whether ev was typed by a person. Joins, edits, deletes
// and bot posts arrive as message events too.
func userMessage(ev *slackevents.MessageEvent) bool {
	if ev.BotID != "" {
		return false
	}
	switch ev.SubType {
	case "", slackAPI.MsgSubTypeThreadBroadcast, slackAPI.MsgSubTypeFileShare:
		return true
	}
	return false
}

// pushFromTeam dispatches text for the account linked to teamID. Unknown teams
// are logged, not returned; a *notion.DispatchError is left to the caller.
func pushFromTeam(ctx context.Context, store accounts.Store, dispatcher Dispatcher, teamID, senderID, text string) error {
	log := logging.FromContext(ctx)
	if text == "" {
		return nil
	}

	acc, err := store.First(ctx, accounts.BySlackTeam, teamID)
	if errors.Is(err, accounts.ErrNotFound) {
		log.Error("slack webhook: unknown team", "team_id", teamID)
		return nil
	}
	if err != nil {
		return err
	}

	return dispatcher.Dispatch(ctx, acc, annotateSender(acc, senderID, text))
}

// annotateSender marks text sent by someone other than the user who installed
// the app, since other members of the team are not tracked individually.
func annotateSender(acc *models.Account, senderID, text string) string {
	if senderID != models.Deref(acc.SlackUserID) {
		return text + " (from @<" + senderID + ">)"
	}
	return text
}

// challengeResponse answers url_verification. slackevents.ChallengeResponse
// has no json tags and would encode the key as "Challenge".
type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type slashReply struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func validToken(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
