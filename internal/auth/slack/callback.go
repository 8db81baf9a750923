package slack

import (
	"errors"
	"net/http"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/auth"
	"github.com/pysugar/push-to-notion/internal/logging"
)

// HandleCallback completes the Slack OAuth flow for the account named in the
// state and redirects to return_url?user=<id>&slack=1.
func HandleCallback(o *OAuth, linker *accounts.Linker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)
		q := r.URL.Query()

		state, err := auth.DecodeState(q.Get("state"))
		if err == nil && state.User == "" {
			err = errors.New("state has no user")
		}
		if err != nil {
			log.Error("slack oauth: bad state", "error", err)
			http.Error(w, "Invalid state", http.StatusInternalServerError)
			return
		}

		grant, err := o.Exchange(ctx, q.Get("code"))
		if err != nil {
			log.Error("slack oauth: exchange failed", "error", err)
			http.Error(w, "Token exchange failed", http.StatusInternalServerError)
			return
		}

		acc, err := linker.ConnectSlack(ctx, state.User, grant)
		if err != nil {
			log.Error("slack oauth: attach to account failed", "account_id", state.User, "error", err)
			http.Error(w, "Failed to save account", http.StatusInternalServerError)
			return
		}

		location, err := auth.ReturnURL(state.ReturnURL, [2]string{"user", acc.ID}, [2]string{"slack", "1"})
		if err != nil {
			log.Error("slack oauth: bad return_url", "error", err)
			http.Error(w, "Invalid return_url", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, location, http.StatusFound)
	}
}
