// Package notion implements the Notion OAuth login and callback endpoints.
package notion

import (
	"net/http"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/auth"
	"github.com/pysugar/push-to-notion/internal/logging"
	"golang.org/x/oauth2"
)

// HandleCallback completes the Notion OAuth flow: it exchanges the code,
// creates or refreshes the account owning the bot and redirects to
// return_url?user=<id>. Failures are logged and answered with 500.
func HandleCallback(conf *oauth2.Config, linker *accounts.Linker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)
		q := r.URL.Query()

		state, err := auth.DecodeState(q.Get("state"))
		if err != nil {
			log.Error("notion oauth: bad state", "error", err)
			http.Error(w, "Invalid state", http.StatusInternalServerError)
			return
		}

		grant, err := Exchange(ctx, conf, q.Get("code"))
		if err != nil {
			log.Error("notion oauth: exchange failed", "error", err)
			http.Error(w, "Token exchange failed", http.StatusInternalServerError)
			return
		}

		acc, _, err := linker.ConnectNotion(ctx, grant)
		if err != nil {
			log.Error("notion oauth: save account failed", "error", err)
			http.Error(w, "Failed to save account", http.StatusInternalServerError)
			return
		}

		location, err := auth.ReturnURL(state.ReturnURL, [2]string{"user", acc.ID})
		if err != nil {
			log.Error("notion oauth: bad return_url", "error", err)
			http.Error(w, "Invalid return_url", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, location, http.StatusFound)
	}
}
