package slack

import (
	"net/http"

	"github.com/pysugar/push-to-notion/internal/auth"
)

// HandleLogin redirects an already connected account (?user=<id>) to the
// Slack consent page.
func HandleLogin(o *OAuth, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		if user == "" {
			http.Error(w, "expected parameter: user", http.StatusBadRequest)
			return
		}
		state := auth.State{ReturnURL: publicURL, User: user}
		http.Redirect(w, r, o.AuthorizeURL(state.Encode()), http.StatusFound)
	}
}
