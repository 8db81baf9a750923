package notion

import (
	"net/http"

	"github.com/pysugar/push-to-notion/internal/auth"
	"golang.org/x/oauth2"
)

// HandleLogin redirects to Notion's consent page. The state carries the
// public URL so the callback can send the user back to the front-end.
func HandleLogin(conf *oauth2.Config, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := auth.State{ReturnURL: publicURL}
		url := conf.AuthCodeURL(state.Encode(), oauth2.SetAuthURLParam("owner", "user"))
		http.Redirect(w, r, url, http.StatusFound)
	}
}
