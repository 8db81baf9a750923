package handlers

import (
	"errors"
	"net/http"

	"github.com/pysugar/push-to-notion/internal/accounts"
	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/pysugar/push-to-notion/internal/notion"
)

// PushHandler lets external integrations push text for a known account id.
// Parameters come from the query, a form or JSON body; a text/plain body is
// taken as the text itself.
func PushHandler(store accounts.Store, dispatcher Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)

		in, err := readInbound(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		userID := in.Get("user")
		if userID == "" {
			http.Error(w, "expected parameter: user", http.StatusBadRequest)
			return
		}
		acc, err := store.Get(ctx, userID)
		if errors.Is(err, accounts.ErrNotFound) {
			http.Error(w, "Unknown user", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("push: account lookup failed", "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		text := in.Get("text")
		if text == "" && in.plainText {
			text = string(in.body)
		}
		if text == "" {
			http.Error(w, "expected parameter: text", http.StatusBadRequest)
			return
		}

		err = dispatcher.Dispatch(ctx, acc, text)
		var de *notion.DispatchError
		switch {
		case errors.As(err, &de):
			http.Error(w, de.Error(), http.StatusConflict)
			return
		case err != nil:
			log.Error("push: dispatch failed", "account_id", acc.ID, "error", err)
			http.Error(w, "Failed to push to Notion", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}
