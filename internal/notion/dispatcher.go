package notion

import (
	"context"
	"encoding/json"

	"github.com/pysugar/push-to-notion/internal/db/models"
	"github.com/pysugar/push-to-notion/internal/logging"
)

// DispatchErrorKind classifies why a message could not be placed on a page.
type DispatchErrorKind int

const (
	NotConnected DispatchErrorKind = iota + 1
	NoPage
	AmbiguousPage
)

// DispatchError is a user-facing failure. Its message is meant to be sent
// back to the chat the message came from.
type DispatchError struct {
	Kind  DispatchErrorKind
	Pages int
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case NotConnected:
		return "Notion is not connected"
	case NoPage:
		return "No access to any page"
	case AmbiguousPage:
		return "More than one page is accessible, ignoring"
	default:
		return "Unable to deliver to Notion"
	}
}

// PageAPI is the part of the Notion API the dispatcher uses.
type PageAPI interface {
	SearchPages(ctx context.Context, token string) ([]Page, error)
	AppendToDo(ctx context.Context, token, pageID, text string) (json.RawMessage, error)
}

// Dispatcher appends messages to an account's single accessible page.
type Dispatcher struct {
	api PageAPI
}

// NewDispatcher creates a dispatcher using api.
func NewDispatcher(api PageAPI) *Dispatcher {
	return &Dispatcher{api: api}
}

// Dispatch appends text as an unchecked to-do to the only page the account can
// access. It returns *DispatchError when there is no token, no page or more
// than one page; any other error comes from the Notion API or transport.
func (d *Dispatcher) Dispatch(ctx context.Context, acc *models.Account, text string) error {
	token := models.Deref(acc.NotionAccessToken)
	if token == "" {
		return &DispatchError{Kind: NotConnected}
	}

	page, err := d.primaryPage(ctx, token)
	if err != nil {
		return err
	}

	resp, err := d.api.AppendToDo(ctx, token, page.ID, text)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("appended to notion", "account_id", acc.ID, "page_id", page.ID, "response", logging.Body(resp))
	return nil
}

func (d *Dispatcher) primaryPage(ctx context.Context, token string) (*Page, error) {
	pages, err := d.api.SearchPages(ctx, token)
	if err != nil {
		return nil, err
	}
	switch len(pages) {
	case 0:
		return nil, &DispatchError{Kind: NoPage}
	case 1:
		return &pages[0], nil
	default:
		return nil, &DispatchError{Kind: AmbiguousPage, Pages: len(pages)}
	}
}
