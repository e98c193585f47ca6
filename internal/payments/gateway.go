package payments

import (
	"context"
)

// Session is the provider-side handle for a card checkout in progress.
type Session struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// ConfirmResult reports the provider-side state of a checkout session.
// Succeeded false with Terminal false means the shopper has not finished
// paying yet and the session can still settle; Terminal true means the
// provider will never collect payment for it. Provider outages surface as
// errors instead.
type ConfirmResult struct {
	Succeeded   bool
	Terminal    bool
	ProviderRef string
}

// SessionRequest describes the single charge a checkout needs.
type SessionRequest struct {
	AmountMinor int64
	Currency    string
	Description string
	CustomerRef string
}

// Gateway abstracts the card payment provider. Amounts cross this boundary
// only as integer minor units; decimal arithmetic stays on the caller's side.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	Confirm(ctx context.Context, sessionID string, expectedAmountMinor int64) (*ConfirmResult, error)
}
