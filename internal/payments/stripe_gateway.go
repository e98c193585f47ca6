package payments

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stripe/stripe-go/v84"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	stripeclient "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/stripe"
)

// CheckoutSessions is the slice of the Stripe client the gateway needs.
type CheckoutSessions interface {
	CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	sessions CheckoutSessions
	cfg      config.CheckoutConfig
}

// NewStripeGateway adapts the Stripe client to the Gateway contract.
func NewStripeGateway(sessions CheckoutSessions, cfg config.CheckoutConfig) (Gateway, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stripe client is required")
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 15 * time.Second
	}
	return &stripeGateway{sessions: sessions, cfg: cfg}, nil
}

// CreateSession opens a hosted checkout session. The charge call itself is
// never retried: a timed-out create may have succeeded provider-side, and a
// second attempt would risk a double charge.
func (g *stripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if req.AmountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = g.cfg.Currency
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.ProviderTimeout)
	defer cancel()

	session, err := g.sessions.CreateCheckoutSession(ctx, stripeclient.CheckoutSessionParams{
		AmountMinor: req.AmountMinor,
		Currency:    currency,
		ProductName: req.Description,
		CustomerRef: req.CustomerRef,
		SuccessURL:  g.cfg.SuccessURL,
		CancelURL:   g.cfg.CancelURL,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment provider timed out")
		}
		return nil, err
	}

	return &Session{SessionID: session.ID, RedirectURL: session.URL}, nil
}

// Confirm fetches the provider-side session state. Reads are idempotent, so
// transient provider errors are retried with backoff before giving up.
func (g *stripeGateway) Confirm(ctx context.Context, sessionID string, expectedAmountMinor int64) (*ConfirmResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.ProviderTimeout)
	defer cancel()

	var session *stripe.CheckoutSession
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		got, err := g.sessions.GetCheckoutSession(ctx, sessionID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
				return retry.RetryableError(err)
			}
			return err
		}
		session = got
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment provider timed out")
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get checkout session")
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		// A session that is still open can be paid and confirmed later;
		// only an expired session is gone for good.
		return &ConfirmResult{
			Succeeded:   false,
			Terminal:    session.Status == stripe.CheckoutSessionStatusExpired,
			ProviderRef: session.ID,
		}, nil
	}
	if session.AmountTotal != expectedAmountMinor {
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "charged amount does not match checkout amount").
			WithDetails(map[string]any{
				"expectedMinor": expectedAmountMinor,
				"chargedMinor":  session.AmountTotal,
			})
	}

	ref := session.ID
	if session.PaymentIntent != nil {
		ref = session.PaymentIntent.ID
	}
	return &ConfirmResult{Succeeded: true, ProviderRef: ref}, nil
}
