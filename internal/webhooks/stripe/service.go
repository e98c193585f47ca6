package stripe

import (
	"context"
	"encoding/json"

	stripeapi "github.com/stripe/stripe-go/v84"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/checkout"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
)

// Service reacts to verified Stripe events. Signature verification happens
// at the HTTP layer; by the time an event reaches HandleEvent it is trusted.
type Service interface {
	HandleEvent(ctx context.Context, event *stripeapi.Event) error
}

type service struct {
	checkout checkout.Service
	logger   *logger.Logger
}

// NewService builds the Stripe webhook service.
func NewService(checkoutSvc checkout.Service, logg *logger.Logger) (Service, error) {
	if checkoutSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout service is required")
	}
	return &service{checkout: checkoutSvc, logger: logg}, nil
}

// HandleEvent finalizes or fails the checkout session an event refers to.
// Events for sessions this system never opened are acknowledged and dropped,
// otherwise Stripe would retry them forever.
func (s *service) HandleEvent(ctx context.Context, event *stripeapi.Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		session, err := parseSession(event)
		if err != nil {
			return err
		}
		_, err = s.checkout.Confirm(ctx, session.ID)
		return s.ignoreUnknownSession(ctx, session.ID, err)

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		session, err := parseSession(event)
		if err != nil {
			return err
		}
		err = s.checkout.Fail(ctx, session.ID)
		return s.ignoreUnknownSession(ctx, session.ID, err)

	default:
		if s.logger != nil {
			s.logger.Info(s.logger.WithField(ctx, "event_type", string(event.Type)), "ignoring stripe event")
		}
		return nil
	}
}

func parseSession(event *stripeapi.Event) (*stripeapi.CheckoutSession, error) {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed checkout session payload")
	}
	return &session, nil
}

func (s *service) ignoreUnknownSession(ctx context.Context, sessionID string, err error) error {
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
		if s.logger != nil {
			s.logger.Warn(s.logger.WithField(ctx, "session_id", sessionID), "stripe event for unknown checkout session")
		}
		return nil
	}
	return err
}
