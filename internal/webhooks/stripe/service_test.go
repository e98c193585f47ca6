package stripe

import (
	"context"
	"encoding/json"
	"testing"

	stripeapi "github.com/stripe/stripe-go/v84"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/checkout"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
)

type stubCheckout struct {
	confirmed []string
	failed    []string
	confirm   func(ctx context.Context, providerSessionID string) (*models.Order, error)
}

func (s *stubCheckout) Execute(ctx context.Context, input checkout.Input) (*checkout.Result, error) {
	panic("not implemented")
}

func (s *stubCheckout) Confirm(ctx context.Context, providerSessionID string) (*models.Order, error) {
	s.confirmed = append(s.confirmed, providerSessionID)
	if s.confirm != nil {
		return s.confirm(ctx, providerSessionID)
	}
	return &models.Order{OrderID: "ORD-001"}, nil
}

func (s *stubCheckout) Fail(ctx context.Context, providerSessionID string) error {
	s.failed = append(s.failed, providerSessionID)
	return nil
}

func sessionEvent(t *testing.T, eventType, sessionID string) *stripeapi.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"id": sessionID})
	require.NoError(t, err)
	return &stripeapi.Event{
		Type: stripeapi.EventType(eventType),
		Data: &stripeapi.EventData{Raw: raw},
	}
}

func TestCompletedEventConfirmsSession(t *testing.T) {
	cs := &stubCheckout{}
	svc, err := NewService(cs, nil)
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), sessionEvent(t, "checkout.session.completed", "cs_123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_123"}, cs.confirmed)
}

func TestExpiredEventFailsSession(t *testing.T) {
	cs := &stubCheckout{}
	svc, err := NewService(cs, nil)
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), sessionEvent(t, "checkout.session.expired", "cs_123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_123"}, cs.failed)
}

func TestUnknownEventTypeIsIgnored(t *testing.T) {
	cs := &stubCheckout{}
	svc, err := NewService(cs, nil)
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), sessionEvent(t, "invoice.paid", "in_123"))
	require.NoError(t, err)
	assert.Empty(t, cs.confirmed)
	assert.Empty(t, cs.failed)
}

func TestUnknownSessionIsAcknowledged(t *testing.T) {
	cs := &stubCheckout{
		confirm: func(ctx context.Context, providerSessionID string) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		},
	}
	svc, err := NewService(cs, nil)
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), sessionEvent(t, "checkout.session.completed", "cs_unknown"))
	require.NoError(t, err)
}

func TestDependencyErrorPropagatesForRetry(t *testing.T) {
	cs := &stubCheckout{
		confirm: func(ctx context.Context, providerSessionID string) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment provider timed out")
		},
	}
	svc, err := NewService(cs, nil)
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), sessionEvent(t, "checkout.session.completed", "cs_123"))
	require.Error(t, err)
}
