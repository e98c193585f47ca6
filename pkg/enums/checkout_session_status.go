package enums

import "fmt"

// CheckoutSessionStatus tracks a card checkout session awaiting provider
// confirmation.
type CheckoutSessionStatus string

const (
	CheckoutSessionStatusOpen    CheckoutSessionStatus = "open"
	CheckoutSessionStatusSettled CheckoutSessionStatus = "settled"
	CheckoutSessionStatusFailed  CheckoutSessionStatus = "failed"
)

var validCheckoutSessionStatuses = []CheckoutSessionStatus{
	CheckoutSessionStatusOpen,
	CheckoutSessionStatusSettled,
	CheckoutSessionStatusFailed,
}

// String implements fmt.Stringer.
func (c CheckoutSessionStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutSessionStatus.
func (c CheckoutSessionStatus) IsValid() bool {
	for _, candidate := range validCheckoutSessionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutSessionStatus converts raw input into a CheckoutSessionStatus.
func ParseCheckoutSessionStatus(value string) (CheckoutSessionStatus, error) {
	for _, candidate := range validCheckoutSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout session status %q", value)
}
