package enums

import "fmt"

// Courier names the delivery providers the shop hands parcels to.
type Courier string

const (
	CourierDomex         Courier = "domex"
	CourierPromptXpress  Courier = "prompt_xpress"
	CourierKoombiyo      Courier = "koombiyo"
	CourierCityPak       Courier = "citypak"
	CourierStoreDelivery Courier = "store_delivery"
)

var validCouriers = []Courier{
	CourierDomex,
	CourierPromptXpress,
	CourierKoombiyo,
	CourierCityPak,
	CourierStoreDelivery,
}

// String implements fmt.Stringer.
func (c Courier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Courier.
func (c Courier) IsValid() bool {
	for _, candidate := range validCouriers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourier converts raw input into a Courier.
func ParseCourier(value string) (Courier, error) {
	for _, candidate := range validCouriers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier %q", value)
}
