package domain

// DefaultDeliveryFee is the flat delivery fee in minor currency units.
const DefaultDeliveryFee int64 = 5000

// taxRatePercent is the tax applied on (subtotal + delivery fee).
const taxRatePercent int64 = 5

// Quote is the computed checkout breakdown. Subtotal is the frozen order
// total (or live cart total); fee and tax are quote values computed at read
// time and are not persisted on the order.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Tax         int64 `json:"tax"`
	GrandTotal  int64 `json:"grand_total"`
}

// ComputeQuote builds a checkout quote from a subtotal in minor units. Tax is
// taxRatePercent of (subtotal + fee), rounded half-up to the nearest minor
// unit.
func ComputeQuote(subtotal, deliveryFee int64) Quote {
	taxed := subtotal + deliveryFee
	tax := (taxed*taxRatePercent + 50) / 100
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		GrandTotal:  taxed + tax,
	}
}
