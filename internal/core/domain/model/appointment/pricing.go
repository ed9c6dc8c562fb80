package appointment

const (
	// TaxRate is the tax applied to the subtotal (base plus additional
	// services). Fixed business value carried over from the billing rules.
	TaxRate = 0.16

	// DefaultBasePrice is the flat price of the mandatory verification
	// service.
	DefaultBasePrice = 500.0
)

// Pricing is the derived price breakdown of an appointment. It is
// recomputed whenever the service list changes and never edited directly,
// which keeps total = basePrice + additional + taxes by construction.
type Pricing struct {
	basePrice       float64
	additionalPrice float64
	taxes           float64
	total           float64
}

// ComputePricing derives the pricing from the base price and the current
// additional services: taxes are TaxRate of the subtotal.
func ComputePricing(basePrice float64, services []*ServiceItem) Pricing {
	var additional float64
	for _, item := range services {
		additional += item.Price()
	}

	subtotal := basePrice + additional
	taxes := subtotal * TaxRate

	return Pricing{
		basePrice:       basePrice,
		additionalPrice: additional,
		taxes:           taxes,
		total:           subtotal + taxes,
	}
}

// RestorePricing reconstructs a pricing breakdown from persistence.
func RestorePricing(basePrice, additionalPrice, taxes, total float64) Pricing {
	return Pricing{
		basePrice:       basePrice,
		additionalPrice: additionalPrice,
		taxes:           taxes,
		total:           total,
	}
}

// BasePrice returns the base verification price.
func (p Pricing) BasePrice() float64 { return p.basePrice }

// AdditionalPrice returns the sum of additional service prices.
func (p Pricing) AdditionalPrice() float64 { return p.additionalPrice }

// Taxes returns the tax amount.
func (p Pricing) Taxes() float64 { return p.taxes }

// Total returns the grand total.
func (p Pricing) Total() float64 { return p.total }
