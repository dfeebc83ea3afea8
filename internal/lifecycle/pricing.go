package lifecycle

import (
	"math"

	"servicehub/internal/domain"
)

// PriceInput is everything the calculator needs. Ride is required for cab
// properties and ignored otherwise.
type PriceInput struct {
	Property *domain.Property
	Service  *domain.OfferedService
	Ride     *domain.RideDetails
}

// Quote is the price breakdown persisted on a booking.
type Quote struct {
	BasePrice        float64 `json:"base_price"`
	ServiceSurcharge float64 `json:"service_surcharge"`
	Subtotal         float64 `json:"subtotal"`
	DiscountAmount   float64 `json:"discount_amount"`
	FinalPrice       float64 `json:"final_price"`
}

// BasePrice returns the department-specific base amount. For cabs it is
// rate(category) × distance, where a missing category rate falls back to the
// property's base price used as the per-km rate.
func BasePrice(in PriceInput) (float64, error) {
	p := in.Property
	if p == nil {
		return 0, domain.Validation("property is required")
	}

	switch p.Department {
	case domain.DepartmentHotel, domain.DepartmentSalon, domain.DepartmentHospital:
		if p.BasePrice < 0 {
			return 0, domain.NewError(domain.KindInvalidRateConfiguration, "property %d has a negative base price", p.ID)
		}
		return p.BasePrice, nil

	case domain.DepartmentCab:
		if in.Ride == nil {
			return 0, domain.Validation("ride details are required for cab pricing")
		}
		if !in.Ride.Category.Valid() {
			return 0, domain.Validation("unknown cab category %q", in.Ride.Category)
		}
		if in.Ride.DistanceKm <= 0 {
			return 0, domain.Validation("distance must be positive")
		}
		rate, ok := p.CabRates[in.Ride.Category]
		if !ok || rate <= 0 {
			rate = p.BasePrice
		}
		if rate <= 0 {
			return 0, domain.NewError(domain.KindInvalidRateConfiguration,
				"no rate configured for category %s and no base price fallback", in.Ride.Category)
		}
		return round2(rate * in.Ride.DistanceKm), nil
	}

	return 0, domain.Validation("unknown department %q", p.Department)
}

// ComputeTotal returns the pre-discount total: base amount plus the selected
// service's price.
func ComputeTotal(in PriceInput) (float64, error) {
	base, err := BasePrice(in)
	if err != nil {
		return 0, err
	}
	return round2(base + surcharge(in.Service)), nil
}

// PriceBooking computes the full breakdown with an already validated discount.
// The discount is capped so the final price never goes below zero.
func PriceBooking(in PriceInput, discount float64) (Quote, error) {
	base, err := BasePrice(in)
	if err != nil {
		return Quote{}, err
	}
	return Compose(base, surcharge(in.Service), discount), nil
}

// Compose enforces final = base + surcharge - discount, never negative.
func Compose(base, serviceSurcharge, discount float64) Quote {
	subtotal := round2(base + serviceSurcharge)
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	discount = round2(discount)
	return Quote{
		BasePrice:        round2(base),
		ServiceSurcharge: round2(serviceSurcharge),
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		FinalPrice:       round2(math.Max(0, subtotal-discount)),
	}
}

func surcharge(s *domain.OfferedService) float64 {
	if s == nil || s.Price < 0 {
		return 0
	}
	return s.Price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
