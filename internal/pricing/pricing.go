// Package pricing holds the voucher discount arithmetic shared by the booking
// API and the booking form. Amounts are integer cents.
package pricing

import (
	"fmt"
	"math"
)

// MaxPercentage is the largest discount a voucher may grant.
const MaxPercentage = 100

// Quote is the price breakdown for one service with an optional voucher.
type Quote struct {
	OriginalCents int64
	Percentage    int
	DiscountCents int64
	FinalCents    int64
}

// Compute derives the discount and final price from the original price and the
// voucher percentage (0 when no voucher is applied). The discount is rounded
// half-up to the cent; the final price is never negative.
func Compute(originalCents int64, percentage int) (Quote, error) {
	if originalCents < 0 {
		return Quote{}, fmt.Errorf("price must not be negative: %d", originalCents)
	}
	if percentage < 0 || percentage > MaxPercentage {
		return Quote{}, fmt.Errorf("percentage out of range [0,%d]: %d", MaxPercentage, percentage)
	}

	discount := (originalCents*int64(percentage) + 50) / 100
	return Quote{
		OriginalCents: originalCents,
		Percentage:    percentage,
		DiscountCents: discount,
		FinalCents:    originalCents - discount,
	}, nil
}

// FromDecimal converts a wire amount (e.g. 100.5) to cents.
func FromDecimal(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ToDecimal converts cents to a wire amount.
func ToDecimal(cents int64) float64 {
	return float64(cents) / 100
}

// Format renders cents as a two-decimal currency string, e.g. "R$ 80.00".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d.%02d", sign, cents/100, cents%100)
}
