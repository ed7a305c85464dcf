// Package validators holds domain-level request checks that go beyond
// field-tag validation.
package validators

import (
	"fmt"

	"gorent/internal/models"
	"gorent/internal/pricing"
	"gorent/internal/utils"
)

// ValidateBookingWindow bounds the requested rental window. Missing or
// unparseable fields are allowed through: the price calculator falls back to
// a single day for those, which is within any bound by definition. Reversed
// endpoints are allowed too; pricing treats them symmetrically.
func ValidateBookingWindow(request *models.BookingRequest) error {
	quote := pricing.Calculate(request.StartDate, request.StartTime, request.EndDate, request.EndTime, 1)
	if quote.Fallback {
		return nil
	}

	if quote.Days > utils.MaxRentalDays {
		return fmt.Errorf("rental window of %d days exceeds the %d day maximum", quote.Days, utils.MaxRentalDays)
	}

	return nil
}
