// Package pricing computes rental durations and totals for bookings.
package pricing

import (
	"math"
	"time"
)

const instantLayout = "2006-01-02T15:04"

// Quote is the computed price for a requested rental window.
type Quote struct {
	Days     int
	Total    float64
	Fallback bool // true when the window was missing/unparseable and one day's price was assumed
}

// Calculate turns the four raw date/time fields into a day count and total.
//
// The four fields arrive independently from the booking form ("2006-01-02"
// dates, "15:04" times). When any field is empty or the combined instants do
// not parse, the quote falls back to a single day at pricePerDay so the
// caller never sees a zero or broken total. A partial day counts as a full
// rental day. Swapped endpoints are not rejected: the absolute difference is
// used, so reversed dates price the same as ordered ones.
func Calculate(startDate, startTime, endDate, endTime string, pricePerDay float64) Quote {
	if startDate == "" || endDate == "" || startTime == "" || endTime == "" {
		return fallback(pricePerDay)
	}

	start, err := time.Parse(instantLayout, startDate+"T"+startTime)
	if err != nil {
		return fallback(pricePerDay)
	}
	end, err := time.Parse(instantLayout, endDate+"T"+endTime)
	if err != nil {
		return fallback(pricePerDay)
	}

	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}

	days := int(math.Ceil(float64(diff.Milliseconds()) / float64(24*time.Hour/time.Millisecond)))
	if days < 1 {
		// Identical instants would otherwise quote zero.
		days = 1
	}

	return Quote{Days: days, Total: float64(days) * pricePerDay}
}

func fallback(pricePerDay float64) Quote {
	return Quote{Days: 1, Total: pricePerDay, Fallback: true}
}
