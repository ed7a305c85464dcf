// Package bookingflow defines the booking status state machine.
//
// A booking moves through a strictly sequential payment pipeline: it is
// created pending, becomes awaiting_payment once a gateway order exists,
// and settles as confirmed or failed after signature verification. A failed
// booking may re-enter awaiting_payment on a fresh user attempt; confirmed
// is terminal apart from cancellation by an admin.
package bookingflow

import (
	"fmt"

	"gorent/internal/models"
)

var transitions = map[models.BookingStatus]map[models.BookingStatus]struct{}{
	models.BookingStatusPending: {
		models.BookingStatusAwaitingPayment: {},
		models.BookingStatusCancelled:       {},
	},
	models.BookingStatusAwaitingPayment: {
		models.BookingStatusConfirmed: {},
		models.BookingStatusFailed:    {},
		models.BookingStatusCancelled: {},
	},
	models.BookingStatusFailed: {
		models.BookingStatusAwaitingPayment: {},
		models.BookingStatusCancelled:       {},
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCancelled: {},
	},
	models.BookingStatusCancelled: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Transition validates the move and returns the target status, or an error
// naming both states when the move is not allowed.
func Transition(from, to models.BookingStatus) (models.BookingStatus, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid booking status transition %s -> %s", from, to)
	}
	return to, nil
}

// IsSettled reports whether the booking has reached a terminal payment
// outcome and no submission is in flight.
func IsSettled(status models.BookingStatus) bool {
	return status == models.BookingStatusConfirmed ||
		status == models.BookingStatusFailed ||
		status == models.BookingStatusCancelled
}
