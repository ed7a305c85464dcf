package bookingflow

import (
	"testing"

	"gorent/internal/models"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(models.BookingStatusPending, models.BookingStatusAwaitingPayment) {
		t.Fatal("expected pending -> awaiting_payment to be allowed")
	}
	if !CanTransition(models.BookingStatusAwaitingPayment, models.BookingStatusConfirmed) {
		t.Fatal("expected awaiting_payment -> confirmed to be allowed")
	}
	if !CanTransition(models.BookingStatusAwaitingPayment, models.BookingStatusFailed) {
		t.Fatal("expected awaiting_payment -> failed to be allowed")
	}
	if !CanTransition(models.BookingStatusFailed, models.BookingStatusAwaitingPayment) {
		t.Fatal("expected failed -> awaiting_payment (retry) to be allowed")
	}
	if CanTransition(models.BookingStatusPending, models.BookingStatusConfirmed) {
		t.Fatal("pending must not confirm without a payment order")
	}
	if CanTransition(models.BookingStatusCancelled, models.BookingStatusAwaitingPayment) {
		t.Fatal("cancelled is terminal")
	}
	if CanTransition(models.BookingStatusConfirmed, models.BookingStatusFailed) {
		t.Fatal("confirmed must not fail retroactively")
	}
	if !CanTransition(models.BookingStatusConfirmed, models.BookingStatusConfirmed) {
		t.Fatal("self transition should be a no-op")
	}
}

func TestTransition(t *testing.T) {
	got, err := Transition(models.BookingStatusPending, models.BookingStatusAwaitingPayment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.BookingStatusAwaitingPayment {
		t.Fatalf("expected awaiting_payment got %s", got)
	}

	got, err = Transition(models.BookingStatusPending, models.BookingStatusConfirmed)
	if err == nil {
		t.Fatal("expected error for pending -> confirmed")
	}
	if got != models.BookingStatusPending {
		t.Fatalf("failed transition must keep the current status, got %s", got)
	}
}

func TestIsSettled(t *testing.T) {
	settled := []models.BookingStatus{
		models.BookingStatusConfirmed,
		models.BookingStatusFailed,
		models.BookingStatusCancelled,
	}
	for _, s := range settled {
		if !IsSettled(s) {
			t.Fatalf("expected %s to be settled", s)
		}
	}
	if IsSettled(models.BookingStatusAwaitingPayment) {
		t.Fatal("awaiting_payment is not settled")
	}
}
