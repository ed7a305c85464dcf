package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusFailed          BookingStatus = "failed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

// Booking links a user, a vehicle and a date/time range. PricePerDay is
// snapshotted from the vehicle at request time so later price edits never
// change what the customer was charged.
type Booking struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"user_id"`
	VehicleID   primitive.ObjectID `json:"vehicleId" bson:"vehicle_id"`
	Phone       string             `json:"phone" bson:"phone"`
	StartDate   string             `json:"startDate" bson:"start_date"`
	EndDate     string             `json:"endDate" bson:"end_date"`
	StartTime   string             `json:"startTime" bson:"start_time"`
	EndTime     string             `json:"endTime" bson:"end_time"`
	PricePerDay float64            `json:"pricePerDay" bson:"price_per_day"`
	RentalDays  int                `json:"rentalDays" bson:"rental_days"`
	TotalPrice  float64            `json:"totalPrice" bson:"total_price"`
	Status      BookingStatus      `json:"status" bson:"status"`

	// Payment order descriptor fields issued by the gateway.
	OrderID   string     `json:"orderId,omitempty" bson:"order_id,omitempty"`
	PaymentID string     `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`

	// Vehicle is populated on reads that join the vehicle document, never stored.
	Vehicle *Vehicle `json:"vehicle,omitempty" bson:"-"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the client-side booking intent as submitted by the web
// client. Field names are part of the wire contract.
type BookingRequest struct {
	UserID      string  `json:"userId" validate:"required"`
	VehicleID   string  `json:"vehicleId" validate:"required"`
	Phone       string  `json:"phone" validate:"required,phone"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	PricePerDay float64 `json:"pricePerDay" validate:"required,gt=0"`
}

// PaymentOrder is the provider-hosted payment order descriptor returned to
// the client after booking creation. Amount is in the smallest currency
// unit; Receipt carries the booking id so verification can find it again.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// VerifyPaymentRequest carries the signed callback fields returned by the
// payment provider after checkout completion.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string `json:"razorpaySignature" validate:"required"`
	BookingID         string `json:"bookingId" validate:"required"`
}
