package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FuelType string
type TransmissionType string

const (
	FuelTypePetrol   FuelType = "Petrol"
	FuelTypeDiesel   FuelType = "Diesel"
	FuelTypeElectric FuelType = "Electric"
	FuelTypeHybrid   FuelType = "Hybrid"

	TransmissionManual    TransmissionType = "Manual"
	TransmissionAutomatic TransmissionType = "Automatic"
)

// Vehicle is a rentable asset. Written only by admins, read by everyone.
// JSON field names match the public API contract (camelCase, as consumed
// by the web client).
type Vehicle struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Type         string             `json:"type" bson:"type" validate:"required"`
	Image        string             `json:"image" bson:"image" validate:"required"`
	PricePerDay  float64            `json:"pricePerDay" bson:"price_per_day" validate:"required,gt=0"`
	WheelCount   int                `json:"wheelCount" bson:"wheel_count" validate:"required,oneof=2 3 4 6"`
	FuelType     FuelType           `json:"fuelType" bson:"fuel_type" validate:"required"`
	Transmission TransmissionType   `json:"transmission" bson:"transmission" validate:"required"`
	Capacity     int                `json:"capacity" bson:"capacity" validate:"required,gt=0"`
	Year         int                `json:"year" bson:"year" validate:"required,gte=1980"`
	Description  string             `json:"description" bson:"description" validate:"required"`
	Features     []string           `json:"features" bson:"features"`
	Available    bool               `json:"available" bson:"available"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
