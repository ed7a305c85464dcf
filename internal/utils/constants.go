package utils

import "time"

// Application Constants
const (
	AppName    = "GoRent"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "INR"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL      = 24 * time.Hour
	JWTRefreshTokenTTL     = 7 * 24 * time.Hour
	PasswordMinLength      = 8
	PasswordMaxLength      = 128
	VerificationCodeLength = 6
	VerificationCodeExpiry = 10 * time.Minute

	// Booking Constants
	MinRentalDays      = 1
	MaxRentalDays      = 90
	BookingLockTTL     = 2 * time.Minute
	PaymentOrderExpiry = 30 * time.Minute

	// Payment Constants
	PaiseFactor = 100 // smallest currency unit per rupee

	// File Upload
	MaxImageSize      = 5 * 1024 * 1024 // 5MB
	VehicleThumbWidth = 640             // pixels

	// Rate Limiting
	DefaultRateLimit = 100
	LoginRateLimit   = 5

	// Cache TTLs
	VehicleCacheTTL     = 15 * time.Minute
	VehicleListCacheTTL = 5 * time.Minute
)

// Response Status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
	ErrTokenExpired     = "Token expired"

	// Success message the web client matches on verbatim after checkout.
	MsgPaymentVerified = "Payment verified successfully"
)

// Cache key prefixes
const (
	CacheKeyVehicle     = "vehicle:"
	CacheKeyVehicleList = "vehicles:available"
	CacheKeyVerifyCode  = "verify_code:"
	CacheKeyBookingLock = "booking_lock:"
	CacheKeyLoginFails  = "login_fails:"
)
