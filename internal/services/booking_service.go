package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorent/internal/bookingflow"
	"gorent/internal/models"
	"gorent/internal/pricing"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/sms"
	"gorent/pkg/ws"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	// Checkout flow
	CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, request *models.VerifyPaymentRequest) (*models.Booking, error)
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error

	// Reads
	GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error)

	// Admin oversight
	ListBookings(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	ListBookingsByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	CancelBooking(ctx context.Context, id primitive.ObjectID) error
	GetBookingStats(ctx context.Context) (*BookingStats, error)
}

type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Awaiting  int64 `json:"awaiting_payment"`
	Confirmed int64 `json:"confirmed"`
	Failed    int64 `json:"failed"`
	Cancelled int64 `json:"cancelled"`
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	vehicleRepo interfaces.VehicleRepository
	userRepo    interfaces.UserRepository
	cache       CacheService
	provider    payment.CheckoutProvider
	smsProvider sms.SMSProvider
	hub         *ws.Hub
	currency    string
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	vehicleRepo interfaces.VehicleRepository,
	userRepo interfaces.UserRepository,
	cacheService CacheService,
	provider payment.CheckoutProvider,
	smsProvider sms.SMSProvider,
	hub *ws.Hub,
	currency string,
	log *logger.Logger,
) BookingService {
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		cache:       cacheService,
		provider:    provider,
		smsProvider: smsProvider,
		hub:         hub,
		currency:    currency,
		logger:      log,
	}
}

// CreateBooking prices the requested window, persists the booking and
// registers a payment order with the gateway. The returned order descriptor
// is what the web client feeds straight into the checkout overlay.
//
// The happy path walks the status machine pending -> awaiting_payment; if
// order creation fails the booking stays pending and no order id is stored,
// so a retry starts clean.
func (s *bookingService) CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.PaymentOrder, error) {
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	vehicleID, err := primitive.ObjectIDFromHex(request.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}

	if err := validators.ValidateBookingWindow(request); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, fmt.Errorf("vehicle is not available for booking")
	}

	// One in-flight submission per (user, vehicle). A double click on the
	// booking form hits this lock instead of creating a second order.
	acquired, err := s.cache.AcquireBookingLock(ctx, userID, vehicleID)
	if err != nil {
		s.logger.WithError(err).Warn("Booking lock unavailable, proceeding without it")
	} else if !acquired {
		return nil, fmt.Errorf("a booking for this vehicle is already being processed")
	}
	defer func() {
		if err := s.cache.ReleaseBookingLock(ctx, userID, vehicleID); err != nil {
			s.logger.WithError(err).Warn("Failed to release booking lock")
		}
	}()

	// Price from the stored vehicle, not the client's copy of it.
	quote := pricing.Calculate(request.StartDate, request.StartTime, request.EndDate, request.EndTime, vehicle.PricePerDay)
	if quote.Fallback {
		s.logger.WithVehicleID(vehicleID).Warn("Booking window missing or unparseable, quoting a single day")
	}

	booking := &models.Booking{
		UserID:      userID,
		VehicleID:   vehicleID,
		Phone:       request.Phone,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		PricePerDay: vehicle.PricePerDay,
		RentalDays:  quote.Days,
		TotalPrice:  quote.Total,
		Status:      models.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	// Round, don't truncate: totals like 1139.34 otherwise lose a paisa
	// when the float product lands just under the integer.
	amount := int64(math.Round(booking.TotalPrice * utils.PaiseFactor))
	order, err := s.provider.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  booking.ID.Hex(),
		Notes: map[string]interface{}{
			"vehicle": vehicle.Name,
			"days":    quote.Days,
		},
	})
	if err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Payment order creation failed")
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	if _, err := bookingflow.Transition(booking.Status, models.BookingStatusAwaitingPayment); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
		"order_id": order.OrderID,
		"status":   models.BookingStatusAwaitingPayment,
	}); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "order_created", map[string]interface{}{
		"order_id": order.OrderID,
		"amount":   amount,
		"days":     quote.Days,
	})
	s.hub.PublishBookingEvent(ws.EventBookingCreated, booking.ID, map[string]interface{}{
		"vehicle": vehicle.Name,
		"total":   booking.TotalPrice,
	})

	return &models.PaymentOrder{
		ID:       order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  booking.ID.Hex(),
	}, nil
}

// VerifyPayment settles a booking from the signed fields the checkout overlay
// hands back. A valid signature confirms the booking; an invalid one marks it
// failed so the user can retry with a fresh attempt.
func (s *bookingService) VerifyPayment(ctx context.Context, request *models.VerifyPaymentRequest) (*models.Booking, error) {
	bookingID, err := primitive.ObjectIDFromHex(request.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusConfirmed {
		// Duplicate callback for an already settled booking.
		return booking, nil
	}

	if booking.OrderID != request.RazorpayOrderID {
		return nil, fmt.Errorf("order id does not match booking")
	}

	if !s.provider.VerifyPaymentSignature(request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		if _, err := bookingflow.Transition(booking.Status, models.BookingStatusFailed); err != nil {
			return nil, err
		}
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.BookingStatusFailed); err != nil {
			return nil, err
		}

		s.logger.LogPaymentEvent(request.RazorpayOrderID, "signature_rejected", booking.TotalPrice, s.currency)
		s.hub.PublishBookingEvent(ws.EventBookingFailed, booking.ID, nil)

		return nil, fmt.Errorf("payment signature verification failed")
	}

	if _, err := bookingflow.Transition(booking.Status, models.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.bookingRepo.MarkPaid(ctx, booking.ID, request.RazorpayPaymentID, now); err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to record payment details")
	}

	booking.Status = models.BookingStatusConfirmed
	booking.PaymentID = request.RazorpayPaymentID
	booking.PaidAt = &now

	s.logger.LogPaymentEvent(booking.OrderID, "payment_verified", booking.TotalPrice, s.currency)
	s.hub.PublishBookingEvent(ws.EventBookingConfirmed, booking.ID, map[string]interface{}{
		"payment_id": booking.PaymentID,
	})

	go s.sendConfirmationSMS(booking)

	return booking, nil
}

// HandlePaymentWebhook settles bookings from asynchronous gateway
// notifications, covering payments whose browser callback never arrived.
// Captured payments confirm the booking the same way VerifyPayment does;
// failed payments free it up for a fresh attempt.
func (s *bookingService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	orderID, paymentID := webhookPaymentFields(event)
	if orderID == "" {
		s.logger.WithField("event", event.EventType).Debug("Ignoring webhook without an order reference")
		return nil
	}

	booking, err := s.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("no booking for order %s: %w", orderID, err)
	}

	switch event.EventType {
	case "payment.captured":
		if booking.Status == models.BookingStatusConfirmed {
			return nil
		}
		if _, err := bookingflow.Transition(booking.Status, models.BookingStatusConfirmed); err != nil {
			return err
		}
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.BookingStatusConfirmed); err != nil {
			return err
		}

		now := time.Now()
		if err := s.bookingRepo.MarkPaid(ctx, booking.ID, paymentID, now); err != nil {
			s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to record payment details")
		}

		booking.Status = models.BookingStatusConfirmed
		booking.PaymentID = paymentID
		booking.PaidAt = &now

		s.logger.LogPaymentEvent(orderID, "webhook_captured", booking.TotalPrice, s.currency)
		s.hub.PublishBookingEvent(ws.EventBookingConfirmed, booking.ID, map[string]interface{}{
			"payment_id": paymentID,
		})

		go s.sendConfirmationSMS(booking)

	case "payment.failed":
		if booking.Status == models.BookingStatusConfirmed || booking.Status == models.BookingStatusFailed {
			return nil
		}
		if _, err := bookingflow.Transition(booking.Status, models.BookingStatusFailed); err != nil {
			return err
		}
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.BookingStatusFailed); err != nil {
			return err
		}

		s.logger.LogPaymentEvent(orderID, "webhook_failed", booking.TotalPrice, s.currency)
		s.hub.PublishBookingEvent(ws.EventBookingFailed, booking.ID, nil)

	default:
		s.logger.WithField("event", event.EventType).Debug("Ignoring unhandled webhook event")
	}

	return nil
}

// webhookPaymentFields digs the order and payment ids out of the loosely
// typed gateway payload ({"payload": {"payment": {"entity": {...}}}}).
func webhookPaymentFields(event *payment.WebhookEvent) (orderID, paymentID string) {
	payload, _ := event.Data["payload"].(map[string]interface{})
	pay, _ := payload["payment"].(map[string]interface{})
	entity, _ := pay["entity"].(map[string]interface{})
	if s, ok := entity["order_id"].(string); ok {
		orderID = s
	}
	if s, ok := entity["id"].(string); ok {
		paymentID = s
	}
	return orderID, paymentID
}

func (s *bookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachVehicle(ctx, booking)
	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, booking := range bookings {
		s.attachVehicle(ctx, booking)
	}
	return bookings, nil
}

func (s *bookingService) ListBookings(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookingRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	for _, booking := range bookings {
		s.attachVehicle(ctx, booking)
	}
	return bookings, total, nil
}

func (s *bookingService) ListBookingsByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookingRepo.GetByStatus(ctx, status, params)
	if err != nil {
		return nil, 0, err
	}
	for _, booking := range bookings {
		s.attachVehicle(ctx, booking)
	}
	return bookings, total, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id primitive.ObjectID) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := bookingflow.Transition(booking.Status, models.BookingStatusCancelled); err != nil {
		return err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status, models.BookingStatusCancelled); err != nil {
		return err
	}

	s.logger.LogBookingEvent(id, "cancelled", nil)
	return nil
}

func (s *bookingService) GetBookingStats(ctx context.Context) (*BookingStats, error) {
	stats := &BookingStats{}

	var err error
	if stats.Total, err = s.bookingRepo.GetTotalCount(ctx); err != nil {
		return nil, err
	}

	counts := []struct {
		status models.BookingStatus
		dest   *int64
	}{
		{models.BookingStatusPending, &stats.Pending},
		{models.BookingStatusAwaitingPayment, &stats.Awaiting},
		{models.BookingStatusConfirmed, &stats.Confirmed},
		{models.BookingStatusFailed, &stats.Failed},
		{models.BookingStatusCancelled, &stats.Cancelled},
	}
	for _, c := range counts {
		if *c.dest, err = s.bookingRepo.GetCountByStatus(ctx, c.status); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// attachVehicle populates the joined vehicle on a booking for API reads.
// Missing vehicles are tolerated: the booking still renders without one.
func (s *bookingService) attachVehicle(ctx context.Context, booking *models.Booking) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Debug("Vehicle lookup failed for booking")
		return
	}
	booking.Vehicle = vehicle
}

func (s *bookingService) sendConfirmationSMS(booking *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	phone := booking.Phone
	if phone == "" {
		// Fall back to the account phone when the form left it blank.
		user, err := s.userRepo.GetByID(ctx, booking.UserID)
		if err != nil {
			return
		}
		phone = user.Phone
	}
	if phone == "" {
		return
	}

	message := fmt.Sprintf("Your %s booking is confirmed for %s to %s. Total: %.2f %s.",
		utils.AppName, booking.StartDate, booking.EndDate, booking.TotalPrice, s.currency)

	if _, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
		To:      phone,
		Message: message,
		Type:    "transactional",
	}); err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Warn("Failed to send confirmation SMS")
	}
}
