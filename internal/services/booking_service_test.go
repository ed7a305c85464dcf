package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/sms"
	"gorent/pkg/ws"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeVehicleRepo struct {
	vehicle *models.Vehicle
}

func (f *fakeVehicleRepo) Create(ctx context.Context, v *models.Vehicle) error { return nil }
func (f *fakeVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	if f.vehicle == nil || f.vehicle.ID != id {
		return nil, errors.New("vehicle not found")
	}
	return f.vehicle, nil
}
func (f *fakeVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}
func (f *fakeVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (f *fakeVehicleRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	return nil, 0, nil
}
func (f *fakeVehicleRepo) ListAvailable(ctx context.Context) ([]*models.Vehicle, error) {
	return nil, nil
}
func (f *fakeVehicleRepo) GetByType(ctx context.Context, vehicleType string, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	return nil, 0, nil
}
func (f *fakeVehicleRepo) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return nil
}
func (f *fakeVehicleRepo) GetTotalCount(ctx context.Context) (int64, error) { return 0, nil }

type fakeBookingRepo struct {
	bookings  map[primitive.ObjectID]*models.Booking
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now()
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	b, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	if v, ok := updates["order_id"].(string); ok {
		b.OrderID = v
	}
	if v, ok := updates["status"].(models.BookingStatus); ok {
		b.Status = v
	}
	if v, ok := updates["payment_id"].(string); ok {
		b.PaymentID = v
	}
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	if b.Status != from {
		return errors.New("status changed concurrently")
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.OrderID == orderID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (f *fakeBookingRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID string, paidAt time.Time) error {
	b, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.PaymentID = paymentID
	b.PaidAt = &paidAt
	return nil
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return nil, 0, nil
}
func (f *fakeBookingRepo) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return nil, 0, nil
}
func (f *fakeBookingRepo) GetTotalCount(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeBookingRepo) GetCountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	user    *models.User
	byEmail *models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("user not found")
	}
	return f.user, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmail != nil {
		return f.byEmail, nil
	}
	return nil, errors.New("user not found")
}
func (f *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (f *fakeUserRepo) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	return nil
}
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return nil
}
func (f *fakeUserRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) GetTotalCount(ctx context.Context) (int64, error) { return 0, nil }

type fakeCache struct {
	lockHeld     bool
	failedLogins int64
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("miss")
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error     { return nil }
func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }
func (f *fakeCache) AcquireBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) (bool, error) {
	if f.lockHeld {
		return false, nil
	}
	f.lockHeld = true
	return true, nil
}
func (f *fakeCache) ReleaseBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) error {
	f.lockHeld = false
	return nil
}
func (f *fakeCache) StoreVerificationCode(ctx context.Context, email, code string) error { return nil }
func (f *fakeCache) CheckVerificationCode(ctx context.Context, email, code string) (bool, error) {
	return false, nil
}
func (f *fakeCache) RecordFailedLogin(ctx context.Context, email string, lockout time.Duration) (int64, error) {
	f.failedLogins++
	return f.failedLogins, nil
}
func (f *fakeCache) FailedLoginCount(ctx context.Context, email string) (int64, error) {
	return f.failedLogins, nil
}
func (f *fakeCache) ResetFailedLogins(ctx context.Context, email string) error {
	f.failedLogins = 0
	return nil
}
func (f *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeProvider struct {
	orderErr     error
	orders       int
	validSig     bool
	lastAmount   int64
	webhookEvent *payment.WebhookEvent
	webhookErr   error
}

func (f *fakeProvider) CreateOrder(ctx context.Context, request *payment.OrderRequest) (*payment.OrderResponse, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders++
	f.lastAmount = request.Amount
	return &payment.OrderResponse{
		OrderID:  "order_test123",
		Amount:   request.Amount,
		Currency: request.Currency,
		Receipt:  request.Receipt,
		Status:   "created",
	}, nil
}

func (f *fakeProvider) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return f.validSig
}

func (f *fakeProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	return f.webhookEvent, nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSMS) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, request.To)
	return &sms.SMSResponse{Status: "sent"}, nil
}

func (f *fakeSMS) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

func testFixture(t *testing.T) (*bookingService, *fakeBookingRepo, *fakeVehicleRepo, *fakeCache, *fakeProvider, *fakeSMS) {
	t.Helper()

	vehicle := &models.Vehicle{
		ID:          primitive.NewObjectID(),
		Name:        "Honda City",
		PricePerDay: 1500,
		Available:   true,
	}
	vehicleRepo := &fakeVehicleRepo{vehicle: vehicle}
	bookingRepo := newFakeBookingRepo()
	userRepo := &fakeUserRepo{user: &models.User{ID: primitive.NewObjectID(), Phone: "+919900112233"}}
	cacheFake := &fakeCache{}
	provider := &fakeProvider{validSig: true}
	smsFake := &fakeSMS{}

	svc := NewBookingService(
		bookingRepo, vehicleRepo, userRepo,
		cacheFake, provider, smsFake, ws.NewHub(),
		"INR", testLogger(t),
	).(*bookingService)

	return svc, bookingRepo, vehicleRepo, cacheFake, provider, smsFake
}

func testRequest(vehicleID primitive.ObjectID) *models.BookingRequest {
	return &models.BookingRequest{
		UserID:      primitive.NewObjectID().Hex(),
		VehicleID:   vehicleID.Hex(),
		Phone:       "+919876543210",
		StartDate:   "2026-03-01",
		StartTime:   "10:00",
		EndDate:     "2026-03-03",
		EndTime:     "10:00",
		PricePerDay: 1500,
	}
}

func TestCreateBookingIssuesOrder(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if order.ID != "order_test123" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	// Two full days at 1500/day, in paise.
	if order.Amount != 300000 {
		t.Fatalf("expected amount 300000 paise, got %d", order.Amount)
	}
	if order.Currency != "INR" {
		t.Fatalf("unexpected currency %q", order.Currency)
	}

	booking, err := bookingRepo.GetByID(context.Background(), mustObjectID(t, order.Receipt))
	if err != nil {
		t.Fatalf("stored booking not found: %v", err)
	}
	if booking.Status != models.BookingStatusAwaitingPayment {
		t.Fatalf("expected awaiting_payment, got %s", booking.Status)
	}
	if booking.RentalDays != 2 {
		t.Fatalf("expected 2 rental days, got %d", booking.RentalDays)
	}
	if booking.OrderID != order.ID {
		t.Fatalf("booking not linked to order")
	}
	if provider.orders != 1 {
		t.Fatalf("expected exactly one order, got %d", provider.orders)
	}
}

func TestCreateBookingRoundsPaiseAmount(t *testing.T) {
	svc, _, vehicleRepo, _, provider, _ := testFixture(t)
	// 569.67 * 2 = 1139.34, whose float product with 100 lands just under
	// 113934; truncation would charge 113933.
	vehicleRepo.vehicle.PricePerDay = 569.67

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if order.Amount != 113934 {
		t.Fatalf("expected 113934 paise, got %d", order.Amount)
	}
	if provider.lastAmount != 113934 {
		t.Fatalf("gateway saw %d paise, want 113934", provider.lastAmount)
	}
}

func TestCreateBookingPricesFromStoredVehicle(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, _, _ := testFixture(t)

	request := testRequest(vehicleRepo.vehicle.ID)
	request.PricePerDay = 1 // client-side tampering

	order, err := svc.CreateBooking(context.Background(), request)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	booking, _ := bookingRepo.GetByID(context.Background(), mustObjectID(t, order.Receipt))
	if booking.PricePerDay != 1500 {
		t.Fatalf("expected server-side price 1500, got %v", booking.PricePerDay)
	}
	if booking.TotalPrice != 3000 {
		t.Fatalf("expected total 3000, got %v", booking.TotalPrice)
	}
}

func TestCreateBookingRejectsConcurrentSubmission(t *testing.T) {
	svc, _, vehicleRepo, cacheFake, provider, _ := testFixture(t)
	cacheFake.lockHeld = true

	_, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err == nil {
		t.Fatal("expected lock contention error")
	}
	if provider.orders != 0 {
		t.Fatalf("no order should be created under contention, got %d", provider.orders)
	}
}

func TestCreateBookingOrderFailureLeavesPending(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, _ := testFixture(t)
	provider.orderErr = errors.New("gateway down")

	_, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err == nil {
		t.Fatal("expected order creation failure")
	}

	for _, b := range bookingRepo.bookings {
		if b.Status != models.BookingStatusPending {
			t.Fatalf("expected booking to stay pending, got %s", b.Status)
		}
		if b.OrderID != "" {
			t.Fatalf("no order id should be stored on failure")
		}
	}
}

func TestCreateBookingPersistFailureSkipsOrder(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, _ := testFixture(t)
	bookingRepo.createErr = errors.New("write concern error")

	_, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err == nil {
		t.Fatal("expected persistence failure to abort the flow")
	}
	if provider.orders != 0 {
		t.Fatalf("no payment order should be created when the booking was never stored")
	}
}

func TestCreateBookingUnavailableVehicle(t *testing.T) {
	svc, _, vehicleRepo, _, provider, _ := testFixture(t)
	vehicleRepo.vehicle.Available = false

	_, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err == nil {
		t.Fatal("expected unavailable vehicle to be rejected")
	}
	if provider.orders != 0 {
		t.Fatalf("no order should be created for unavailable vehicle")
	}
}

func TestVerifyPaymentConfirmsBooking(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, _, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	booking, err := svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		RazorpayOrderID:   order.ID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
		BookingID:         order.Receipt,
	})
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	if booking.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", booking.Status)
	}
	if booking.PaymentID != "pay_abc" {
		t.Fatalf("payment id not recorded")
	}
	if booking.PaidAt == nil {
		t.Fatalf("paid timestamp not recorded")
	}

	stored, _ := bookingRepo.GetByID(context.Background(), booking.ID)
	if stored.Status != models.BookingStatusConfirmed {
		t.Fatalf("stored status %s", stored.Status)
	}
}

func TestVerifyPaymentBadSignatureMarksFailed(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, smsFake := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	provider.validSig = false
	_, err = svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		RazorpayOrderID:   order.ID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "tampered",
		BookingID:         order.Receipt,
	})
	if err == nil {
		t.Fatal("expected signature rejection")
	}

	stored, _ := bookingRepo.GetByID(context.Background(), mustObjectID(t, order.Receipt))
	if stored.Status != models.BookingStatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if stored.PaymentID != "" {
		t.Fatalf("payment id must not be recorded on rejection")
	}
	if smsFake.sentCount() != 0 {
		t.Fatalf("no confirmation SMS on rejection")
	}
}

func TestVerifyPaymentMismatchedOrder(t *testing.T) {
	svc, _, vehicleRepo, _, _, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	_, err = svc.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		RazorpayOrderID:   "order_someone_elses",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
		BookingID:         order.Receipt,
	})
	if err == nil {
		t.Fatal("expected order mismatch rejection")
	}
}

func TestVerifyPaymentIdempotentOnConfirmed(t *testing.T) {
	svc, _, vehicleRepo, _, _, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	verify := &models.VerifyPaymentRequest{
		RazorpayOrderID:   order.ID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
		BookingID:         order.Receipt,
	}
	if _, err := svc.VerifyPayment(context.Background(), verify); err != nil {
		t.Fatalf("first VerifyPayment: %v", err)
	}

	booking, err := svc.VerifyPayment(context.Background(), verify)
	if err != nil {
		t.Fatalf("duplicate VerifyPayment: %v", err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed on duplicate callback, got %s", booking.Status)
	}
}

func webhookEvent(eventType, orderID, paymentID string) *payment.WebhookEvent {
	return &payment.WebhookEvent{
		EventID:   "evt_1",
		EventType: eventType,
		Data: map[string]interface{}{
			"payload": map[string]interface{}{
				"payment": map[string]interface{}{
					"entity": map[string]interface{}{
						"id":       paymentID,
						"order_id": orderID,
					},
				},
			},
		},
	}
}

func TestWebhookCapturedConfirmsBooking(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	provider.webhookEvent = webhookEvent("payment.captured", order.ID, "pay_wh1")
	if err := svc.HandlePaymentWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandlePaymentWebhook: %v", err)
	}

	booking, err := bookingRepo.GetByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("booking lookup: %v", err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", booking.Status)
	}
	if booking.PaymentID != "pay_wh1" {
		t.Fatalf("expected payment id pay_wh1, got %q", booking.PaymentID)
	}
}

func TestWebhookFailedMarksBookingFailed(t *testing.T) {
	svc, bookingRepo, vehicleRepo, _, provider, _ := testFixture(t)

	order, err := svc.CreateBooking(context.Background(), testRequest(vehicleRepo.vehicle.ID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	provider.webhookEvent = webhookEvent("payment.failed", order.ID, "pay_wh2")
	if err := svc.HandlePaymentWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandlePaymentWebhook: %v", err)
	}

	booking, err := bookingRepo.GetByOrderID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("booking lookup: %v", err)
	}
	if booking.Status != models.BookingStatusFailed {
		t.Fatalf("expected failed, got %s", booking.Status)
	}
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	svc, _, _, _, provider, _ := testFixture(t)
	provider.webhookErr = errors.New("invalid webhook signature")

	if err := svc.HandlePaymentWebhook(context.Background(), []byte(`{}`), "bad"); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("invalid object id %q: %v", hex, err)
	}
	return id
}
