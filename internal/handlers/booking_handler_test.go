package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBookingService struct {
	order     *models.PaymentOrder
	createErr error
	booking   *models.Booking
	verifyErr error

	webhookErr error

	gotCreate  *models.BookingRequest
	gotVerify  *models.VerifyPaymentRequest
	gotPayload []byte
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, request *models.BookingRequest) (*models.PaymentOrder, error) {
	f.gotCreate = request
	return f.order, f.createErr
}

func (f *fakeBookingService) VerifyPayment(ctx context.Context, request *models.VerifyPaymentRequest) (*models.Booking, error) {
	f.gotVerify = request
	return f.booking, f.verifyErr
}

func (f *fakeBookingService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	f.gotPayload = payload
	return f.webhookErr
}

func (f *fakeBookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return f.booking, nil
}
func (f *fakeBookingService) GetUserBookings(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingService) ListBookings(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return nil, 0, nil
}
func (f *fakeBookingService) ListBookingsByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return nil, 0, nil
}
func (f *fakeBookingService) CancelBooking(ctx context.Context, id primitive.ObjectID) error {
	return nil
}
func (f *fakeBookingService) GetBookingStats(ctx context.Context) (*services.BookingStats, error) {
	return &services.BookingStats{}, nil
}

func bookingRouter(svc services.BookingService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Stand-in for the auth middleware.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", "user")
	})

	handler := NewBookingHandler(svc)
	router.POST("/api/bookings/create", handler.CreateBooking)
	router.POST("/api/bookings/verify", handler.VerifyPayment)
	router.POST("/api/webhooks/razorpay", handler.RazorpayWebhook)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingReturnsOrderDescriptor(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &fakeBookingService{
		order: &models.PaymentOrder{
			ID:       "order_x1",
			Amount:   300000,
			Currency: "INR",
			Receipt:  primitive.NewObjectID().Hex(),
		},
	}
	router := bookingRouter(svc, userID)

	w := postJSON(t, router, "/api/bookings/create", map[string]interface{}{
		"userId":      primitive.NewObjectID().Hex(), // overridden by auth context
		"vehicleId":   primitive.NewObjectID().Hex(),
		"phone":       "+919876543210",
		"startDate":   "2026-03-01",
		"startTime":   "10:00",
		"endDate":     "2026-03-03",
		"endTime":     "10:00",
		"pricePerDay": 1500,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Status string              `json:"status"`
		Data   models.PaymentOrder `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Data.ID != "order_x1" || response.Data.Amount != 300000 {
		t.Fatalf("unexpected order payload: %+v", response.Data)
	}

	// The handler must pin the booking to the authenticated user.
	if svc.gotCreate.UserID != userID.Hex() {
		t.Fatalf("expected user id from token, got %s", svc.gotCreate.UserID)
	}
}

func TestCreateBookingDuplicateSubmissionConflicts(t *testing.T) {
	svc := &fakeBookingService{createErr: errors.New("a booking for this vehicle is already being processed")}
	router := bookingRouter(svc, primitive.NewObjectID())

	w := postJSON(t, router, "/api/bookings/create", map[string]interface{}{
		"vehicleId":   primitive.NewObjectID().Hex(),
		"phone":       "+919876543210",
		"pricePerDay": 1500,
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestVerifyPaymentSuccessMessage(t *testing.T) {
	svc := &fakeBookingService{
		booking: &models.Booking{Status: models.BookingStatusConfirmed},
	}
	router := bookingRouter(svc, primitive.NewObjectID())

	w := postJSON(t, router, "/api/bookings/verify", map[string]interface{}{
		"razorpayOrderId":   "order_x1",
		"razorpayPaymentId": "pay_abc",
		"razorpaySignature": "sig",
		"bookingId":         primitive.NewObjectID().Hex(),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Exact string the web client matches on after checkout.
	if response.Message != "Payment verified successfully" {
		t.Fatalf("unexpected message %q", response.Message)
	}
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	svc := &fakeBookingService{}
	router := bookingRouter(svc, primitive.NewObjectID())

	w := postJSON(t, router, "/api/bookings/verify", map[string]interface{}{
		"razorpayOrderId": "order_x1",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if svc.gotVerify != nil {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestVerifyPaymentRejection(t *testing.T) {
	svc := &fakeBookingService{verifyErr: errors.New("payment signature verification failed")}
	router := bookingRouter(svc, primitive.NewObjectID())

	w := postJSON(t, router, "/api/bookings/verify", map[string]interface{}{
		"razorpayOrderId":   "order_x1",
		"razorpayPaymentId": "pay_abc",
		"razorpaySignature": "bad",
		"bookingId":         primitive.NewObjectID().Hex(),
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRazorpayWebhookAccepted(t *testing.T) {
	svc := &fakeBookingService{}
	router := bookingRouter(svc, primitive.NewObjectID())

	body := []byte(`{"event":"payment.captured"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "sig")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if string(svc.gotPayload) != string(body) {
		t.Fatalf("service did not receive the raw payload")
	}
}

func TestRazorpayWebhookRejected(t *testing.T) {
	svc := &fakeBookingService{webhookErr: errors.New("invalid webhook signature")}
	router := bookingRouter(svc, primitive.NewObjectID())

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
