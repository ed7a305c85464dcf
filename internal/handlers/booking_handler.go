package handlers

import (
	"io"
	"net/http"
	"strings"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking prices the requested rental window, persists the booking
// and returns the payment order descriptor the checkout overlay consumes.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var request models.BookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	// The submitter always books for themselves, whatever the payload says.
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	request.UserID = userID.Hex()

	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	order, err := h.bookingService.CreateBooking(c.Request.Context(), &request)
	if err != nil {
		if strings.Contains(err.Error(), "already being processed") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "BOOKING_CREATE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Booking created", order)
}

// VerifyPayment settles a booking from the signed checkout callback fields.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	var request models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&request); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	booking, err := h.bookingService.VerifyPayment(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "PAYMENT_VERIFICATION_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, utils.MsgPaymentVerified, booking)
}

// RazorpayWebhook ingests asynchronous gateway notifications. The route is
// public; the payload signature is the authentication.
func (h *BookingHandler) RazorpayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.bookingService.HandlePaymentWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "WEBHOOK_REJECTED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}

// GetUserBookings lists one user's bookings, newest first. Users may only
// read their own history; admins may read anyone's.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if id != userID && c.GetString("user_role") != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c)
		return
	}

	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), id)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", bookings)
}

// GetBooking returns a single booking. Owners see their own; admins see all.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		utils.NotFoundResponse(c, "Booking")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if booking.UserID != userID && c.GetString("user_role") != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c)
		return
	}

	utils.SuccessResponse(c, "", booking)
}

// ListBookings is the admin oversight view with optional status filter.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		bookings []*models.Booking
		total    int64
		err      error
	)
	if status := c.Query("status"); status != "" {
		bookings, total, err = h.bookingService.ListBookingsByStatus(c.Request.Context(), models.BookingStatus(status), params)
	} else {
		bookings, total, err = h.bookingService.ListBookings(c.Request.Context(), params)
	}
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// CancelBooking cancels a booking on behalf of an admin.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "BOOKING_CANCEL_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Booking cancelled", nil)
}

// GetStats reports booking counts per status for the admin dashboard.
func (h *BookingHandler) GetStats(c *gin.Context) {
	stats, err := h.bookingService.GetBookingStats(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "", stats)
}
