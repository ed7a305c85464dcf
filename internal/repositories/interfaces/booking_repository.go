package interfaces

import (
	"context"
	"time"

	"gorent/internal/models"
	"gorent/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Status transitions with optimistic validation: the update only applies
	// when the stored status still equals the expected one.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error

	// Payment linkage
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID string, paidAt time.Time) error

	// Listing
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	// Analytics
	GetTotalCount(ctx context.Context) (int64, error)
	GetCountByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
}
