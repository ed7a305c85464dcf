package interfaces

import (
	"context"

	"gorent/internal/models"
	"gorent/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing and search
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
	ListAvailable(ctx context.Context) ([]*models.Vehicle, error)
	GetByType(ctx context.Context, vehicleType string, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)

	// Availability
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	// Analytics
	GetTotalCount(ctx context.Context) (int64, error)
}
