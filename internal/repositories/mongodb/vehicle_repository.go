package mongodb

import (
	"context"
	"fmt"
	"time"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vehicleRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewVehicleRepository(db *mongo.Database, cache CacheService) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection("vehicles"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	if vehicle.Available {
		r.cacheVehicle(ctx, vehicle)
	}
	r.invalidateListCache(ctx)

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	if vehicle := r.getVehicleFromCache(ctx, id.Hex()); vehicle != nil {
		return vehicle, nil
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vehicle not found")
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.Available {
		r.cacheVehicle(ctx, &vehicle)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle not found")
	}

	r.invalidateVehicleCache(ctx, id.Hex())
	r.invalidateListCache(ctx)

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("vehicle not found")
	}

	r.invalidateVehicleCache(ctx, id.Hex())
	r.invalidateListCache(ctx)

	return nil
}

// Listing and search
func (r *vehicleRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	filter := params.GetSearchFilter([]string{"name", "type", "description"})

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	vehicles, err := decodeVehicles(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

func (r *vehicleRepository) ListAvailable(ctx context.Context) ([]*models.Vehicle, error) {
	if r.cache != nil {
		var cached []*models.Vehicle
		if err := r.cache.Get(ctx, utils.CacheKeyVehicleList, &cached); err == nil {
			return cached, nil
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"available": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list available vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	vehicles, err := decodeVehicles(ctx, cursor)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheKeyVehicleList, vehicles, utils.VehicleListCacheTTL)
	}

	return vehicles, nil
}

func (r *vehicleRepository) GetByType(ctx context.Context, vehicleType string, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	filter := bson.M{"type": vehicleType}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles by type: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find vehicles by type: %w", err)
	}
	defer cursor.Close(ctx)

	vehicles, err := decodeVehicles(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// Availability
func (r *vehicleRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return r.Update(ctx, id, map[string]interface{}{"available": available})
}

// Analytics
func (r *vehicleRepository) GetTotalCount(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func decodeVehicles(ctx context.Context, cursor *mongo.Cursor) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, fmt.Errorf("failed to decode vehicle: %w", err)
		}
		vehicles = append(vehicles, &vehicle)
	}
	return vehicles, cursor.Err()
}

// Cache operations
func (r *vehicleRepository) cacheVehicle(ctx context.Context, vehicle *models.Vehicle) {
	if r.cache != nil && vehicle.Available {
		cacheKey := utils.CacheKeyVehicle + vehicle.ID.Hex()
		r.cache.Set(ctx, cacheKey, vehicle, utils.VehicleCacheTTL)
	}
}

func (r *vehicleRepository) getVehicleFromCache(ctx context.Context, vehicleID string) *models.Vehicle {
	if r.cache == nil {
		return nil
	}

	var vehicle models.Vehicle
	if err := r.cache.Get(ctx, utils.CacheKeyVehicle+vehicleID, &vehicle); err != nil {
		return nil
	}

	return &vehicle
}

func (r *vehicleRepository) invalidateVehicleCache(ctx context.Context, vehicleID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheKeyVehicle+vehicleID)
	}
}

func (r *vehicleRepository) invalidateListCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheKeyVehicleList)
	}
}
