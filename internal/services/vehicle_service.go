package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleService interface {
	// Catalog
	CreateVehicle(ctx context.Context, request *CreateVehicleRequest) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id primitive.ObjectID) error

	// Listing
	ListVehicles(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
	ListAvailableVehicles(ctx context.Context) ([]*models.Vehicle, error)
	ListVehiclesByType(ctx context.Context, vehicleType string, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)

	// Availability
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	// Images
	UploadVehicleImage(ctx context.Context, id primitive.ObjectID, filename string, reader io.Reader, size int64) (string, error)
}

type CreateVehicleRequest struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	Image        string   `json:"image"`
	PricePerDay  float64  `json:"pricePerDay" validate:"required,gt=0"`
	WheelCount   int      `json:"wheelCount" validate:"required,oneof=2 3 4 6"`
	FuelType     string   `json:"fuelType" validate:"required"`
	Transmission string   `json:"transmission" validate:"required"`
	Capacity     int      `json:"capacity" validate:"required,gt=0"`
	Year         int      `json:"year" validate:"required,gte=1980"`
	Description  string   `json:"description" validate:"required"`
	Features     []string `json:"features"`
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	storage     storage.StorageProvider
	logger      *logger.Logger
}

func NewVehicleService(
	vehicleRepo interfaces.VehicleRepository,
	storageProvider storage.StorageProvider,
	log *logger.Logger,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		storage:     storageProvider,
		logger:      log,
	}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, request *CreateVehicleRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		Name:         utils.SanitizeString(request.Name),
		Type:         request.Type,
		Image:        request.Image,
		PricePerDay:  request.PricePerDay,
		WheelCount:   request.WheelCount,
		FuelType:     models.FuelType(request.FuelType),
		Transmission: models.TransmissionType(request.Transmission),
		Capacity:     request.Capacity,
		Year:         request.Year,
		Description:  utils.SanitizeString(request.Description),
		Features:     request.Features,
		Available:    true,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.WithVehicleID(vehicle.ID).WithField("name", vehicle.Name).Info("Vehicle created")
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Vehicle, error) {
	if err := s.vehicleRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithVehicleID(id).Info("Vehicle updated")
	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id primitive.ObjectID) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Stored images are deleted best effort; the document is already gone.
	if key := storageKeyFromURL(vehicle.Image); key != "" {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithVehicleID(id).Warn("Failed to delete vehicle image")
		}
	}

	s.logger.WithVehicleID(id).Info("Vehicle deleted")
	return nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	return s.vehicleRepo.List(ctx, params)
}

func (s *vehicleService) ListAvailableVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return s.vehicleRepo.ListAvailable(ctx)
}

func (s *vehicleService) ListVehiclesByType(ctx context.Context, vehicleType string, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	return s.vehicleRepo.GetByType(ctx, vehicleType, params)
}

func (s *vehicleService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	if err := s.vehicleRepo.SetAvailability(ctx, id, available); err != nil {
		return err
	}

	s.logger.WithVehicleID(id).WithField("available", available).Info("Vehicle availability changed")
	return nil
}

// UploadVehicleImage stores a resized thumbnail of the uploaded image and
// points the vehicle document at its public URL.
func (s *vehicleService) UploadVehicleImage(ctx context.Context, id primitive.ObjectID, filename string, reader io.Reader, size int64) (string, error) {
	if size > utils.MaxImageSize {
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", utils.MaxImageSize)
	}

	if _, err := s.vehicleRepo.GetByID(ctx, id); err != nil {
		return "", err
	}

	img, err := utils.DecodeVehicleImage(reader, filename)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb, err := utils.MakeThumbnail(img, utils.VehicleThumbWidth)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %w", err)
	}

	key := fmt.Sprintf("vehicles/%s%s", id.Hex(), ".jpg")
	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(thumb),
		ContentType: "image/jpeg",
		Size:        int64(len(thumb)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.vehicleRepo.Update(ctx, id, map[string]interface{}{"image": response.URL}); err != nil {
		return "", err
	}

	s.logger.WithVehicleID(id).WithField("image_url", response.URL).Info("Vehicle image uploaded")
	return response.URL, nil
}

// storageKeyFromURL recovers the storage key for URLs under the vehicles/
// prefix; returns "" for external URLs that were never uploaded through us.
func storageKeyFromURL(url string) string {
	dir, file := path.Split(url)
	if file == "" {
		return ""
	}
	if path.Base(path.Clean(dir)) != "vehicles" {
		return ""
	}
	return "vehicles/" + file
}
