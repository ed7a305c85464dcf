package services

import (
	"context"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)

	// Admin operations
	ListUsers(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)
	SetUserStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=50"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

type userService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   log,
	}
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if request.Name != "" {
		updates["name"] = utils.SanitizeString(request.Name)
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, params)
}

func (s *userService) SetUserStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error {
	if err := s.userRepo.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return err
	}

	s.logger.WithUserID(id).WithField("status", status).Info("User status changed")
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithUserID(id).Info("User deleted")
	return nil
}
