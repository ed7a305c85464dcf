package services

import (
	"context"
	"fmt"
	"time"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/mailer"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Authentication
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// Email verification
	SendEmailVerification(ctx context.Context, userID primitive.ObjectID) error
	VerifyEmail(ctx context.Context, request *VerifyEmailRequest) (*AuthResponse, error)

	// Password management
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"verificationCode" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

type AuthConfig struct {
	JWTSecret        string
	MaxLoginAttempts int64
	LoginLockoutTime time.Duration
}

type authService struct {
	userRepo interfaces.UserRepository
	cache    CacheService
	mailer   mailer.Mailer
	config   *AuthConfig
	logger   *logger.Logger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	cache CacheService,
	mail mailer.Mailer,
	config *AuthConfig,
	log *logger.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		cache:    cache,
		mailer:   mail,
		config:   config,
		logger:   log,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, request.Email); existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", request.Email)
	}

	hash, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     utils.SanitizeString(request.Name),
		Email:    request.Email,
		Phone:    request.Phone,
		Password: hash,
		Role:     models.UserRoleUser,
		Status:   models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	go s.sendVerificationEmail(user)

	s.logger.WithUserID(user.ID).Info("User registered successfully")

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	// The lockout gates the whole attempt: once the counter hits the
	// limit, even a correct password waits out the TTL.
	if attempts, err := s.cache.FailedLoginCount(ctx, request.Email); err != nil {
		s.logger.WithError(err).Warn("Failed to read login attempt counter")
	} else if attempts >= s.config.MaxLoginAttempts {
		return nil, fmt.Errorf("too many failed attempts, try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		// Record the miss so unknown emails throttle at the same rate as
		// wrong passwords.
		s.cache.RecordFailedLogin(ctx, request.Email, s.config.LoginLockoutTime)
		return nil, fmt.Errorf("invalid email or password")
	}

	if user.Status == models.UserStatusSuspended {
		return nil, fmt.Errorf("account is suspended")
	}

	if !s.checkPassword(request.Password, user.Password) {
		attempts, _ := s.cache.RecordFailedLogin(ctx, request.Email, s.config.LoginLockoutTime)
		if attempts >= s.config.MaxLoginAttempts {
			s.logger.WithUserID(user.ID).WithField("attempts", attempts).Warn("Account locked after repeated failed logins")
			return nil, fmt.Errorf("too many failed attempts, try again later")
		}
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.cache.ResetFailedLogins(ctx, request.Email); err != nil {
		s.logger.WithError(err).Warn("Failed to reset login attempt counter")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to record last login")
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is not active")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

func (s *authService) SendEmailVerification(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsEmailVerified {
		return fmt.Errorf("email already verified")
	}

	code := utils.GenerateVerificationCode()

	if err := s.cache.StoreVerificationCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	body := fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.",
		utils.AppName, code, int(utils.VerificationCodeExpiry.Minutes()))

	if err := s.mailer.SendEmail(ctx, user.Email, utils.AppName+" email verification", body); err != nil {
		return err
	}

	s.logger.WithUserID(userID).Info("Verification email sent")
	return nil
}

// VerifyEmail checks the emailed code and, on success, logs the user in so
// the client can proceed without a second round trip.
func (s *authService) VerifyEmail(ctx context.Context, request *VerifyEmailRequest) (*AuthResponse, error) {
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := s.cache.CheckVerificationCode(ctx, user.Email, request.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("invalid or expired verification code")
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsEmailVerified = true

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("Email verified")

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.checkPassword(request.CurrentPassword, user.Password) {
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := s.hashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": hash}); err != nil {
		return err
	}

	s.logger.WithUserID(userID).Info("Password changed")
	return nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) sendVerificationEmail(user *models.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.SendEmailVerification(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to send verification email")
	}
}
