package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorent/internal/utils"
	"gorent/pkg/cache"
	"gorent/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CacheService wraps the Redis client with the application-level operations
// the other services need: plain KV caching, short-lived locks, verification
// codes and login throttling counters.
type CacheService interface {
	// Basic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Locking. AcquireBookingLock is the guard against double submission:
	// only one in-flight booking per (user, vehicle) pair.
	AcquireBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) (bool, error)
	ReleaseBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) error

	// Email verification codes
	StoreVerificationCode(ctx context.Context, email, code string) error
	CheckVerificationCode(ctx context.Context, email, code string) (bool, error)

	// Login throttling
	RecordFailedLogin(ctx context.Context, email string, lockout time.Duration) (int64, error)
	FailedLoginCount(ctx context.Context, email string) (int64, error)
	ResetFailedLogins(ctx context.Context, email string) error

	// Health
	Ping(ctx context.Context) error
}

type cacheService struct {
	redis  *cache.RedisCache
	logger *logger.Logger
}

func NewCacheService(redis *cache.RedisCache, logger *logger.Logger) CacheService {
	return &cacheService{
		redis:  redis,
		logger: logger,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.redis.Get(ctx, key, dest)
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.redis.Set(ctx, key, value, expiration)
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	return s.redis.Delete(ctx, keys...)
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	return s.redis.Exists(ctx, key)
}

func (s *cacheService) AcquireBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) (bool, error) {
	key := bookingLockKey(userID, vehicleID)
	acquired, err := s.redis.SetNX(ctx, key, time.Now().Unix(), utils.BookingLockTTL)
	if err != nil {
		return false, fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	if !acquired {
		s.logger.WithUserID(userID).WithVehicleID(vehicleID).Warn("Booking already in flight for this user and vehicle")
	}
	return acquired, nil
}

func (s *cacheService) ReleaseBookingLock(ctx context.Context, userID, vehicleID primitive.ObjectID) error {
	return s.redis.Delete(ctx, bookingLockKey(userID, vehicleID))
}

func (s *cacheService) StoreVerificationCode(ctx context.Context, email, code string) error {
	return s.redis.Set(ctx, utils.CacheKeyVerifyCode+email, code, utils.VerificationCodeExpiry)
}

func (s *cacheService) CheckVerificationCode(ctx context.Context, email, code string) (bool, error) {
	var stored string
	err := s.redis.Get(ctx, utils.CacheKeyVerifyCode+email, &stored)
	if err != nil {
		return false, nil
	}
	if stored != code {
		return false, nil
	}

	// One use per code.
	if err := s.redis.Delete(ctx, utils.CacheKeyVerifyCode+email); err != nil {
		s.logger.WithError(err).Warn("Failed to delete used verification code")
	}
	return true, nil
}

func (s *cacheService) RecordFailedLogin(ctx context.Context, email string, lockout time.Duration) (int64, error) {
	key := utils.CacheKeyLoginFails + email
	count, err := s.redis.Increment(ctx, key)
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.redis.SetExpire(ctx, key, lockout); err != nil {
			return count, err
		}
	}
	return count, nil
}

// FailedLoginCount reads the counter without touching it; a missing key
// means a clean slate.
func (s *cacheService) FailedLoginCount(ctx context.Context, email string) (int64, error) {
	var count int64
	if err := s.redis.Get(ctx, utils.CacheKeyLoginFails+email, &count); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *cacheService) ResetFailedLogins(ctx context.Context, email string) error {
	return s.redis.Delete(ctx, utils.CacheKeyLoginFails+email)
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx)
}

func bookingLockKey(userID, vehicleID primitive.ObjectID) string {
	return fmt.Sprintf("%s%s:%s", utils.CacheKeyBookingLock, userID.Hex(), vehicleID.Hex())
}
