package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository stores per-session auth state, currently whether the
// session passed the second factor and for which user.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) otpKey(sessionID string) string {
	return fmt.Sprintf("session:%s:otp", sessionID)
}

func (r *SessionRepository) MarkOTPVerified(ctx context.Context, sessionID string, userID uint) error {
	return r.client.Set(ctx, r.otpKey(sessionID), strconv.FormatUint(uint64(userID), 10), r.ttl).Err()
}

// IsOTPVerified is true only when the flag was set for this same user.
func (r *SessionRepository) IsOTPVerified(ctx context.Context, sessionID string, userID uint) (bool, error) {
	v, err := r.client.Get(ctx, r.otpKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == strconv.FormatUint(uint64(userID), 10), nil
}

func (r *SessionRepository) ClearOTP(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.otpKey(sessionID)).Err()
}
