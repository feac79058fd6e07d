package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTP is a pending one-time login code
type OTP struct {
	Code        string
	RecruiterID string
	Attempts    int
}

// OTPCache handles Redis operations for login codes, keyed by normalised
// email or phone
type OTPCache interface {
	Set(ctx context.Context, subject string, otp OTP, ttl time.Duration) error
	Get(ctx context.Context, subject string) (*OTP, error)
	IncrAttempts(ctx context.Context, subject string) (int, error)
	Delete(ctx context.Context, subject string) error
}

type otpCache struct {
	client *redis.Client
}

// NewOTPCache creates a new OTP cache
func NewOTPCache(client *redis.Client) OTPCache {
	return &otpCache{
		client: client,
	}
}

func (c *otpCache) key(subject string) string {
	return fmt.Sprintf("otp:%s", subject)
}

func (c *otpCache) Set(ctx context.Context, subject string, otp OTP, ttl time.Duration) error {
	key := c.key(subject)
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", otp.Code, "recruiterId", otp.RecruiterID, "attempts", otp.Attempts)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *otpCache) Get(ctx context.Context, subject string) (*OTP, error) {
	data, err := c.client.HGetAll(ctx, c.key(subject)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	attempts, _ := strconv.Atoi(data["attempts"])
	return &OTP{
		Code:        data["code"],
		RecruiterID: data["recruiterId"],
		Attempts:    attempts,
	}, nil
}

func (c *otpCache) IncrAttempts(ctx context.Context, subject string) (int, error) {
	n, err := c.client.HIncrBy(ctx, c.key(subject), "attempts", 1).Result()
	return int(n), err
}

func (c *otpCache) Delete(ctx context.Context, subject string) error {
	return c.client.Del(ctx, c.key(subject)).Err()
}
