package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cafe-backend/entity"

	"github.com/redis/go-redis/v9"
)

// CartRepository keeps session carts in redis as JSON.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) key(sessionID string) string {
	return fmt.Sprintf("session:%s:cart", sessionID)
}

// Get returns the stored cart, or nil when the session has none yet.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = map[string]entity.CartLine{}
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, sessionID string, cart *entity.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err()
}

func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
