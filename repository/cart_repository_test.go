package repository_test

import (
	"context"
	"testing"
	"time"

	"cafe-backend/entity"
	"cafe-backend/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCartRepository_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	repo := repository.NewCartRepository(client, time.Hour)
	ctx := context.Background()

	missing, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cart := entity.NewCart()
	cart.Add(entity.MenuItem{Model: gorm.Model{ID: 1}, Name: "Espresso", Price: decimal.RequireFromString("2.50")}, 2)
	require.NoError(t, repo.Save(ctx, "abc", cart))

	assert.True(t, mr.Exists("session:abc:cart"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc:cart"))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "5.00", got.Total().StringFixed(2))

	require.NoError(t, repo.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("session:abc:cart"))
}

func TestSessionRepository_OTPFlagBoundToUser(t *testing.T) {
	_, client := setupRedis(t)
	repo := repository.NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	ok, err := repo.IsOTPVerified(ctx, "s1", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.MarkOTPVerified(ctx, "s1", 5))
	ok, _ = repo.IsOTPVerified(ctx, "s1", 5)
	assert.True(t, ok)
	ok, _ = repo.IsOTPVerified(ctx, "s1", 6)
	assert.False(t, ok)

	require.NoError(t, repo.ClearOTP(ctx, "s1"))
	ok, _ = repo.IsOTPVerified(ctx, "s1", 5)
	assert.False(t, ok)
}
