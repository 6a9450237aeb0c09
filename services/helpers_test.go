package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cafe-backend/configs"
	"cafe-backend/entity"
	"cafe-backend/pkg/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, configs.SetupDatabase(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, staff bool) Actor {
	t.Helper()
	u := entity.User{Username: username, Email: username + "@example.com", Password: "x", IsStaff: staff}
	require.NoError(t, db.Omit("Profile").Create(&u).Error)
	require.NoError(t, db.Create(&entity.CustomerProfile{UserID: u.ID}).Error)
	return Actor{ID: u.ID, Username: username, IsStaff: staff}
}

func createMenuItem(t *testing.T, db *gorm.DB, name, price string, available bool) entity.MenuItem {
	t.Helper()
	var cat entity.Category
	require.NoError(t, db.Where(entity.Category{Name: "Coffee"}).FirstOrCreate(&cat).Error)
	item := entity.MenuItem{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
		CategoryID:  cat.ID,
	}
	require.NoError(t, db.Omit("Category").Create(&item).Error)
	return item
}

// memCartStore is an in-memory CartStore.
type memCartStore struct {
	mu      sync.Mutex
	carts   map[string]*entity.Cart
	deletes int
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]*entity.Cart{}}
}

func (m *memCartStore) Get(_ context.Context, sid string) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[sid]
	if !ok {
		return nil, nil
	}
	cp := entity.NewCart()
	for k, v := range c.Items {
		cp.Items[k] = v
	}
	return cp, nil
}

func (m *memCartStore) Save(_ context.Context, sid string, c *entity.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sid] = c
	return nil
}

func (m *memCartStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sid)
	m.deletes++
	return nil
}

// memSessions is an in-memory OTPSessionStore.
type memSessions struct {
	verified map[string]uint
}

func newMemSessions() *memSessions { return &memSessions{verified: map[string]uint{}} }

func (m *memSessions) MarkOTPVerified(_ context.Context, sid string, userID uint) error {
	m.verified[sid] = userID
	return nil
}

func (m *memSessions) IsOTPVerified(_ context.Context, sid string, userID uint) (bool, error) {
	id, ok := m.verified[sid]
	return ok && id == userID, nil
}

func (m *memSessions) ClearOTP(_ context.Context, sid string) error {
	delete(m.verified, sid)
	return nil
}

func pageOne() paging.Params { return paging.Params{Page: 1, Limit: 20} }
