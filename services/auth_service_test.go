package services

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/audit"
	"cafe-backend/repository"
	"cafe-backend/utils"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type authFixture struct {
	db       *gorm.DB
	auth     *AuthService
	twoFA    *TwoFactorService
	sessions *memSessions
	logs     *observer.ObservedLogs
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	db := setupDB(t)
	core, logs := observer.New(zapcore.InfoLevel)
	auditLog := audit.New(zap.New(core))
	sessions := newMemSessions()
	devices := repository.NewOTPDeviceRepository(db)
	return authFixture{
		db: db,
		auth: NewAuthService(repository.NewUserRepository(db), repository.NewProfileRepository(db),
			devices, sessions, auditLog, testSecret, time.Hour),
		twoFA:    NewTwoFactorService(devices, sessions, auditLog, "Cafe"),
		sessions: sessions,
		logs:     logs,
	}
}

func (f authFixture) register(t *testing.T, username string) Actor {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username, Email: username + "@example.com", Password: "s3cretpass", PhoneNumber: "0812345678",
	})
	require.NoError(t, err)
	return Actor{ID: u.ID, Username: u.Username}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	actor := f.register(t, "alice")
	me, err := f.auth.Me(ctx, actor)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "0812345678", me.Profile.PhoneNumber)
	assert.NotEqual(t, "s3cretpass", me.Password)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "s3cretpass"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.auth.Register(ctx, RegisterInput{Username: "bob", Email: "not-an-email", Password: "s3cretpass"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "email", e.Field)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "password", e.Field)
}

func TestLogin_AuditsOutcome(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice")
	ctx := context.Background()

	r := httptest.NewRequest("POST", "/login/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.Header.Set("User-Agent", "curl/8")

	_, err := f.auth.Login(ctx, "alice", "wrong-password", "s1", r)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	res, err := f.auth.Login(ctx, "alice", "s3cretpass", "s1", r)
	require.NoError(t, err)
	assert.False(t, res.OTPRequired)
	claims, err := utils.ParseToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	entries := f.logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t,
		"[LOGIN_FAILED] Failed login attempt for alice - User: alice, IP: 203.0.113.9, User Agent: curl/8",
		entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.True(t, strings.HasPrefix(entries[1].Message, "[LOGIN_SUCCESS] User alice logged in"))
	assert.Equal(t, "security", entries[1].LoggerName)
}

func TestLogin_UnknownUserLooksLikeBadPassword(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login(context.Background(), "ghost", "whatever", "", nil)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid username or password", e.Message)
	assert.Equal(t, 1, f.logs.FilterField(zap.String("event", audit.TypeLoginFailed)).Len())
}

func TestTwoFactor_SetupAndVerify(t *testing.T) {
	f := newAuthFixture(t)
	actor := f.register(t, "alice")
	ctx := context.Background()

	setup, err := f.twoFA.BeginSetup(ctx, actor)
	require.NoError(t, err)
	assert.Contains(t, setup.URL, "otpauth://totp/")

	// unconfirmed devices do not gate the session
	need, err := f.twoFA.NeedsVerification(ctx, actor.ID, "s1")
	require.NoError(t, err)
	assert.False(t, need)

	err = f.twoFA.ConfirmSetup(ctx, actor, "s1", "000000x", nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.twoFA.ConfirmSetup(ctx, actor, "s1", code, nil))

	need, err = f.twoFA.NeedsVerification(ctx, actor.ID, "s1")
	require.NoError(t, err)
	assert.False(t, need)

	// a new login on the same session owes the second factor again
	res, err := f.auth.Login(ctx, "alice", "s3cretpass", "s1", nil)
	require.NoError(t, err)
	assert.True(t, res.OTPRequired)
	need, err = f.twoFA.NeedsVerification(ctx, actor.ID, "s1")
	require.NoError(t, err)
	assert.True(t, need)

	err = f.twoFA.Verify(ctx, actor, "s1", "12345x", nil)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
	assert.Equal(t, 2, f.logs.FilterField(zap.String("event", audit.TypeOTPFailed)).Len())

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.twoFA.Verify(ctx, actor, "s1", code, nil))
	need, err = f.twoFA.NeedsVerification(ctx, actor.ID, "s1")
	require.NoError(t, err)
	assert.False(t, need)

	// the verified flag belongs to the user who earned it
	bob := f.register(t, "bob")
	ok, err := f.sessions.IsOTPVerified(ctx, "s1", bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	actor := f.register(t, "alice")
	ctx := context.Background()

	addr := "12 Bean Street"
	first := "Alice"
	u, err := f.auth.UpdateProfile(ctx, actor, ProfileInput{FirstName: &first, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	require.NotNil(t, u.Profile)
	assert.Equal(t, addr, u.Profile.Address)
	assert.Equal(t, "0812345678", u.Profile.PhoneNumber)

	long := strings.Repeat("1", 16)
	_, err = f.auth.UpdateProfile(ctx, actor, ProfileInput{PhoneNumber: &long})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	bob := f.register(t, "bob")
	profiles, total, err := f.auth.ListProfiles(ctx, bob, pageOne())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bob.ID, profiles[0].UserID)
}
