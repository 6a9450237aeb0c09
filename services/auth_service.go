package services

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/audit"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"
	"cafe-backend/utils"

	"golang.org/x/crypto/bcrypt"
)

// OTPSessionStore remembers which sessions passed the second factor.
type OTPSessionStore interface {
	MarkOTPVerified(ctx context.Context, sessionID string, userID uint) error
	IsOTPVerified(ctx context.Context, sessionID string, userID uint) (bool, error)
	ClearOTP(ctx context.Context, sessionID string) error
}

// AuthService handles registration, login and logout. Every login outcome is
// written to the audit trail.
type AuthService struct {
	Users     *repository.UserRepository
	Profiles  *repository.ProfileRepository
	Devices   *repository.OTPDeviceRepository
	Sessions  OTPSessionStore
	Audit     *audit.Logger
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	devices *repository.OTPDeviceRepository,
	sessions OTPSessionStore,
	auditLog *audit.Logger,
	secret string,
	ttl time.Duration,
) *AuthService {
	return &AuthService{
		Users:     users,
		Profiles:  profiles,
		Devices:   devices,
		Sessions:  sessions,
		Audit:     auditLog,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterInput struct {
	Username    string `json:"username" form:"username" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
	FirstName   string `json:"firstName" form:"first_name"`
	LastName    string `json:"lastName" form:"last_name"`
	PhoneNumber string `json:"phoneNumber" form:"phone_number"`
	Address     string `json:"address" form:"address"`
}

const minPasswordLen = 8

// Register creates a customer account together with its profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || len(username) > 150 {
		return nil, apperr.Validation("username", "Enter a valid username")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email", "Enter a valid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password", "This password is too short. It must contain at least 8 characters")
	}
	if len(in.PhoneNumber) > 15 {
		return nil, apperr.Validation("phoneNumber", "Ensure this field has no more than 15 characters")
	}

	count, err := s.Users.CountByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Validation("username", "A user with that username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Profile: &entity.CustomerProfile{
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
			Address:     strings.TrimSpace(in.Address),
		},
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type LoginResult struct {
	Token       string       `json:"token"`
	User        *entity.User `json:"user"`
	OTPRequired bool         `json:"otpRequired"`
}

var errInvalidCredentials = apperr.Unauthorized("Invalid username or password")

// Login checks credentials and issues a JWT. When the user has a confirmed
// TOTP device the caller must still pass the second factor.
func (s *AuthService) Login(ctx context.Context, username, password, sessionID string, r *http.Request) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.Audit.LoginFailed(username, r)
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Audit.LoginFailed(username, r)
		return nil, errInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.IsStaff, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, err
	}
	hasDevice, err := s.Devices.HasConfirmed(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	// a fresh login must pass the second factor again
	if sessionID != "" {
		if err := s.Sessions.ClearOTP(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	s.Audit.LoginSucceeded(user.Username, r)
	return &LoginResult{Token: token, User: user, OTPRequired: hasDevice}, nil
}

func (s *AuthService) Logout(ctx context.Context, actor Actor, sessionID string, r *http.Request) error {
	if sessionID != "" {
		if err := s.Sessions.ClearOTP(ctx, sessionID); err != nil {
			return err
		}
	}
	s.Audit.LoggedOut(actor.Username, r)
	return nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*entity.User, error) {
	return s.Users.FindByID(ctx, actor.ID)
}

// ----- Profiles -----

type ProfileInput struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
}

// UpdateProfile changes the actor's own user and profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*entity.User, error) {
	userUpdates := map[string]any{}
	if in.FirstName != nil {
		userUpdates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		userUpdates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.Validation("email", "Enter a valid email address")
		}
		userUpdates["email"] = email
	}
	if len(userUpdates) > 0 {
		if err := s.Users.Update(ctx, actor.ID, userUpdates); err != nil {
			return nil, err
		}
	}

	profile, err := s.Profiles.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.applyProfile(ctx, profile, in); err != nil {
		return nil, err
	}
	return s.Users.FindByID(ctx, actor.ID)
}

func (s *AuthService) applyProfile(ctx context.Context, profile *entity.CustomerProfile, in ProfileInput) error {
	updates := map[string]any{}
	if in.PhoneNumber != nil {
		phone := strings.TrimSpace(*in.PhoneNumber)
		if len(phone) > 15 {
			return apperr.Validation("phoneNumber", "Ensure this field has no more than 15 characters")
		}
		updates["phone_number"] = phone
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if len(updates) == 0 {
		return nil
	}
	return s.Profiles.Update(ctx, profile, updates)
}

func (s *AuthService) ListProfiles(ctx context.Context, actor Actor, p paging.Params) ([]entity.CustomerProfile, int64, error) {
	return s.Profiles.List(ctx, actor.Scope(), p)
}

func (s *AuthService) GetProfile(ctx context.Context, actor Actor, id uint) (*entity.CustomerProfile, error) {
	return s.Profiles.FindByID(ctx, id, actor.Scope())
}

// UpdateProfileByID backs the REST profile resource: owners edit their own,
// staff may read all but only edit their own.
func (s *AuthService) UpdateProfileByID(ctx context.Context, actor Actor, id uint, in ProfileInput) (*entity.CustomerProfile, error) {
	profile, err := s.Profiles.FindByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}
	if profile.UserID != actor.ID {
		return nil, apperr.Permission("you can only change your own profile")
	}
	if err := s.applyProfile(ctx, profile, in); err != nil {
		return nil, err
	}
	return s.Profiles.FindByID(ctx, id, nil)
}
