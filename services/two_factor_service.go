package services

import (
	"context"
	"net/http"
	"strings"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/audit"
	"cafe-backend/repository"

	"github.com/pquerna/otp/totp"
)

// TwoFactorService manages TOTP devices and per-session verification.
type TwoFactorService struct {
	Devices  *repository.OTPDeviceRepository
	Sessions OTPSessionStore
	Audit    *audit.Logger
	Issuer   string
}

func NewTwoFactorService(devices *repository.OTPDeviceRepository, sessions OTPSessionStore, auditLog *audit.Logger, issuer string) *TwoFactorService {
	return &TwoFactorService{Devices: devices, Sessions: sessions, Audit: auditLog, Issuer: issuer}
}

type SetupResult struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
}

// BeginSetup issues a new secret. The device only takes effect once confirmed
// with a valid code.
func (s *TwoFactorService) BeginSetup(ctx context.Context, actor Actor) (*SetupResult, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.Issuer, AccountName: actor.Username})
	if err != nil {
		return nil, err
	}
	d := &entity.OTPDevice{UserID: actor.ID, Name: "default", Secret: key.Secret()}
	if err := s.Devices.ReplacePending(ctx, d); err != nil {
		return nil, err
	}
	return &SetupResult{Secret: key.Secret(), URL: key.URL()}, nil
}

// ConfirmSetup activates the pending device and marks the session verified.
func (s *TwoFactorService) ConfirmSetup(ctx context.Context, actor Actor, sessionID, code string, r *http.Request) error {
	d, err := s.Devices.FindPending(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !totp.Validate(strings.TrimSpace(code), d.Secret) {
		s.Audit.OTPFailed(actor.Username, entity.TOTPDeviceClass, r)
		return apperr.Validation("code", "Invalid token. Please make sure you have entered it correctly")
	}
	if err := s.Devices.Confirm(ctx, d.ID); err != nil {
		return err
	}
	return s.Sessions.MarkOTPVerified(ctx, sessionID, actor.ID)
}

// Verify checks a code against every confirmed device of the user.
func (s *TwoFactorService) Verify(ctx context.Context, actor Actor, sessionID, code string, r *http.Request) error {
	devices, err := s.Devices.ListConfirmed(ctx, actor.ID)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return apperr.Validation("code", "No confirmed device")
	}
	code = strings.TrimSpace(code)
	for _, d := range devices {
		if totp.Validate(code, d.Secret) {
			return s.Sessions.MarkOTPVerified(ctx, sessionID, actor.ID)
		}
	}
	s.Audit.OTPFailed(actor.Username, entity.TOTPDeviceClass, r)
	return apperr.Unauthorized("Invalid token")
}

// NeedsVerification reports whether this session still owes a second factor.
func (s *TwoFactorService) NeedsVerification(ctx context.Context, userID uint, sessionID string) (bool, error) {
	has, err := s.Devices.HasConfirmed(ctx, userID)
	if err != nil || !has {
		return false, err
	}
	if sessionID == "" {
		return true, nil
	}
	ok, err := s.Sessions.IsOTPVerified(ctx, sessionID, userID)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
