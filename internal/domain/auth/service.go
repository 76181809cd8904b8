package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"hrms/internal/domain/validation"
	cryptoutil "hrms/internal/platform/crypto"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Options struct {
	Secret    string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
	EmailFrom string
	Issuer    string
}

type LoginResult struct {
	Access             string    `json:"access"`
	ExpiresAt          time.Time `json:"expires_at"`
	User               User      `json:"user"`
	MustChangePassword bool      `json:"must_change_password"`
}

type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type Service struct {
	store  StoreAPI
	crypto *cryptoutil.Service
	mailer Mailer
	opts   Options
	logger *slog.Logger
}

func NewService(store StoreAPI, crypto *cryptoutil.Service, mailer Mailer, opts Options, logger *slog.Logger) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 2 * time.Hour
	}
	if opts.Issuer == "" {
		opts.Issuer = "HRMS"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, crypto: crypto, mailer: mailer, opts: opts, logger: logger}
}

func (s *Service) Login(ctx context.Context, email, password, code string) (LoginResult, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.passwordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if strings.TrimSpace(code) == "" {
			return LoginResult{}, ErrMFARequired
		}
		secret, err := s.mfaSecret(user)
		if err != nil || secret == "" || !totp.Validate(code, secret) {
			return LoginResult{}, ErrMFAInvalid
		}
	}

	token, err := GenerateToken(s.opts.Secret, Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, s.opts.TokenTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Access:             token,
		ExpiresAt:          time.Now().Add(s.opts.TokenTTL).UTC(),
		User:               user,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) CreateUser(ctx context.Context, user User, password string) (User, error) {
	v := validation.New()
	user.Email = strings.TrimSpace(user.Email)
	if user.Role == "" {
		user.Role = RoleEmployee
	}
	v.Required("email", user.Email)
	v.Email("email", user.Email)
	v.Enum("role", user.Role, Roles)
	validatePassword(v, "password", password)
	if err := v.Err(); err != nil {
		return User{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, user, hash)
}

// RequestReset never reveals whether the address exists.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, err := s.store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Warn("password reset lookup failed", "err", err)
		}
		return nil
	}

	token, err := generateToken()
	if err != nil {
		s.logger.Warn("password reset token generation failed", "userId", user.ID, "err", err)
		return nil
	}
	if err := s.store.CreatePasswordReset(ctx, user.ID, HashToken(token), time.Now().Add(s.opts.ResetTTL)); err != nil {
		s.logger.Warn("password reset insert failed", "userId", user.ID, "err", err)
		return nil
	}
	if s.mailer != nil {
		body := fmt.Sprintf("Use this token to reset your password: %s\nIt expires in %s.", token, s.opts.ResetTTL)
		if err := s.mailer.Send(ctx, s.opts.EmailFrom, user.Email, "Password reset", body); err != nil {
			s.logger.Warn("password reset email failed", "userId", user.ID, "err", err)
		}
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	v := validation.New()
	v.Required("token", token)
	validatePassword(v, "new_password", newPassword)
	if err := v.Err(); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.ResetPassword(ctx, HashToken(strings.TrimSpace(token)), hash)
}

func (s *Service) SetupMFA(ctx context.Context, userID string) (MFASetup, error) {
	if s.crypto == nil || !s.crypto.Configured() {
		return MFASetup{}, ErrMFAUnavailable
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return MFASetup{}, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.opts.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, fmt.Errorf("generate mfa secret: %w", err)
	}
	encrypted, err := s.crypto.EncryptString(key.Secret())
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.store.UpdateMFASecret(ctx, userID, encrypted); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	if s.crypto == nil || !s.crypto.Configured() {
		return ErrMFAUnavailable
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(user.mfaSecretEnc) == 0 {
		return ErrMFANotConfigured
	}
	secret, err := s.mfaSecret(user)
	if err != nil || !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.store.SetMFAEnabled(ctx, userID, true)
}

func (s *Service) mfaSecret(user User) (string, error) {
	if s.crypto != nil && s.crypto.Configured() {
		return s.crypto.DecryptString(user.mfaSecretEnc)
	}
	return string(user.mfaSecretEnc), nil
}

func validatePassword(v *validation.Validator, field, password string) {
	if len(password) < 8 {
		v.Add(field, "must be at least 8 characters")
	}
}

func generateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
