package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/internal/metrics"
	"github.com/Payphone-Digital/clinic-admin/internal/model"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"gorm.io/gorm"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type ResetStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*model.Account, error)
	SaveOTPChallenge(ctx context.Context, id, code string, expiresAt time.Time) error
	ExchangeOTPForGrant(ctx context.Context, id, code, tokenHash string, grantExpiry time.Time) (bool, error)
	ConsumeResetGrant(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)
}

type SendThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ResetService runs the forgot-password protocol: a short lived numeric code is
// exchanged for a single-use reset grant which is exchanged for a new password.
type ResetService struct {
	store    ResetStore
	hasher   *PasswordHasher
	notifier Notifier
	throttle SendThrottle
	codeTTL  time.Duration
	grantTTL time.Duration
	now      func() time.Time
	newCode  func() (string, error)
	newToken func() (string, error)
}

func NewResetService(store ResetStore, hasher *PasswordHasher, notifier Notifier, throttle SendThrottle, cfg config.OTPConfig) *ResetService {
	return &ResetService{
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		throttle: throttle,
		codeTTL:  cfg.CodeTTL,
		grantTTL: cfg.GrantTTL,
		now:      time.Now,
		newCode:  generateOTP,
		newToken: generateResetToken,
	}
}

func (s *ResetService) SendOTP(ctx context.Context, identifier string) (*dto.SendOTPResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SendOTP")

	identifier = strings.TrimSpace(identifier)
	account, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		metrics.OTPEvents.WithLabelValues("send", "unknown_identifier").Inc()
		return nil, s.lookupError(ctx, err)
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, account.ID)
		if err != nil {
			logger.WarnWithContext(ctx, "OTP throttle unavailable, allowing send").
				String("account_id", account.ID).
				Err(err).
				Log()
		} else if !allowed {
			metrics.OTPEvents.WithLabelValues("send", "throttled").Inc()
			return nil, apperrors.ErrTooManyRequests
		}
	}

	code, err := s.newCode()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	expiresAt := s.now().Add(s.codeTTL)

	if err := s.store.SaveOTPChallenge(ctx, account.ID, code, expiresAt); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store OTP challenge").
			String("account_id", account.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	channel, address := ChannelSMS, account.Phone
	if strings.EqualFold(identifier, account.Email) {
		channel, address = ChannelEmail, account.Email
	}

	if err := s.notifier.SendOTP(ctx, address, code, account.Name); err != nil {
		logger.ErrorWithContext(ctx, "OTP dispatch failed").
			String("account_id", account.ID).
			String("channel", channel).
			Err(err).
			Log()
	}

	metrics.OTPEvents.WithLabelValues("send", "issued").Inc()
	logger.InfoWithContext(ctx, "OTP issued").
		String("account_id", account.ID).
		String("channel", channel).
		Time("expires_at", expiresAt).
		Log()

	return &dto.SendOTPResponse{
		Identifier: identifier,
		Channel:    channel,
		ExpiresAt:  expiresAt,
	}, nil
}

// VerifyOTP checks the code before its expiry, so a wrong code never reveals whether a challenge is live
func (s *ResetService) VerifyOTP(ctx context.Context, identifier, code string) (*dto.VerifyOTPResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "VerifyOTP")

	account, err := s.store.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}

	challenge := account.OTP
	if !challenge.Live() || subtle.ConstantTimeCompare([]byte(*challenge.Code), []byte(code)) != 1 {
		metrics.OTPEvents.WithLabelValues("verify", "invalid").Inc()
		return nil, apperrors.ErrInvalidOTP
	}

	now := s.now()
	if now.After(*challenge.ExpiresAt) {
		metrics.OTPEvents.WithLabelValues("verify", "expired").Inc()
		return nil, apperrors.ErrOTPExpired
	}

	token, err := s.newToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	grantExpiry := now.Add(s.grantTTL)

	swapped, err := s.store.ExchangeOTPForGrant(ctx, account.ID, code, tokenDigest(token), grantExpiry)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !swapped {
		// a concurrent send or verify replaced the challenge
		metrics.OTPEvents.WithLabelValues("verify", "invalid").Inc()
		return nil, apperrors.ErrInvalidOTP
	}

	metrics.OTPEvents.WithLabelValues("verify", "granted").Inc()
	logger.InfoWithContext(ctx, "OTP verified, reset grant issued").
		String("account_id", account.ID).
		Time("grant_expires_at", grantExpiry).
		Log()

	return &dto.VerifyOTPResponse{ResetToken: token, ExpiresAt: grantExpiry}, nil
}

// ResetPassword consumes the grant. Unknown, expired and already used tokens fail identically.
func (s *ResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "ResetPassword")

	if token == "" {
		return apperrors.ErrInvalidOrExpiredGrant
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	consumed, err := s.store.ConsumeResetGrant(ctx, tokenDigest(token), digest, s.now())
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !consumed {
		metrics.OTPEvents.WithLabelValues("reset", "rejected").Inc()
		return apperrors.ErrInvalidOrExpiredGrant
	}

	metrics.OTPEvents.WithLabelValues("reset", "completed").Inc()
	logger.InfoWithContext(ctx, "Password reset completed").Log()
	return nil
}

func (s *ResetService) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrAccountNotFound
	}
	logger.ErrorWithContext(ctx, "Account lookup failed").Err(err).Log()
	return apperrors.WrapError(apperrors.ErrInternal, err)
}

// generateOTP draws a uniformly distributed 6 digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", constants.OTPLength, n.Int64()), nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, constants.ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// tokenDigest is what gets persisted in place of the raw reset token
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
