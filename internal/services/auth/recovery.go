package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/lib/otp"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// ForgotPassword выпускает новый код сброса и отправляет его на почту.
// Новый код перезаписывает ранее выданный. Пока держится защёлка частоты,
// новый код не выпускается, а старый остаётся действительным.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "auth.ForgotPassword"

	if email == "" {
		return fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "email is required"))
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, lookupErr(err))
	}

	rateKey := cache.OTPRateKey(email)
	acquired, err := s.cache.Acquire(ctx, rateKey, s.policy.OTPRequestInterval)
	if err != nil {
		s.warnCache(op, rateKey, err)
		acquired = true
	}
	if !acquired {
		s.metrics.AuthEvent("forgot_password", "rate_limited")
		return fmt.Errorf("%s: %w", op, common.ErrRateLimited)
	}

	code, err := otp.Generate()
	if err != nil {
		s.invalidate(ctx, op, rateKey)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetResetCode(ctx, user.ID, code, s.now().Add(s.policy.OTPTTL)); err != nil {
		s.invalidate(ctx, op, rateKey)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(models.Email{Kind: models.EmailResetCode, To: user.Email, Name: user.Name, Code: code})

	s.log.Info("reset code issued", slog.String("op", op), slog.String("user_id", user.ID))
	s.metrics.AuthEvent("forgot_password", "success")
	return nil
}

// VerifyOTP проверяет код сброса и гасит его. Взамен возвращается одноразовый
// грант, который принимает ResetPassword.
func (s *Service) VerifyOTP(ctx context.Context, userID, code string) (string, error) {
	const op = "auth.VerifyOTP"

	if userID == "" || code == "" {
		return "", fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "userId and otp are required"))
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, lookupErr(err))
	}

	if user.ResetCode == nil || user.ResetCodeExpiresAt == nil {
		s.metrics.AuthEvent("verify_otp", "invalid_code")
		return "", fmt.Errorf("%s: %w", op, common.ErrInvalidCode)
	}
	if s.now().After(*user.ResetCodeExpiresAt) {
		s.metrics.AuthEvent("verify_otp", "expired")
		return "", fmt.Errorf("%s: %w", op, common.ErrExpired)
	}
	if !otp.Equal(*user.ResetCode, code) {
		s.metrics.AuthEvent("verify_otp", "invalid_code")
		return "", fmt.Errorf("%s: %w", op, common.ErrInvalidCode)
	}

	grant, grantHash, err := otp.NewGrant()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	consumed, err := s.users.ConsumeResetCode(ctx, user.ID, code, grantHash, now, now.Add(s.policy.ResetGrantTTL))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !consumed {
		// код погашен параллельной проверкой
		s.metrics.AuthEvent("verify_otp", "invalid_code")
		return "", fmt.Errorf("%s: %w", op, common.ErrInvalidCode)
	}

	s.metrics.AuthEvent("verify_otp", "success")
	return grant, nil
}

// ResetPassword меняет пароль по гранту из VerifyOTP или по коду, проверяемому здесь же.
// Без одного из них сброс невозможен.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	const op = "auth.ResetPassword"

	if in.UserID == "" {
		return fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "userId is required"))
	}

	user, err := s.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, lookupErr(err))
	}
	if err := s.validatePassword(in.Password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	grant := in.ResetToken
	if grant == "" {
		if in.OTP == "" {
			return fmt.Errorf("%s: %w", op, common.E(common.ErrValidation, "resetToken or otp is required"))
		}
		grant, err = s.VerifyOTP(ctx, user.ID, in.OTP)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	updated, err := s.users.ResetPassword(ctx, user.ID, otp.HashGrant(grant), hash, s.now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !updated {
		s.metrics.AuthEvent("reset_password", "invalid_grant")
		return fmt.Errorf("%s: %w", op, common.ErrInvalidGrant)
	}

	s.invalidate(ctx, op, append(cache.UserKeys(user.ID, user.Email), cache.FailedLoginKey(user.ID))...)
	s.notify(models.Email{Kind: models.EmailResetSuccess, To: user.Email, Name: user.Name})

	s.log.Info("password reset", slog.String("op", op), slog.String("user_id", user.ID))
	s.metrics.AuthEvent("reset_password", "success")
	return nil
}
