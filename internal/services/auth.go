package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

const (
	resetTokenTTL  = time.Hour
	verifyTokenTTL = 48 * time.Hour
)

var (
	errInvalidLogin       = response.NewUnauthorized("invalid email or password")
	errInvalidActionToken = response.NewBadRequest("invalid or expired token")
)

type AuthService struct {
	db          *gorm.DB
	mailer      Mailer
	expireHours int
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, mailer Mailer, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		db:          db,
		mailer:      mailer,
		expireHours: expireHours,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account, signs it in and mails a verification link.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.Model(&records.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := records.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      "user",
	}

	var token string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		token, err = s.issueActionToken(tx, user.ID, records.PurposeVerifyEmail, verifyTokenTTL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(user.Email, token); err != nil {
		logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to send verification mail")
	}
	logger.Info().Uint("user_id", user.ID).Msg("user registered")

	return s.authResponse(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user records.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidLogin
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, errInvalidLogin
	}
	return s.authResponse(&user)
}

func (s *AuthService) authResponse(user *records.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := utils.GenerateTokenWithExpiry(user.ID, user.Email, user.Role, s.expireHours)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		UserID:    int64(user.ID),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// ForgotPassword mails a reset token. Unknown addresses succeed silently so the
// endpoint does not reveal which emails have accounts.
func (s *AuthService) ForgotPassword(email string) error {
	var user records.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var token string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Only the newest reset link stays valid.
		if err := tx.Where("user_id = ? AND purpose = ? AND used_at IS NULL", user.ID, records.PurposeResetPassword).
			Delete(&records.ActionToken{}).Error; err != nil {
			return err
		}
		var err error
		token, err = s.issueActionToken(tx, user.ID, records.PurposeResetPassword, resetTokenTTL)
		return err
	})
	if err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(user.Email, token)
}

func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		stored, err := s.consumeActionToken(tx, req.Token, records.PurposeResetPassword)
		if err != nil {
			return err
		}
		return tx.Model(&records.User{}).Where("id = ?", stored.UserID).Update("password", hash).Error
	})
}

func (s *AuthService) VerifyEmail(token string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		stored, err := s.consumeActionToken(tx, token, records.PurposeVerifyEmail)
		if err != nil {
			return err
		}
		return tx.Model(&records.User{}).Where("id = ?", stored.UserID).Update("email_verified", true).Error
	})
}

// CleanupTokens deletes used and expired action tokens.
func (s *AuthService) CleanupTokens() (int64, error) {
	result := s.db.Where("used_at IS NOT NULL OR expires_at < ?", s.now()).Delete(&records.ActionToken{})
	return result.RowsAffected, result.Error
}

func (s *AuthService) issueActionToken(tx *gorm.DB, userID uint, purpose string, ttl time.Duration) (string, error) {
	token, hash := utils.NewActionToken()
	record := records.ActionToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: hash,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := tx.Create(&record).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) consumeActionToken(tx *gorm.DB, token, purpose string) (*records.ActionToken, error) {
	if token == "" {
		return nil, errInvalidActionToken
	}

	var stored records.ActionToken
	err := tx.Where("token_hash = ? AND purpose = ?", utils.HashActionToken(token), purpose).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidActionToken
		}
		return nil, err
	}

	now := s.now()
	if stored.UsedAt != nil || now.After(stored.ExpiresAt) {
		return nil, errInvalidActionToken
	}

	// Conditional update so two concurrent consumers cannot both succeed.
	result := tx.Model(&records.ActionToken{}).
		Where("id = ? AND used_at IS NULL", stored.ID).
		Update("used_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errInvalidActionToken
	}
	return &stored, nil
}

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", response.NewBadRequest(err.Error())
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
