package account

import (
	"context" // Mailer calls
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"strings" // Email normalization

	"expense_tracker/internal/domain"  // Importing domain models
	"expense_tracker/internal/gateway" // Mailer port
	"expense_tracker/internal/utils"   // JWT helpers

	"github.com/google/uuid"     // Reset token ids
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Sentinel errors returned by the account service
var (
	ErrEmailTaken     = errors.New("user already exists")           // Duplicate signup email
	ErrNoSuchUser     = errors.New("user not found")                // Unknown email
	ErrBadCredentials = errors.New("invalid password")              // Password mismatch
	ErrInvalidToken   = errors.New("invalid or expired reset link") // No active reset request for that token
	ErrMailDelivery   = errors.New("error sending reset email")     // Notification channel failed
)

// Service handles signup, login and the single-use password-reset flow.
type Service struct {
	db        *gorm.DB       // Database handle
	mailer    gateway.Mailer // Outbound reset-link delivery
	jwtSecret string         // Session token signing key
	baseURL   string         // Public base for reset links
}

// NewService returns an account service backed by db
func NewService(db *gorm.DB, mailer gateway.Mailer, jwtSecret, baseURL string) *Service {
	return &Service{db: db, mailer: mailer, jwtSecret: jwtSecret, baseURL: baseURL}
}

// SignUp registers a new user. The email is lowercased so uniqueness is
// case-insensitive; a duplicate yields ErrEmailTaken.
func (s *Service) SignUp(name, email, password string) (domain.User, error) {
	email = strings.ToLower(email)
	var existing domain.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Name: name, Email: email, Password: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login authenticates the email/password pair and issues a session token.
// The token carries the user's id, an entitlement snapshot taken at issuance,
// and an expiry; premium-gated routes re-check entitlement server-side, so a
// stale snapshot can never grant access.
func (s *Service) Login(email, password string) (token string, isPremium bool, err error) {
	var user domain.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrNoSuchUser
		}
		return "", false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", false, ErrBadCredentials
	}
	token, err = utils.GenerateJWT(user.ID, user.IsPremium, s.jwtSecret)
	if err != nil {
		return "", false, fmt.Errorf("generate token: %w", err)
	}
	return token, user.IsPremium, nil
}

// RequestReset creates a one-time reset request for the email's owner and
// mails the reset link. When delivery fails the just-created request is
// deleted again so no dangling active token survives a failed send, and the
// delivery error is surfaced.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	var user domain.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchUser
		}
		return err
	}
	request := domain.ForgotPasswordRequest{
		ID:       uuid.NewString(), // The UUID is the token itself
		UserID:   user.ID,
		IsActive: true,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return err
	}
	resetURL := s.baseURL + "/password/resetpassword/" + request.ID
	if err := s.mailer.SendResetLink(ctx, email, resetURL); err != nil {
		// Compensating delete: the link never reached the user
		s.db.Delete(&request)
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return nil
}

// VerifyReset reports whether the token matches an active reset request
func (s *Service) VerifyReset(token string) (bool, error) {
	var request domain.ForgotPasswordRequest
	err := s.db.Where("id = ? AND is_active = ?", token, true).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CompleteReset consumes the token and sets the new password. The consume is
// a compare-and-swap on the is_active flag inside the same transaction as the
// password update: of two concurrent calls with the same token, exactly one
// flips the flag and the other gets ErrInvalidToken.
func (s *Service) CompleteReset(token, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var request domain.ForgotPasswordRequest
		if err := tx.Where("id = ?", token).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		// Check-and-consume in one statement so a token is redeemed at most once
		res := tx.Model(&domain.ForgotPasswordRequest{}).
			Where("id = ? AND is_active = ?", token, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken // Already consumed
		}
		return tx.Model(&domain.User{}).Where("id = ?", request.UserID).Update("password", string(hash)).Error
	})
}
