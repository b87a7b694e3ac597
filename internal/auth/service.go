package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/entity"
	"github.com/ajibade-k/budgetwise/internal/repository"
)

const bcryptCost = 12

// VerificationMailer sends the signup verification email. Failure to send
// never fails the signup.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, email, fullName, token string) error
}

type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type Service struct {
	users     repository.UserRepository
	mailer    VerificationMailer
	secret    []byte
	expiresIn time.Duration
	logger    *slog.Logger
}

func NewService(users repository.UserRepository, mailer VerificationMailer, secret string, expiresIn time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if expiresIn <= 0 {
		expiresIn = 7 * 24 * time.Hour
	}
	return &Service{
		users:     users,
		mailer:    mailer,
		secret:    []byte(secret),
		expiresIn: expiresIn,
		logger:    logger,
	}
}

// Signup creates the account and fires the verification email best-effort.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*entity.User, error) {
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email, fullName and password are required", common.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user already exists with this email", common.ErrInvalidInput)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, common.WrapError(err, "hash password")
	}

	token, err := newVerificationToken()
	if err != nil {
		return nil, common.WrapError(err, "generate verification token")
	}

	user, err := s.users.Create(ctx, repository.CreateUserRequest{
		Email:             req.Email,
		FullName:          req.FullName,
		PasswordHash:      string(hashed),
		VerificationToken: token,
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.FullName, token); err != nil {
			s.logger.Error("auth.signup.verification_email_failed", "user_id", user.ID, "err", err)
		}
	}

	s.logger.Info("auth.signup.ok", "user_id", user.ID)
	return user, nil
}

// Login checks the password and issues a signed token. Unknown email and bad
// password produce the same answer on purpose.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("auth.login.ok", "user_id", user.ID)
	return &LoginResponse{Token: token, User: user}, nil
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: verification token required", common.ErrInvalidInput)
	}
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired verification token", common.ErrInvalidInput)
		}
		return err
	}
	return s.users.MarkEmailVerified(ctx, user.ID)
}

// IssueToken signs an HS256 token carrying the user id and email.
func (s *Service) IssueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID.String(),
		"email":  user.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(s.expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", common.WrapError(err, "sign token")
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the user id it names.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: invalid token claims", common.ErrUnauthorized)
	}
	raw, _ := claims["userId"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid token subject", common.ErrUnauthorized)
	}
	return id, nil
}

func newVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
