package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"allai/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	bcryptCost = 10
	tokenTTL   = 7 * 24 * time.Hour
)

// AuthService signs accounts up and in against a UserStore.
type AuthService struct {
	store  UserStore
	secret []byte
	now    func() time.Time
}

func NewAuthService(store UserStore, secret string) *AuthService {
	return &AuthService{store: store, secret: []byte(secret), now: time.Now}
}

// SignUp creates a basic-plan account and returns a token for it.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (models.AuthResponse, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return models.AuthResponse{}, ErrMissingCredentials
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return models.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		UserClass:    models.PlanBasic,
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return models.AuthResponse{}, err
	}

	return s.respond(user)
}

// SignIn verifies the password and returns a fresh token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.AuthResponse, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return models.AuthResponse{}, ErrMissingCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	return s.respond(user)
}

// Verify parses a token and returns the account email it was issued for.
func (s *AuthService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// CurrentUser resolves a verified token subject to the stored account.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (models.PublicUser, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) respond(user models.User) (models.AuthResponse, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		ID:        user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return models.AuthResponse{Token: token, User: user.Public()}, nil
}
