package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/models"
)

var (
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// Store is the user persistence interface the service needs.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type Service interface {
	Signup(ctx context.Context, username, email, password string, walletAddress *string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

type service struct {
	store  Store
	secret []byte
	expiry time.Duration
}

// NewService creates an auth service signing tokens with secret, valid
// for expireMinutes.
func NewService(store Store, secret string, expireMinutes int) Service {
	return &service{
		store:  store,
		secret: []byte(secret),
		expiry: time.Duration(expireMinutes) * time.Minute,
	}
}

var _ Service = (*service)(nil)

func (s *service) Signup(ctx context.Context, username, email, password string, walletAddress *string) (*models.User, string, error) {
	if existing, err := s.store.GetByUsername(ctx, username); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", ErrDuplicateUsername
	}
	if existing, err := s.store.GetByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		ID:            ids.New("usr_"),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		WalletAddress: walletAddress,
		Role:          "user",
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// UserFromToken validates the token and loads the user it identifies.
func (s *service) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	tok, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	user, err := s.store.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
